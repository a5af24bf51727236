package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Routes configura e retorna o roteador Chi
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	// Middlewares globais
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	// Permite que o frontend (localhost:3000) fale com o backend
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300, // Tempo de cache da preflight
	}))

	// Rotas da API V1
	r.Route("/v1", func(r chi.Router) {
		// Endpoints públicos (sem autenticação)
		r.Post("/users/register", h.handleRegisterUser)
		r.Post("/users/login", h.handleLoginUser)
		r.Post("/users/oauth", h.handleOAuthLogin)

		// Endpoints protegidos (requerem autenticação)
		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)

			r.Get("/users", h.handleGetAllUsers)
			r.Get("/users/me", h.handleGetMe)
			r.Get("/users/{id}/items", h.handleGetUserItems)

			r.Post("/items", h.handleCreateItem)
			r.Get("/items", h.handleGetAllItems)
			r.Get("/items/{id}", h.handleGetItem)
			r.Put("/items/{id}", h.handleUpdateItem)
			r.Delete("/items/{id}", h.handleDeleteItem)

			r.Post("/items/upload-url", h.handleGetUploadURL)
			r.Get("/items/download-url", h.handleGetDownloadURL)

			r.Post("/trades", h.handleCreateTrade)
			r.Get("/trades", h.handleGetTrades)
			r.Get("/trades/pending", h.handleGetPendingTrades)
			r.Get("/trades/{id}", h.handleGetTrade)
			r.Put("/trades/{id}/status", h.handleUpdateTradeStatus)

			// Rota de limpeza para ambientes de desenvolvimento
			if h.debugRoutes {
				r.Delete("/debug/wipe", h.handleDebugWipe)
			}
		})
	})

	return r
}
