package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/Dbeiser/Barter/internal/auth"
	"github.com/Dbeiser/Barter/internal/models"
	"github.com/Dbeiser/Barter/internal/repository"
	"github.com/Dbeiser/Barter/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Handler gerencia as dependências para os handlers HTTP
type Handler struct {
	userService  *service.UserService
	itemService  *service.ItemService
	tradeService *service.TradeService
	tokenService *auth.TokenService
	store        repository.Store // Necessário para o middleware e a rota de debug
	s3Service    *service.S3Service
	validate     *validator.Validate
	debugRoutes  bool
}

// NewHandler cria uma nova instância do Handler
func NewHandler(
	userSvc *service.UserService,
	itemSvc *service.ItemService,
	tradeSvc *service.TradeService,
	tokenSvc *auth.TokenService,
	store repository.Store,
	s3Svc *service.S3Service,
	debugRoutes bool,
) *Handler {
	return &Handler{
		userService:  userSvc,
		itemService:  itemSvc,
		tradeService: tradeSvc,
		tokenService: tokenSvc,
		store:        store,
		s3Service:    s3Svc,
		validate:     validator.New(),
		debugRoutes:  debugRoutes,
	}
}

// === Funções Auxiliares de Resposta ===

func (h *Handler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, map[string]interface{}{
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
	})
}

func (h *Handler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Erro ao serializar JSON: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":500,"message":"Erro interno ao serializar resposta"}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithServiceError traduz os erros de negócio para códigos HTTP
func (h *Handler) respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		h.respondWithError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrNotOwner):
		h.respondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrTradeNotFound):
		h.respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		h.respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidParty),
		errors.Is(err, service.ErrInvalidOffer),
		errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidCategory):
		h.respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.respondWithError(w, http.StatusInternalServerError, err.Error())
	}
}

// userFromContext recupera o usuário autenticado injetado pelo middleware
func userFromContext(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(userContextKey).(*models.User)
	return user, ok && user != nil
}

// urlParamUUID lê um parâmetro de rota como UUID
func urlParamUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

// === Handlers de Usuário ===

// handleRegisterUser (POST /users/register)
func (h *Handler) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Payload JSON inválido")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Dados inválidos: "+err.Error())
		return
	}

	user, err := h.userService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, user)
}

// handleLoginUser (POST /users/login)
func (h *Handler) handleLoginUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Payload JSON inválido")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Dados inválidos: "+err.Error())
		return
	}

	token, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]string{"token": token})
}

// handleOAuthLogin (POST /users/oauth)
// A troca de tokens com o provedor acontece no frontend/gateway; aqui só
// chega o e-mail já verificado e a tag do provedor.
func (h *Handler) handleOAuthLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Provider string `json:"provider" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Payload JSON inválido")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Dados inválidos: "+err.Error())
		return
	}

	user, token, err := h.userService.OAuthLogin(r.Context(), req.Email, req.Provider)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// handleGetMe (GET /users/me)
func (h *Handler) handleGetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "Contexto de usuário inválido")
		return
	}
	h.respondWithJSON(w, http.StatusOK, user)
}

// handleGetAllUsers (GET /users)
func (h *Handler) handleGetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.GetAllUsers(r.Context())
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, users)
}

// handleGetUserItems (GET /users/{id}/items)
func (h *Handler) handleGetUserItems(w http.ResponseWriter, r *http.Request) {
	ownerID, err := urlParamUUID(r, "id")
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "ID de usuário inválido")
		return
	}

	items, err := h.itemService.GetItemsByOwner(r.Context(), ownerID)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, items)
}

// === Handlers de Item ===

// handleCreateItem (POST /items)
func (h *Handler) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "Contexto de usuário inválido")
		return
	}

	var req service.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Payload JSON inválido")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Dados inválidos: "+err.Error())
		return
	}

	item, err := h.itemService.CreateItem(r.Context(), user.ID, req)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, item)
}

// handleGetAllItems (GET /items)
func (h *Handler) handleGetAllItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.itemService.GetAllItems(r.Context())
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, items)
}

// handleGetItem (GET /items/{id})
func (h *Handler) handleGetItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := urlParamUUID(r, "id")
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "ID de item inválido")
		return
	}

	item, err := h.itemService.GetItemByID(r.Context(), itemID)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, item)
}

// handleUpdateItem (PUT /items/{id})
func (h *Handler) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "Contexto de usuário inválido")
		return
	}

	itemID, err := urlParamUUID(r, "id")
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "ID de item inválido")
		return
	}

	var req service.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Payload JSON inválido")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Dados inválidos: "+err.Error())
		return
	}

	item, err := h.itemService.UpdateItem(r.Context(), user.ID, itemID, req)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, item)
}

// handleDeleteItem (DELETE /items/{id})
func (h *Handler) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "Contexto de usuário inválido")
		return
	}

	itemID, err := urlParamUUID(r, "id")
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "ID de item inválido")
		return
	}

	if err := h.itemService.DeleteItem(r.Context(), user.ID, itemID); err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]string{"message": "Item apagado."})
}

// handleGetUploadURL (POST /items/upload-url)
func (h *Handler) handleGetUploadURL(w http.ResponseWriter, r *http.Request) {
	// 1. Obter o usuário autenticado (que está fazendo o upload)
	user, ok := userFromContext(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "Contexto de usuário inválido")
		return
	}

	// 2. Gerar uma chave de objeto única para a imagem
	imageKey := h.s3Service.NewImageKey(user.ID)

	// 3. Gerar a URL pré-assinada (expira em 15 minutos)
	uploadURL, err := h.s3Service.GeneratePresignedPutURL(r.Context(), imageKey, 15*time.Minute)
	if err != nil {
		h.respondWithError(w, http.StatusInternalServerError, "Não foi possível gerar a URL de upload")
		return
	}

	// 4. O cliente envia 'imageKey' de volta no POST/PUT do item,
	// depois de concluir o upload
	response := struct {
		UploadURL string `json:"uploadUrl"`
		ImageKey  string `json:"imageKey"`
	}{
		UploadURL: uploadURL,
		ImageKey:  imageKey,
	}

	h.respondWithJSON(w, http.StatusOK, response)
}

// handleGetDownloadURL (GET /items/download-url?imageKey=...)
func (h *Handler) handleGetDownloadURL(w http.ResponseWriter, r *http.Request) {
	imageKey := r.URL.Query().Get("imageKey")
	if imageKey == "" {
		h.respondWithError(w, http.StatusBadRequest, "Parâmetro 'imageKey' é obrigatório")
		return
	}

	// URL pré-assinada válida por 5 minutos
	downloadURL, err := h.s3Service.GeneratePresignedGetURL(r.Context(), imageKey, 5*time.Minute)
	if err != nil {
		h.respondWithError(w, http.StatusInternalServerError, "Não foi possível gerar a URL de download")
		return
	}

	response := struct {
		DownloadURL string `json:"downloadUrl"`
	}{
		DownloadURL: downloadURL,
	}

	h.respondWithJSON(w, http.StatusOK, response)
}

// === Handlers de Troca ===

// CreateTradeRequest define o payload de proposta de troca
type CreateTradeRequest struct {
	ReceiverID     uuid.UUID   `json:"receiverId" validate:"required"`
	OfferedItemIDs []uuid.UUID `json:"offeredItemIds"`
	SoughtItemIDs  []uuid.UUID `json:"soughtItemIds"`
}

// handleCreateTrade (POST /trades)
func (h *Handler) handleCreateTrade(w http.ResponseWriter, r *http.Request) {
	// 1. O proponente é o usuário autenticado
	user, ok := userFromContext(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "Contexto de usuário inválido")
		return
	}

	// 2. Decodificar a proposta
	var req CreateTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Payload JSON inválido")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Dados inválidos: "+err.Error())
		return
	}

	// 3. Chamar o motor de negociação
	trade, err := h.tradeService.CreateTrade(r.Context(), user.ID, req.ReceiverID, req.OfferedItemIDs, req.SoughtItemIDs)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, trade)
}

// handleGetTrades (GET /trades?role=received|sent)
func (h *Handler) handleGetTrades(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "Contexto de usuário inválido")
		return
	}

	role := r.URL.Query().Get("role")
	if role == "" {
		role = "received"
	}

	var trades []*models.Trade
	var err error
	switch role {
	case "received":
		trades, err = h.tradeService.ListTradesByReceiver(r.Context(), user.ID)
	case "sent":
		trades, err = h.tradeService.ListTradesByInitiator(r.Context(), user.ID)
	default:
		h.respondWithError(w, http.StatusBadRequest, "Parâmetro 'role' deve ser 'received' ou 'sent'")
		return
	}

	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, trades)
}

// handleGetPendingTrades (GET /trades/pending)
func (h *Handler) handleGetPendingTrades(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "Contexto de usuário inválido")
		return
	}

	views, err := h.tradeService.ListPendingTrades(r.Context(), user.ID)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, views)
}

// handleGetTrade (GET /trades/{id})
func (h *Handler) handleGetTrade(w http.ResponseWriter, r *http.Request) {
	tradeID, err := urlParamUUID(r, "id")
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "ID de troca inválido")
		return
	}

	trade, err := h.tradeService.GetTradeByID(r.Context(), tradeID)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, trade)
}

// handleUpdateTradeStatus (PUT /trades/{id}/status)
func (h *Handler) handleUpdateTradeStatus(w http.ResponseWriter, r *http.Request) {
	// 1. Quem responde é o usuário autenticado; o motor confere se ele é
	// de fato o destinatário da troca
	user, ok := userFromContext(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "Contexto de usuário inválido")
		return
	}

	tradeID, err := urlParamUUID(r, "id")
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "ID de troca inválido")
		return
	}

	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Payload JSON inválido")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Dados inválidos: "+err.Error())
		return
	}

	trade, err := h.tradeService.UpdateTradeStatus(r.Context(), tradeID, user.ID, req.Status)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, trade)
}

// === Debug ===

// handleDebugWipe (DELETE /debug/wipe)
// Limpa itens e trocas. Só é registrado quando ENABLE_DEBUG_ROUTES=true.
func (h *Handler) handleDebugWipe(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteAllTrades(r.Context()); err != nil {
		h.respondWithError(w, http.StatusInternalServerError, "Falha ao apagar trocas")
		return
	}
	if err := h.store.DeleteAllItems(r.Context()); err != nil {
		h.respondWithError(w, http.StatusInternalServerError, "Falha ao apagar itens")
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]string{"message": "Itens e trocas apagados."})
}
