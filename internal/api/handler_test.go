package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dbeiser/Barter/internal/auth"
	"github.com/Dbeiser/Barter/internal/models"
	"github.com/Dbeiser/Barter/internal/repository"
	"github.com/Dbeiser/Barter/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestHandler monta o Handler completo sobre o store em memória.
// O S3Service fica de fora: as rotas de upload/download não são
// exercitadas aqui.
func newTestHandler(t *testing.T) (http.Handler, *repository.InMemoryStore) {
	t.Helper()

	store := repository.NewInMemoryStore()
	tokenService, err := auth.NewTokenService("segredo-de-teste")
	require.NoError(t, err)

	userService := service.NewUserService(store, tokenService)
	itemService := service.NewItemService(store)
	tradeService := service.NewTradeService(store)

	h := NewHandler(userService, itemService, tradeService, tokenService, store, nil, true)
	return h.Routes(), store
}

func doRequest(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// registerAndLogin cadastra um usuário e devolve seu token
func registerAndLogin(t *testing.T, router http.Handler, email string) string {
	t.Helper()

	rec := doRequest(t, router, http.MethodPost, "/v1/users/register", "", map[string]string{
		"email":    email,
		"password": "senha-forte",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(t, router, http.MethodPost, "/v1/users/login", "", map[string]string{
		"email":    email,
		"password": "senha-forte",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func createItem(t *testing.T, router http.Handler, token, name string) *models.Item {
	t.Helper()

	rec := doRequest(t, router, http.MethodPost, "/v1/items", token, map[string]interface{}{
		"name":      name,
		"category":  "Other",
		"imageKeys": []string{},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	item := &models.Item{}
	decodeBody(t, rec, item)
	return item
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _ := newTestHandler(t)

	rec := doRequest(t, router, http.MethodGet, "/v1/items", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/v1/items", "token-invalido", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegister_Validation(t *testing.T) {
	router, _ := newTestHandler(t)

	// Senha curta demais
	rec := doRequest(t, router, http.MethodPost, "/v1/users/register", "", map[string]string{
		"email":    "ana@barter.dev",
		"password": "curta",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// E-mail duplicado
	registerAndLogin(t, router, "ana@barter.dev")
	rec = doRequest(t, router, http.MethodPost, "/v1/users/register", "", map[string]string{
		"email":    "ana@barter.dev",
		"password": "senha-forte",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestOAuthLogin_Endpoint(t *testing.T) {
	router, _ := newTestHandler(t)

	rec := doRequest(t, router, http.MethodPost, "/v1/users/oauth", "", map[string]string{
		"email":    "bruno@barter.dev",
		"provider": "google",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}
	decodeBody(t, rec, &resp)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "google", resp.User.Provider)
}

func TestTradeFlowOverHTTP(t *testing.T) {
	router, _ := newTestHandler(t)

	anaToken := registerAndLogin(t, router, "ana@barter.dev")
	brunoToken := registerAndLogin(t, router, "bruno@barter.dev")

	bike := createItem(t, router, anaToken, "bicicleta")
	pan := createItem(t, router, brunoToken, "panela")

	// Ana propõe a troca da bicicleta pela panela do Bruno
	rec := doRequest(t, router, http.MethodPost, "/v1/trades", anaToken, map[string]interface{}{
		"receiverId":     pan.OwnerID,
		"offeredItemIds": []string{bike.ID.String()},
		"soughtItemIds":  []string{pan.ID.String()},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	trade := &models.Trade{}
	decodeBody(t, rec, trade)
	assert.Equal(t, models.StatusRequested, trade.Status)

	// A proposta aparece na lista de pendentes do Bruno, com os itens resolvidos
	rec = doRequest(t, router, http.MethodGet, "/v1/trades/pending", brunoToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var views []*models.TradeView
	decodeBody(t, rec, &views)
	require.Len(t, views, 1)
	require.Len(t, views[0].OfferedItems, 1)
	assert.Equal(t, "bicicleta", views[0].OfferedItems[0].Name)

	tradePath := "/v1/trades/" + trade.ID.String() + "/status"

	// Ana (proponente) não pode responder à própria proposta
	rec = doRequest(t, router, http.MethodPut, tradePath, anaToken, map[string]string{"status": "Accepted"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Status desconhecido é rejeitado
	rec = doRequest(t, router, http.MethodPut, tradePath, brunoToken, map[string]string{"status": "Talvez"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Bruno aceita
	rec = doRequest(t, router, http.MethodPut, tradePath, brunoToken, map[string]string{"status": "Accepted"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeBody(t, rec, trade)
	assert.Equal(t, models.StatusAccepted, trade.Status)

	// Troca aceita some da lista de pendentes
	rec = doRequest(t, router, http.MethodGet, "/v1/trades/pending", brunoToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &views)
	assert.Empty(t, views)

	// Mas continua na lista geral de recebidas
	rec = doRequest(t, router, http.MethodGet, "/v1/trades?role=received", brunoToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var trades []*models.Trade
	decodeBody(t, rec, &trades)
	assert.Len(t, trades, 1)

	// E na lista de enviadas da Ana
	rec = doRequest(t, router, http.MethodGet, "/v1/trades?role=sent", anaToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &trades)
	assert.Len(t, trades, 1)
}

func TestCreateTrade_OwnershipErrorsOverHTTP(t *testing.T) {
	router, _ := newTestHandler(t)

	anaToken := registerAndLogin(t, router, "ana@barter.dev")
	brunoToken := registerAndLogin(t, router, "bruno@barter.dev")

	bike := createItem(t, router, anaToken, "bicicleta")
	pan := createItem(t, router, brunoToken, "panela")

	// Ana tenta ofertar a panela do Bruno
	rec := doRequest(t, router, http.MethodPost, "/v1/trades", anaToken, map[string]interface{}{
		"receiverId":     pan.OwnerID,
		"offeredItemIds": []string{pan.ID.String()},
		"soughtItemIds":  []string{bike.ID.String()},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDebugWipe(t *testing.T) {
	router, _ := newTestHandler(t)

	anaToken := registerAndLogin(t, router, "ana@barter.dev")
	createItem(t, router, anaToken, "bicicleta")

	rec := doRequest(t, router, http.MethodDelete, "/v1/debug/wipe", anaToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(t, router, http.MethodGet, "/v1/items", anaToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var items []*models.Item
	decodeBody(t, rec, &items)
	assert.Empty(t, items)
}
