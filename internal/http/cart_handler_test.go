package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fjod/go_storefront/internal/cart/session"
	"github.com/fjod/go_storefront/internal/cart/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() (*CartHandler, *session.Manager) {
	sessions := session.NewManager(store.NewMemoryStore(), "")
	return NewCartHandler(sessions), sessions
}

func requestWithSession(method, target string, body []byte) *http.Request {
	var r *http.Request
	if body == nil {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, bytes.NewReader(body))
	}
	ctx := context.WithValue(r.Context(), sessionIDKey, "sess-1")
	return r.WithContext(ctx)
}

func decodeCart(t *testing.T, recorder *httptest.ResponseRecorder) CartResponseDTO {
	t.Helper()
	var resp CartResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	return resp
}

func addItemBody(t *testing.T, productID string, quantity int) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"product_id": productID,
		"name":       "Tee",
		"price":      "19.90",
		"currency":   "USD",
		"image":      "tee.jpg",
		"color":      "Black",
		"size":       "M",
		"quantity":   quantity,
	})
	require.NoError(t, err)
	return body
}

func TestAddItem_Success(t *testing.T) {
	handler, _ := newTestHandler()

	recorder := httptest.NewRecorder()
	handler.AddItem(recorder, requestWithSession("POST", "/api/v1/cart/items", addItemBody(t, "p1", 2)))

	require.Equal(t, http.StatusCreated, recorder.Code)
	resp := decodeCart(t, recorder)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.ItemCount)
	assert.Equal(t, "USD", resp.Currency)
}

func TestAddItem_MergesVariants(t *testing.T) {
	handler, _ := newTestHandler()

	recorder := httptest.NewRecorder()
	handler.AddItem(recorder, requestWithSession("POST", "/api/v1/cart/items", addItemBody(t, "p1", 1)))
	recorder = httptest.NewRecorder()
	handler.AddItem(recorder, requestWithSession("POST", "/api/v1/cart/items", addItemBody(t, "p1", 2)))

	resp := decodeCart(t, recorder)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 3, resp.ItemCount)
}

func TestAddItem_InvalidJSON(t *testing.T) {
	handler, _ := newTestHandler()

	recorder := httptest.NewRecorder()
	handler.AddItem(recorder, requestWithSession("POST", "/api/v1/cart/items", []byte("{broken")))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestAddItem_MissingProductID(t *testing.T) {
	handler, _ := newTestHandler()

	recorder := httptest.NewRecorder()
	handler.AddItem(recorder, requestWithSession("POST", "/api/v1/cart/items", []byte(`{"quantity":1}`)))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "invalid_product_id", resp.Code)
}

func TestAddItem_NoSession(t *testing.T) {
	handler, _ := newTestHandler()

	recorder := httptest.NewRecorder()
	handler.AddItem(recorder, httptest.NewRequest("POST", "/api/v1/cart/items", bytes.NewReader(addItemBody(t, "p1", 1))))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestUpdateQuantity_ClampsToFloor(t *testing.T) {
	handler, _ := newTestHandler()

	recorder := httptest.NewRecorder()
	handler.AddItem(recorder, requestWithSession("POST", "/api/v1/cart/items", addItemBody(t, "p1", 5)))

	body := []byte(`{"product_id":"p1","color":"Black","size":"M","quantity":-2}`)
	recorder = httptest.NewRecorder()
	handler.UpdateQuantity(recorder, requestWithSession("PUT", "/api/v1/cart/items", body))

	require.Equal(t, http.StatusOK, recorder.Code)
	resp := decodeCart(t, recorder)
	assert.Equal(t, 1, resp.ItemCount)
}

func TestRemoveItem_Success(t *testing.T) {
	handler, _ := newTestHandler()

	recorder := httptest.NewRecorder()
	handler.AddItem(recorder, requestWithSession("POST", "/api/v1/cart/items", addItemBody(t, "p1", 1)))

	body := []byte(`{"product_id":"p1","color":"Black","size":"M"}`)
	recorder = httptest.NewRecorder()
	handler.RemoveItem(recorder, requestWithSession("DELETE", "/api/v1/cart/items", body))

	require.Equal(t, http.StatusOK, recorder.Code)
	resp := decodeCart(t, recorder)
	assert.Empty(t, resp.Items)
	assert.Equal(t, 0, resp.ItemCount)
}

func TestClearCart_Success(t *testing.T) {
	handler, _ := newTestHandler()

	recorder := httptest.NewRecorder()
	handler.AddItem(recorder, requestWithSession("POST", "/api/v1/cart/items", addItemBody(t, "p1", 4)))

	recorder = httptest.NewRecorder()
	handler.ClearCart(recorder, requestWithSession("DELETE", "/api/v1/cart", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 0, decodeCart(t, recorder).ItemCount)
}

func TestSetDrawer_TogglesVisibility(t *testing.T) {
	handler, _ := newTestHandler()

	recorder := httptest.NewRecorder()
	handler.SetDrawer(recorder, requestWithSession("POST", "/api/v1/cart/drawer", []byte(`{"open":true}`)))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, decodeCart(t, recorder).DrawerOpen)

	recorder = httptest.NewRecorder()
	handler.SetDrawer(recorder, requestWithSession("POST", "/api/v1/cart/drawer", []byte(`{"open":false}`)))
	assert.False(t, decodeCart(t, recorder).DrawerOpen)
}

func TestGetCart_EmptyByDefault(t *testing.T) {
	handler, _ := newTestHandler()

	recorder := httptest.NewRecorder()
	handler.GetCart(recorder, requestWithSession("GET", "/api/v1/cart", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	resp := decodeCart(t, recorder)
	assert.Empty(t, resp.Items)
	assert.Equal(t, "USD", resp.Currency)
}

func TestSessionMiddleware_MintsCookie(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = getSessionIDFromContext(r.Context())
	})

	recorder := httptest.NewRecorder()
	SessionMiddleware(next).ServeHTTP(recorder, httptest.NewRequest("GET", "/", nil))

	require.NotEmpty(t, seen)
	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookieName, cookies[0].Name)
	assert.Equal(t, seen, cookies[0].Value)
}

func TestSessionMiddleware_ReusesExistingCookie(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = getSessionIDFromContext(r.Context())
	})

	request := httptest.NewRequest("GET", "/", nil)
	request.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "existing-session"})

	recorder := httptest.NewRecorder()
	SessionMiddleware(next).ServeHTTP(recorder, request)

	assert.Equal(t, "existing-session", seen)
	assert.Empty(t, recorder.Result().Cookies())
}
