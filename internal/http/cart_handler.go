package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/fjod/go_storefront/internal/cart/domain"
	"github.com/fjod/go_storefront/internal/cart/session"
	"github.com/shopspring/decimal"
)

type CartHandler struct {
	sessions *session.Manager
}

func NewCartHandler(sessions *session.Manager) *CartHandler {
	return &CartHandler{sessions: sessions}
}

type AddItemRequestDTO struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	Image     string          `json:"image"`
	Color     *string         `json:"color"`
	Size      *string         `json:"size"`
	Quantity  int             `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	ProductID string  `json:"product_id"`
	Color     *string `json:"color"`
	Size      *string `json:"size"`
	Quantity  int     `json:"quantity"`
}

type RemoveItemRequestDTO struct {
	ProductID string  `json:"product_id"`
	Color     *string `json:"color"`
	Size      *string `json:"size"`
}

type DrawerRequestDTO struct {
	Open bool `json:"open"`
}

type CartResponseDTO struct {
	Items      []domain.LineItem `json:"items"`
	ItemCount  int               `json:"item_count"`
	Subtotal   decimal.Decimal   `json:"subtotal"`
	Currency   string            `json:"currency"`
	DrawerOpen bool              `json:"drawer_open"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing storefront session")
		return
	}

	sess := h.sessions.Load(r.Context(), sessionID)
	respondJSON(w, http.StatusOK, cartResponse(sess))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing storefront session")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	// Quantity is deliberately not validated here: the reducer clamps
	// non-positive values to 1 instead of rejecting them.

	sess := h.sessions.Load(r.Context(), sessionID)
	sess.AddItem(r.Context(), domain.LineItem{
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     req.Price,
		Currency:  req.Currency,
		Image:     req.Image,
		Color:     req.Color,
		Size:      req.Size,
		Quantity:  req.Quantity,
	})

	respondJSON(w, http.StatusCreated, cartResponse(sess))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing storefront session")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	sess := h.sessions.Load(r.Context(), sessionID)
	sess.UpdateQuantity(r.Context(), req.ProductID, req.Color, req.Size, req.Quantity)

	respondJSON(w, http.StatusOK, cartResponse(sess))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing storefront session")
		return
	}

	var req RemoveItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	sess := h.sessions.Load(r.Context(), sessionID)
	sess.RemoveItem(r.Context(), req.ProductID, req.Color, req.Size)

	respondJSON(w, http.StatusOK, cartResponse(sess))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing storefront session")
		return
	}

	sess := h.sessions.Load(r.Context(), sessionID)
	sess.ClearCart(r.Context())

	respondJSON(w, http.StatusOK, cartResponse(sess))
}

func (h *CartHandler) SetDrawer(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing storefront session")
		return
	}

	var req DrawerRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sess := h.sessions.Load(r.Context(), sessionID)
	if req.Open {
		sess.OpenDrawer()
	} else {
		sess.CloseDrawer()
	}

	respondJSON(w, http.StatusOK, cartResponse(sess))
}

func cartResponse(sess *session.Session) CartResponseDTO {
	return CartResponseDTO{
		Items:      sess.Items(),
		ItemCount:  sess.ItemCount(),
		Subtotal:   sess.Subtotal(),
		Currency:   sess.Currency(),
		DrawerOpen: sess.DrawerOpen(),
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
