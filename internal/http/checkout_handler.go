package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/fjod/go_storefront/internal/cart/session"
	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/events"
)

type CheckoutHandler struct {
	sessions  *session.Manager
	client    *checkout.Client
	publisher *events.Publisher
}

func NewCheckoutHandler(sessions *session.Manager, client *checkout.Client, publisher *events.Publisher) *CheckoutHandler {
	return &CheckoutHandler{
		sessions:  sessions,
		client:    client,
		publisher: publisher,
	}
}

type CheckoutResponseDTO struct {
	CheckoutURL string `json:"checkout_url"`
}

// POST /api/v1/checkout
func (h *CheckoutHandler) InitiateCheckout(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing storefront session")
		return
	}

	sess := h.sessions.Load(r.Context(), sessionID)

	// Captured before Submit clears the cart on success.
	itemCount := sess.ItemCount()
	currency := sess.Currency()

	redirectURL, err := h.client.Submit(r.Context(), sess)
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", "cart is empty, nothing to checkout")
		return
	case errors.Is(err, checkout.ErrSubmitInFlight):
		respondError(w, http.StatusConflict, "checkout_in_progress", "a checkout is already in flight for this session")
		return
	case err != nil:
		// Retry stays with the user: respond with the message and let them
		// submit again against the then-current cart.
		respondError(w, http.StatusBadGateway, "checkout_failed", err.Error())
		return
	}

	h.publisher.PublishCheckoutCompleted(r.Context(), events.CheckoutCompleted{
		SessionID:   sessionID,
		ItemCount:   itemCount,
		Currency:    currency,
		RedirectURL: redirectURL,
		CompletedAt: time.Now().UTC(),
	})

	respondJSON(w, http.StatusOK, CheckoutResponseDTO{CheckoutURL: redirectURL})
}
