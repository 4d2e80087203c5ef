package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/fjod/go_storefront/internal/cart/domain"
	"github.com/sony/gobreaker/v2"
)

const maxResponseBytes = 1 << 20 // 1MB

// Cart is the slice of a session the handoff needs: the current items, the
// currency hint, and the ability to clear itself once the checkout session
// is consumed.
type Cart interface {
	ID() string
	Items() []domain.LineItem
	Currency() string
	ClearCart(ctx context.Context)
}

// Client hands the cart off to the trusted checkout endpoint and resolves
// the hosted payment redirect. It never holds credentials: the endpoint it
// talks to forwards to the commerce API with server-held secrets.
//
// Per session the handoff moves Idle -> Submitting -> Redirected or Failed.
// Retry after a failure is strictly caller-initiated and reprojects the
// payload from the then-current cart.
type Client struct {
	endpoint    string
	paymentHost string
	httpClient  *http.Client
	breaker     *gobreaker.CircuitBreaker[*handoffResponse]

	mu       sync.Mutex
	statuses map[string]Status
}

func NewClient(endpoint, paymentHost string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	breaker := gobreaker.NewCircuitBreaker[*handoffResponse](gobreaker.Settings{
		Name: "checkout-handoff",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &Client{
		endpoint:    endpoint,
		paymentHost: paymentHost,
		httpClient:  httpClient,
		breaker:     breaker,
		statuses:    make(map[string]Status),
	}
}

// Status reports the last observed handoff state for a session.
func (c *Client) Status(sessionID string) Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.statuses[sessionID]; ok {
		return s
	}
	return StatusIdle
}

// Submit projects the cart into a price-free payload, posts it, and returns
// the resolved redirect URL. On success the cart is cleared and persisted
// before the URL is handed back, so an aborted navigation cannot leave a
// stale cart pointing at a consumed checkout session. On failure the cart is
// left untouched.
func (c *Client) Submit(ctx context.Context, cart Cart) (string, error) {
	items := cart.Items()
	if len(items) == 0 {
		return "", ErrEmptyCart
	}

	if !c.beginSubmit(cart.ID()) {
		return "", ErrSubmitInFlight
	}

	redirectURL, err := c.submit(ctx, items, cart.Currency())
	if err != nil {
		c.endSubmit(cart.ID(), StatusFailed)
		return "", err
	}

	cart.ClearCart(ctx)
	c.endSubmit(cart.ID(), StatusRedirected)
	return redirectURL, nil
}

func (c *Client) beginSubmit(sessionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.statuses[sessionID] == StatusSubmitting {
		return false
	}
	c.statuses[sessionID] = StatusSubmitting
	return true
}

func (c *Client) endSubmit(sessionID string, status Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses[sessionID] = status
}

func (c *Client) submit(ctx context.Context, items []domain.LineItem, currency string) (string, error) {
	payload := handoffRequest{
		CartItems: make([]CheckoutItem, 0, len(items)),
		Currency:  currency,
	}
	for _, li := range items {
		payload.CartItems = append(payload.CartItems, CheckoutItem{
			ProductID: li.ProductID,
			Color:     li.Color,
			Size:      li.Size,
			Quantity:  li.Quantity,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal checkout payload: %w", err)
	}

	resp, err := c.breaker.Execute(func() (*handoffResponse, error) {
		return c.post(ctx, body)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		// The breaker rejected without reaching the endpoint; keep the
		// message human-readable rather than leaking breaker internals.
		return "", fmt.Errorf("%w: checkout is temporarily unavailable, try again shortly", ErrHandoffFailed)
	}
	if err != nil {
		return "", err
	}

	return c.resolveRedirect(resp)
}

func (c *Client) post(ctx context.Context, body []byte) (*handoffResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build checkout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHandoffFailed, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrHandoffFailed, err)
	}

	var hr handoffResponse
	// Error bodies may be empty or non-JSON; the status code decides below.
	_ = json.Unmarshal(raw, &hr)

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		if hr.Error != "" {
			return nil, fmt.Errorf("%w: %s", ErrHandoffFailed, hr.Error)
		}
		return nil, fmt.Errorf("%w: checkout service returned status %d", ErrHandoffFailed, res.StatusCode)
	}
	return &hr, nil
}

// resolveRedirect prefers a ready-made checkout_url; otherwise both link_id
// and brand_id are required to construct the hosted payment URL. Anything
// less is a failure, not a silent success.
func (c *Client) resolveRedirect(hr *handoffResponse) (string, error) {
	if hr.Data.CheckoutURL != "" {
		return hr.Data.CheckoutURL, nil
	}
	if hr.Data.LinkID != "" && hr.Data.BrandID != "" {
		return fmt.Sprintf("https://%s/tempcheckout/%s/%s", c.paymentHost, hr.Data.BrandID, hr.Data.LinkID), nil
	}
	return "", fmt.Errorf("%w: response carries neither checkout_url nor link_id/brand_id", ErrHandoffFailed)
}
