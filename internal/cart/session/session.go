package session

import (
	"context"
	"sync"

	"github.com/fjod/go_storefront/internal/cart/domain"
	"github.com/fjod/go_storefront/internal/cart/store"
	"github.com/shopspring/decimal"
)

// Session owns the in-memory cart of one storefront session. Every mutation
// goes through the reducer and is persisted synchronously afterwards, so by
// the time an operation returns the store already reflects the new state (or
// has silently failed and the cart lives on in memory only). The drawer flag
// is ephemeral and never written to the store.
//
// The mutex serializes dispatches per session: add-then-remove of the same
// variant must never interleave into a partially applied result.
type Session struct {
	id               string
	store            store.CartStore
	fallbackCurrency string

	mu         sync.Mutex
	items      []domain.LineItem
	drawerOpen bool
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) dispatch(ctx context.Context, action domain.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = domain.Reduce(s.items, action)
	s.store.Save(ctx, s.id, s.items)
}

func (s *Session) AddItem(ctx context.Context, item domain.LineItem) {
	s.dispatch(ctx, domain.Add{Item: item})
}

func (s *Session) RemoveItem(ctx context.Context, productID string, color, size *string) {
	s.dispatch(ctx, domain.Remove{ProductID: productID, Color: color, Size: size})
}

func (s *Session) UpdateQuantity(ctx context.Context, productID string, color, size *string, quantity int) {
	s.dispatch(ctx, domain.SetQuantity{ProductID: productID, Color: color, Size: size, Quantity: quantity})
}

func (s *Session) ClearCart(ctx context.Context) {
	s.dispatch(ctx, domain.Clear{})
}

func (s *Session) OpenDrawer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawerOpen = true
}

func (s *Session) CloseDrawer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawerOpen = false
}

func (s *Session) DrawerOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawerOpen
}

// Items returns a copy of the current line items in cart order.
func (s *Session) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]domain.LineItem, len(s.items))
	copy(items, s.items)
	return items
}

// ItemCount is the sum of quantities across all line items, recomputed on
// every read.
func (s *Session) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, li := range s.items {
		count += li.Quantity
	}
	return count
}

// Subtotal sums price times quantity across whatever currencies are present.
// It is a display approximation only; the checkout service owns the real
// total.
func (s *Session) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	subtotal := decimal.Zero
	for _, li := range s.items {
		subtotal = subtotal.Add(li.Price.Mul(decimal.NewFromInt(int64(li.Quantity))))
	}
	return subtotal
}

// Currency resolves the majority currency for displaying a single headline
// subtotal: the code held by the most line items wins, ties go to the code
// seen first in list order, an empty cart falls back to the configured
// default.
func (s *Session) Currency() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return majorityCurrency(s.items, s.fallbackCurrency)
}

func majorityCurrency(items []domain.LineItem, fallback string) string {
	if len(items) == 0 {
		return fallback
	}

	counts := make(map[string]int, len(items))
	var order []string
	for _, li := range items {
		if counts[li.Currency] == 0 {
			order = append(order, li.Currency)
		}
		counts[li.Currency]++
	}

	best := order[0]
	for _, code := range order[1:] {
		if counts[code] > counts[best] {
			best = code
		}
	}
	return best
}
