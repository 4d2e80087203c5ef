package store

import (
	"context"

	"github.com/fjod/go_storefront/internal/cart/domain"
)

// CartStore persists the serialized line-item list of one storefront session
// under a fixed namespaced key. The cart is a convenience cache, not a
// ledger: both operations absorb every storage failure. Save degrades to
// in-memory-only state for the rest of the session, Load degrades to an
// empty cart.
type CartStore interface {
	Save(ctx context.Context, sessionID string, items []domain.LineItem)
	Load(ctx context.Context, sessionID string) []domain.LineItem
}

// Logf receives the failures a store absorbs, keeping the fail-open behavior
// observable without changing it. Implementations fall back to log.Printf
// when nil is supplied.
type Logf func(format string, args ...any)
