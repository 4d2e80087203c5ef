package store

import (
	"context"
	"sync"

	"github.com/fjod/go_storefront/internal/cart/domain"
)

// MemoryStore keeps carts in process memory. Used by tests and by dev runs
// without a redis; carts do not survive a restart.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string][]domain.LineItem
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]domain.LineItem)}
}

func (m *MemoryStore) Save(_ context.Context, sessionID string, items []domain.LineItem) {
	stored := make([]domain.LineItem, len(items))
	copy(stored, items)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[sessionID] = stored
}

func (m *MemoryStore) Load(_ context.Context, sessionID string) []domain.LineItem {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.carts[sessionID]
	if !ok {
		return []domain.LineItem{}
	}
	items := make([]domain.LineItem, len(stored))
	copy(items, stored)
	return items
}
