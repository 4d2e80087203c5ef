package session

import (
	"context"
	"sync"

	"github.com/fjod/go_storefront/internal/cart/domain"
	"github.com/fjod/go_storefront/internal/cart/store"
	"golang.org/x/sync/singleflight"
)

const defaultFallbackCurrency = "USD"

// Manager owns the live cart sessions of the process, one per storefront
// session ID. A session is hydrated from the store exactly once, on first
// access, and kept in memory afterwards.
type Manager struct {
	store            store.CartStore
	fallbackCurrency string
	sfg              singleflight.Group // Prevents duplicate hydration of the same session

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(cs store.CartStore, fallbackCurrency string) *Manager {
	if fallbackCurrency == "" {
		fallbackCurrency = defaultFallbackCurrency
	}
	return &Manager{
		store:            cs,
		fallbackCurrency: fallbackCurrency,
		sessions:         make(map[string]*Session),
	}
}

// Load returns the live session for the given ID, hydrating it from the
// store on first access. Hydration is fail-open: an absent or corrupt
// persisted cart yields an empty one, it never fails the session.
func (m *Manager) Load(ctx context.Context, sessionID string) *Session {
	m.mu.RLock()
	s, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if ok {
		return s
	}

	v, _, _ := m.sfg.Do(sessionID, func() (interface{}, error) {
		m.mu.RLock()
		s, ok := m.sessions[sessionID]
		m.mu.RUnlock()
		if ok {
			return s, nil
		}

		s = &Session{
			id:               sessionID,
			store:            m.store,
			fallbackCurrency: m.fallbackCurrency,
		}
		s.items = domain.Reduce(nil, domain.Hydrate{Items: m.store.Load(ctx, sessionID)})

		m.mu.Lock()
		m.sessions[sessionID] = s
		m.mu.Unlock()
		return s, nil
	})

	return v.(*Session)
}
