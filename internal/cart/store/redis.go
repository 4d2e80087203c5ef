package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/fjod/go_storefront/internal/cart/domain"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each session's cart as a JSON array under cart:<sessionID>.
// The key carries no TTL: the slot is durable storage, not a cache, and is
// reloaded on the next session start.
type RedisStore struct {
	client *redis.Client
	logf   Logf
}

func NewRedisStore(client *redis.Client, logf Logf) *RedisStore {
	if logf == nil {
		logf = log.Printf
	}
	return &RedisStore{client: client, logf: logf}
}

func (r *RedisStore) Save(ctx context.Context, sessionID string, items []domain.LineItem) {
	data, err := json.Marshal(items)
	if err != nil {
		r.logf("cart store: marshal failed for session %s: %v", sessionID, err)
		return
	}

	if err := r.client.Set(ctx, storageKey(sessionID), data, 0).Err(); err != nil {
		r.logf("cart store: redis set failed for session %s: %v", sessionID, err)
	}
}

func (r *RedisStore) Load(ctx context.Context, sessionID string) []domain.LineItem {
	data, err := r.client.Get(ctx, storageKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.LineItem{}
	}
	if err != nil {
		r.logf("cart store: redis get failed for session %s: %v", sessionID, err)
		return []domain.LineItem{}
	}

	var items []domain.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		// A corrupt cart is discarded, never surfaced.
		r.logf("cart store: discarding corrupt cart for session %s: %v", sessionID, err)
		return []domain.LineItem{}
	}
	if items == nil {
		items = []domain.LineItem{}
	}
	return items
}

func storageKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}
