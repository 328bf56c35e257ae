package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// seenTTL keeps the per-actor seen set from growing without bound. Old
// entries resurface eventually, which is acceptable for a swipe deck.
const seenTTL = 72 * time.Hour

// SeenCache remembers which targets an actor has already swiped on, so a
// fresh deck session can exclude them before the first page is fetched.
// A nil cache is valid and degrades to session-only exclusion.
type SeenCache struct {
	Client *redis.Client
}

// NewSeenCache connects a SeenCache to Redis. An empty address disables
// caching entirely.
func NewSeenCache(addr, password string, db int) *SeenCache {
	if addr == "" {
		return nil
	}
	return &SeenCache{
		Client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// Add records one swiped target for an actor.
func (sc *SeenCache) Add(ctx context.Context, actorID, targetID string) error {
	if sc == nil || sc.Client == nil {
		return nil
	}

	key := seenKey(actorID)
	if err := sc.Client.SAdd(ctx, key, targetID).Err(); err != nil {
		return fmt.Errorf("failed to add seen id: %w", err)
	}
	if err := sc.Client.Expire(ctx, key, seenTTL).Err(); err != nil {
		return fmt.Errorf("failed to refresh seen ttl: %w", err)
	}
	return nil
}

// Members returns every cached seen id for an actor.
func (sc *SeenCache) Members(ctx context.Context, actorID string) ([]string, error) {
	if sc == nil || sc.Client == nil {
		return nil, nil
	}

	ids, err := sc.Client.SMembers(ctx, seenKey(actorID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load seen ids: %w", err)
	}
	return ids, nil
}

func seenKey(actorID string) string {
	return "seen:" + actorID
}
