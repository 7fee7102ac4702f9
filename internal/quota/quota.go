// Package quota enforces an optional per-API-key conversion quota.
package quota

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/SainathReddyM/py-file-converter/internal/redis"
)

const DefaultWindow = time.Hour

// Quota counts conversions per API key in a rolling window backed by
// redis. A nil *Quota means quotas are disabled and Allow always passes.
type Quota struct {
	cache  *redis.Client
	limit  int64
	window time.Duration
}

// New returns nil when cache is absent or limit is non-positive, so
// callers can treat the feature as cleanly optional.
func New(cache *redis.Client, limit int64, window time.Duration) *Quota {
	if cache == nil || limit <= 0 {
		return nil
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Quota{cache: cache, limit: limit, window: window}
}

// Allow consumes one conversion slot for the key, reporting false once
// the window's limit is exhausted. Redis outages fail open: a broken
// counter must not take conversions down with it.
func (q *Quota) Allow(ctx context.Context, apiKey string) bool {
	if q == nil || apiKey == "" {
		return true
	}
	counterKey := fmt.Sprintf("quota:%s", apiKey)
	count, err := q.cache.Incr(ctx, counterKey)
	if err != nil {
		log.Printf("quota incr %s failed: %v", counterKey, err)
		return true
	}
	if count == 1 {
		if err := q.cache.Expire(ctx, counterKey, q.window); err != nil {
			log.Printf("quota expire %s failed: %v", counterKey, err)
		}
	}
	return count <= q.limit
}
