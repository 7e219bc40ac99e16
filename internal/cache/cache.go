// Package cache is the read-through memo and presence layer. Values are
// JSON blobs; the store is a pure performance optimization with no
// consistency guarantee beyond TTL expiry.
package cache

import (
	"context"
	"time"
)

// Cache is the port every caller sees; redis backs it in production and
// tests swap in an in-memory fake.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Keys(ctx context.Context, pattern string) ([]string, error)
	Del(ctx context.Context, keys ...string) error
}

// GetOrCompute returns the cached value for key, computing and storing it
// on a miss. Concurrent callers may compute the same key twice; that is
// harmless duplication since entries are idempotent.
func GetOrCompute(ctx context.Context, c Cache, key string, ttl time.Duration, compute func(ctx context.Context) ([]byte, error)) ([]byte, bool, error) {
	if v, ok, err := c.Get(ctx, key); err == nil && ok {
		return v, true, nil
	}
	v, err := compute(ctx)
	if err != nil {
		return nil, false, err
	}
	// Best effort: a failed write just means the next caller recomputes.
	_ = c.Set(ctx, key, v, ttl)
	return v, false, nil
}
