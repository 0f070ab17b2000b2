package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is a minimal key-value cache with TTL support.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Close() error
}

// RateLimiter bounds request rates per key.
type RateLimiter interface {
	// Allow reports whether one more request under key fits in the
	// current window.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// ErrCacheKeyNotFound reports a cache miss.
type ErrCacheKeyNotFound struct {
	Key string
}

func (e ErrCacheKeyNotFound) Error() string {
	return fmt.Sprintf("cache key not found: %s", e.Key)
}
