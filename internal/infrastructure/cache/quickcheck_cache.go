package cache

import (
	"context"
	"errors"
	"time"

	svccompliance "github.com/advisorly/content-compliance-backend/internal/service/compliance"
)

// QuickCheckCache stores quick-check results keyed by content hash. The
// quick check is deterministic over its input, so a TTL only bounds
// memory, not staleness.
type QuickCheckCache struct {
	cache Cache
	ttl   time.Duration
}

// NewQuickCheckCache creates a quick-check cache with the given TTL.
func NewQuickCheckCache(cache Cache, ttl time.Duration) *QuickCheckCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &QuickCheckCache{cache: cache, ttl: ttl}
}

var _ svccompliance.QuickCheckCache = (*QuickCheckCache)(nil)

func (c *QuickCheckCache) Get(ctx context.Context, contentHash string) (*svccompliance.QuickCheckResult, bool, error) {
	var result svccompliance.QuickCheckResult
	err := c.cache.GetJSON(ctx, c.key(contentHash), &result)
	if err != nil {
		var notFound ErrCacheKeyNotFound
		if errors.As(err, &notFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &result, true, nil
}

func (c *QuickCheckCache) Set(ctx context.Context, contentHash string, result svccompliance.QuickCheckResult) error {
	return c.cache.SetJSON(ctx, c.key(contentHash), result, c.ttl)
}

func (c *QuickCheckCache) key(contentHash string) string {
	return "quickcheck:" + contentHash
}
