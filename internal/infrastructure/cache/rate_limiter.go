package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// redisRateLimiter implements a sliding-window limiter on Redis sorted
// sets, with a local token bucket taking over when Redis is unreachable.
// Failing open on the local bucket keeps validations flowing through a
// cache outage.
type redisRateLimiter struct {
	client *redis.Client

	mu       sync.Mutex
	fallback map[string]*rate.Limiter
}

// NewRedisRateLimiter creates the rate limiter.
func NewRedisRateLimiter(client *redis.Client) RateLimiter {
	return &redisRateLimiter{
		client:   client,
		fallback: make(map[string]*rate.Limiter),
	}
}

func (l *redisRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	windowStart := now.Add(-window)
	redisKey := "ratelimit:" + key

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart.UnixNano()))
	countCmd := pipe.ZCard(ctx, redisKey)
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: now.UnixNano()})
	pipe.Expire(ctx, redisKey, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return l.allowLocal(key, limit, window), nil
	}

	return countCmd.Val() < int64(limit), nil
}

func (l *redisRateLimiter) allowLocal(key string, limit int, window time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.fallback[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit)
		l.fallback[key] = limiter
	}
	return limiter.Allow()
}
