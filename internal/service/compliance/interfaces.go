package compliance

import "context"

// QuickCheckCache caches quick-check results keyed by a content hash.
// The quick check is deterministic over its input, so cached results never
// go stale within their TTL.
type QuickCheckCache interface {
	Get(ctx context.Context, contentHash string) (*QuickCheckResult, bool, error)
	Set(ctx context.Context, contentHash string, result QuickCheckResult) error
}
