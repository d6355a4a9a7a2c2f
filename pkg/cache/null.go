package cache

import (
	"context"
	"time"
)

// NullCache disables artifact caching: every Get misses, so the render
// path falls through to Graphviz each time. It backs deployments with no
// cache directory configured, and tests that want deterministic renders.
type NullCache struct{}

// NewNullCache creates the disabled cache.
func NewNullCache() Cache {
	return NullCache{}
}

// Get always misses.
func (NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the artifact.
func (NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete is a no-op; there is never anything to delete.
func (NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close is a no-op.
func (NullCache) Close() error {
	return nil
}

var _ Cache = NullCache{}
