// Package cache implements the membership data cache: a generic TTL key-value
// store, the long-lived library cache for exercises and foods, and the
// version-gated membership aggregate cache.
package cache

import (
	"context"
	"time"
)

// Store is a byte-oriented key-value store with per-entry TTL.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value and true when the key exists and has not expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
