// Package cache keeps rendered purchase views close to the server. The store
// stays the source of truth; entries expire after a TTL and are dropped on
// every purchase write.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-valued key store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key for ttl. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// Incr adds one to the counter at key, starting from 0, and returns the
	// new value. Counters never expire.
	Incr(ctx context.Context, key string) (int64, error)
}
