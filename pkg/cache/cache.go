// Package cache stores transformed icons between runs so unchanged SVG files
// are not optimized again.
//
// Entries are keyed by the SHA-256 of the raw SVG bytes plus the optimizer
// fingerprint, so an edited icon or a changed precision setting never hits a
// stale entry. A cache failure is never fatal: callers treat errors as misses.
//
// # Backends
//
//   - [FileCache]: JSON entries under a directory (the CLI uses ~/.cache/iconsprite)
//   - [NullCache]: caching disabled (--no-cache, tests)
package cache

import (
	"context"
	"time"
)

// TTLTransform is how long a transformed icon stays valid.
const TTLTransform = 30 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiration.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
