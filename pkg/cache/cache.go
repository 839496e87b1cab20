// Package cache provides byte caches for arrangement and suggestion results.
//
// # Backends
//
// All backends implement [Cache]:
//   - [FileCache]: JSON files under a directory, for the CLI
//   - [MemoryCache]: in-process map with expiry, for a single server
//   - [RedisCache]: shared cache for multi-instance servers
//   - [NullCache]: never stores anything
//
// # Keys
//
// A [Keyer] turns the inputs of a computation into a deterministic key.
// Inputs are hashed with SHA-256, so keys are short and safe for every
// backend. [ScopedKeyer] adds a prefix, such as the release version:
//
//	k := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "v1.4.0:")
//	key := k.ArrangementKey("product-spotlight", cache.ArrangementKeyOpts{AssetsHash: h})
//
// # Errors
//
// Backends wrap transient failures with [Retryable]; callers use
// [RetryWithBackoff] to retry them.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
//
// Get reports a miss with ok == false and a nil error. An entry that cannot
// be decoded is dropped and reported once with an error wrapping ErrCorrupt.
// A ttl of zero means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
