package cache

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultMemoryCleanup is how often expired memory entries are purged.
const DefaultMemoryCleanup = 10 * time.Minute

// MemoryCache keeps entries in process memory. It is the server default
// when no Redis address is configured.
type MemoryCache struct {
	c *gocache.Cache
}

// NewMemoryCache creates a memory cache. Entries set with a zero ttl never
// expire; cleanup sets the purge interval (DefaultMemoryCleanup if zero).
func NewMemoryCache(cleanup time.Duration) *MemoryCache {
	if cleanup <= 0 {
		cleanup = DefaultMemoryCleanup
	}
	return &MemoryCache{c: gocache.New(gocache.NoExpiration, cleanup)}
}

// Get retrieves a value from the cache.
func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	data, ok := v.([]byte)
	if !ok {
		m.c.Delete(key)
		return nil, false, fmt.Errorf("%w: %s holds %T", ErrCorrupt, key, v)
	}
	return data, true, nil
}

// Set stores a copy of data.
func (m *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.c.Set(key, append([]byte(nil), data...), ttl)
	return nil
}

// Delete removes a value from the cache.
func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	m.c.Delete(key)
	return nil
}

// Len returns the number of stored entries, including expired ones not yet
// purged.
func (m *MemoryCache) Len() int { return m.c.ItemCount() }

// Close drops every entry.
func (m *MemoryCache) Close() error {
	m.c.Flush()
	return nil
}

// Ensure MemoryCache implements Cache.
var _ Cache = (*MemoryCache)(nil)
