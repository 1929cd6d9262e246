package meta

import (
	"sync"
	"time"
)

// CacheItem is a cached metadata result with its creation time.
type CacheItem struct {
	Meta    Meta
	Created time.Time
}

// DefaultCacheTTL is how long a cached result stays fresh.
// Cinemeta data changes rarely; a day is plenty.
const DefaultCacheTTL = 24 * time.Hour

// InMemoryCache is a thread-safe, in-memory cache for metadata results.
type InMemoryCache struct {
	cache map[string]CacheItem
	ttl   time.Duration
	lock  sync.RWMutex
}

// NewInMemoryCache creates a cache with the default TTL.
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		cache: map[string]CacheItem{},
		ttl:   DefaultCacheTTL,
	}
}

// Set stores the result for key.
func (c *InMemoryCache) Set(key string, m Meta) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.cache[key] = CacheItem{
		Meta:    m,
		Created: time.Now(),
	}
}

// Get returns the fresh result for key, or false when there is none or it
// has expired. Expired entries are dropped on access.
func (c *InMemoryCache) Get(key string) (Meta, bool) {
	c.lock.RLock()
	item, ok := c.cache[key]
	c.lock.RUnlock()
	if !ok {
		return Meta{}, false
	}
	if time.Since(item.Created) > c.ttl {
		c.lock.Lock()
		delete(c.cache, key)
		c.lock.Unlock()
		return Meta{}, false
	}
	return item.Meta, true
}
