package explorer

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type cacheEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a small TTL cache. A zero TTL disables it.
type Cache[V any] struct {
	mu    sync.RWMutex
	ttl   time.Duration
	clock clockwork.Clock
	m     map[string]cacheEntry[V]
}

func NewCache[V any](ttl time.Duration, clock clockwork.Clock) *Cache[V] {
	return &Cache[V]{
		ttl:   ttl,
		clock: clock,
		m:     make(map[string]cacheEntry[V]),
	}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.m[key]
	if !ok || !c.clock.Now().Before(entry.expiresAt) {
		var zero V
		return zero, false
	}
	return entry.value, true
}

func (c *Cache[V]) Set(key string, value V) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = cacheEntry[V]{value: value, expiresAt: c.clock.Now().Add(c.ttl)}
}
