package query

import (
	"fmt"
	"sync"
	"time"
)

// Cache memoizes view responses for one TTL window. Keys are salted with
// the current window number, so every entry for a window expires at the
// same instant and a re-warm produces a fresh snapshot.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	window  int64
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value any
	err   error
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: map[string]cacheEntry{},
	}
}

// Do returns the cached value for key within the current window, computing
// and storing it on a miss. Errors are not cached.
func (c *Cache) Do(key string, fn func() (any, error)) (any, error) {
	window := c.now().UnixNano() / int64(c.ttl)
	salted := fmt.Sprintf("%s@%d", key, window)

	c.mu.Lock()
	if window != c.window {
		// New window; everything cached before it is stale.
		c.window = window
		c.entries = map[string]cacheEntry{}
	}
	if e, ok := c.entries[salted]; ok {
		c.mu.Unlock()
		return e.value, e.err
	}
	c.mu.Unlock()

	value, err := fn()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if window == c.window {
		c.entries[salted] = cacheEntry{value: value}
	}
	c.mu.Unlock()
	return value, nil
}
