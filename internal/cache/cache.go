// Package cache provides a small generic TTL cache used to keep recently
// fetched aggregates (summary, category breakdown) warm between reads.
package cache

import (
	"strings"
	"sync"
	"time"
)

// TTLCache maps string keys to values that expire after a fixed duration.
// Safe for concurrent use.
type TTLCache[T any] struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]entry[T]
}

type entry[T any] struct {
	data      T
	expiresAt time.Time
}

// New creates a TTLCache whose entries live for ttl. A non-positive ttl
// disables caching entirely: Set becomes a no-op and Get always misses.
func New[T any](ttl time.Duration) *TTLCache[T] {
	return &TTLCache[T]{
		ttl:   ttl,
		items: make(map[string]entry[T]),
	}
}

// Get returns the cached value for key if it has not expired.
func (c *TTLCache[T]) Get(key string) (T, bool) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return zero, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.items, key)
		return zero, false
	}
	return e.data, true
}

// Set stores data under key with a fresh TTL.
func (c *TTLCache[T]) Set(key string, data T) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry[T]{data: data, expiresAt: time.Now().Add(c.ttl)}
}

// Delete removes key from the cache.
func (c *TTLCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// DeletePrefix removes every key starting with prefix. Mutations use this to
// invalidate all of a user's cached aggregates at once.
func (c *TTLCache[T]) DeletePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
		}
	}
}

// Size returns the number of entries currently stored, expired or not.
func (c *TTLCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
