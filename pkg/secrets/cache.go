package secrets

import (
	"context"
	"sync"
	"time"
)

type entry[T any] struct {
	value     T
	fetchedAt time.Time
}

// Cache keeps resolved secrets for a fixed TTL so one process asks the
// provider at most once per TTL for a given name. A TTL <= 0 disables caching.
type Cache[T any] struct {
	mu      sync.Mutex
	entries map[string]entry[T]
	ttl     time.Duration
	now     func() time.Time
}

// NewCache creates an empty cache.
func NewCache[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		entries: make(map[string]entry[T]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached value for name if it is still fresh.
func (c *Cache[T]) Get(name string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	e, ok := c.entries[name]
	if !ok {
		return zero, false
	}
	if c.ttl <= 0 || c.now().Sub(e.fetchedAt) >= c.ttl {
		delete(c.entries, name)
		return zero, false
	}
	return e.value, true
}

// Put stores value under name.
func (c *Cache[T]) Put(name string, value T) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = entry[T]{value: value, fetchedAt: c.now()}
}

// Bust drops name, e.g. after the service rejected the credentials it held.
func (c *Cache[T]) Bust(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, name)
}

// GetOrLoad returns the cached value for name or calls load and caches its
// result. Errors are not cached.
func (c *Cache[T]) GetOrLoad(ctx context.Context, name string, load func(context.Context) (T, error)) (T, error) {
	if v, ok := c.Get(name); ok {
		return v, nil
	}
	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.Put(name, v)
	return v, nil
}
