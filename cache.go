package axle

import (
	"sync"
	"sync/atomic"
)

// Cache memoizes the result of an operation for one wrapped instance.
// Concurrent first calls are serialized so the computation runs once.
// A computation that panics is not cached.
//
// The zero value is an empty cache.
type Cache[T any] struct {
	done atomic.Bool
	mu   sync.Mutex
	v    T
}

// Get returns the cached value, computing it with compute on first use.
func (c *Cache[T]) Get(compute func() T) T {
	if c.done.Load() {
		return c.v
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.done.Load() {
		c.v = compute()
		c.done.Store(true)
	}
	return c.v
}

// Cached reports whether a value has been stored.
func (c *Cache[T]) Cached() bool { return c.done.Load() }
