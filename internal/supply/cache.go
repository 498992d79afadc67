package supply

import (
	"context"
	"sync"
	"time"
)

// cacheCell holds one cached value plus its creation time. A cell's mutex
// doubles as the single-flight guard: the factory runs while it is held, so
// concurrent callers for the same key block and then observe the fresh value
// on the re-check instead of refreshing again.
type cacheCell[V any] struct {
	mu      sync.Mutex
	value   V
	created time.Time
	has     bool
}

// Cache is a generic time-expiring memoization map with single-flight
// refresh per key. Entries are replaced wholesale on refresh, never mutated
// in place.
type Cache[K comparable, V any] struct {
	ttl time.Duration

	mu    sync.Mutex
	cells map[K]*cacheCell[V]
}

// NewCache builds a Cache whose entries expire ttl after creation.
func NewCache[K comparable, V any](ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		ttl:   ttl,
		cells: make(map[K]*cacheCell[V]),
	}
}

// GetOrAdd returns the cached value for key when it is younger than the TTL.
// Otherwise it invokes factory exactly once across all concurrent callers of
// the same key, stores the result with a fresh timestamp, and returns it.
// On factory error the previous entry (if any) is left in place, stale, and
// the error is returned to the caller that ran the factory.
func (c *Cache[K, V]) GetOrAdd(ctx context.Context, key K, factory func(context.Context) (V, error)) (V, error) {
	c.mu.Lock()
	cell, ok := c.cells[key]
	if !ok {
		cell = &cacheCell[V]{}
		c.cells[key] = cell
	}
	c.mu.Unlock()

	cell.mu.Lock()
	defer cell.mu.Unlock()
	if cell.has && time.Since(cell.created) < c.ttl {
		return cell.value, nil
	}
	value, err := factory(ctx)
	if err != nil {
		var zero V
		return zero, err
	}
	cell.value = value
	cell.created = time.Now()
	cell.has = true
	return value, nil
}

// Peek returns the entry for key without refreshing it, along with whether a
// fresh entry exists.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	c.mu.Lock()
	cell, ok := c.cells[key]
	c.mu.Unlock()
	if !ok {
		var zero V
		return zero, false
	}
	cell.mu.Lock()
	defer cell.mu.Unlock()
	if !cell.has || time.Since(cell.created) >= c.ttl {
		var zero V
		return zero, false
	}
	return cell.value, true
}

// Invalidate drops the entry for key so the next GetOrAdd refreshes it.
func (c *Cache[K, V]) Invalidate(key K) {
	c.mu.Lock()
	delete(c.cells, key)
	c.mu.Unlock()
}
