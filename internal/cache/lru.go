// Package cache provides a bounded least-recently-used cache.
//
// The cache is not safe for concurrent use. It is meant to be owned by a
// single component (the bitmap blitter, the font provider) and driven from
// the render loop's goroutine.
package cache

import "container/list"

// Stats reports cache effectiveness counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// LRU is a bounded cache that evicts the least recently used entry first.
type LRU[K comparable, V any] struct {
	capacity int
	items    map[K]*list.Element
	order    *list.List // front is most recently used

	stats Stats
}

// entry holds a cached value together with its key so eviction can
// remove the map entry.
type entry[K comparable, V any] struct {
	key   K
	value V
}

// New creates an LRU holding at most capacity entries.
// A capacity below 1 is raised to 1.
func New[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &LRU[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element),
		order:    list.New(),
	}
}

// Get returns the value stored under key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	elem, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		var zero V
		return zero, false
	}
	c.order.MoveToFront(elem)
	c.stats.Hits++
	return elem.Value.(*entry[K, V]).value, true //nolint:errcheck // list only contains *entry
}

// Put stores value under key, marks it most recently used and evicts
// least recently used entries until the cache is within capacity.
func (c *LRU[K, V]) Put(key K, value V) {
	if elem, ok := c.items[key]; ok {
		elem.Value.(*entry[K, V]).value = value //nolint:errcheck // list only contains *entry
		c.order.MoveToFront(elem)
		return
	}

	c.items[key] = c.order.PushFront(&entry[K, V]{key: key, value: value})

	for c.order.Len() > c.capacity {
		c.evictOldest()
	}
}

// Remove deletes key from the cache. It reports whether the key was present.
func (c *LRU[K, V]) Remove(key K) bool {
	elem, ok := c.items[key]
	if !ok {
		return false
	}
	c.removeElement(elem)
	return true
}

// Clear removes every entry. Stats are kept.
func (c *LRU[K, V]) Clear() {
	c.items = make(map[K]*list.Element)
	c.order.Init()
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	return c.order.Len()
}

// Capacity returns the maximum number of entries.
func (c *LRU[K, V]) Capacity() int {
	return c.capacity
}

// Stats returns a snapshot of the hit, miss and eviction counters.
func (c *LRU[K, V]) Stats() Stats {
	return c.stats
}

// evictOldest removes the least recently used entry.
func (c *LRU[K, V]) evictOldest() {
	if elem := c.order.Back(); elem != nil {
		c.removeElement(elem)
		c.stats.Evictions++
	}
}

func (c *LRU[K, V]) removeElement(elem *list.Element) {
	c.order.Remove(elem)
	delete(c.items, elem.Value.(*entry[K, V]).key) //nolint:errcheck // list only contains *entry
}
