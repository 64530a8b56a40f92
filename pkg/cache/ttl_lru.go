// Package cache provides a small bounded TTL cache used for read-mostly
// lookup data such as tenant directory records. Entries expire after a
// fixed duration and the least recently used entry is dropped once the
// capacity is reached.
package cache

import (
	"container/list"
	"sync"
	"time"
)

type entry[K comparable, V any] struct {
	key      K
	value    V
	deadline time.Time
}

// TTLCache is a fixed-capacity LRU cache whose entries expire after a
// per-cache TTL. Expired entries are dropped lazily on access. Safe for
// concurrent use.
type TTLCache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	order    *list.List
	index    map[K]*list.Element
}

// NewTTLCache returns a cache holding at most capacity entries, each valid
// for ttl after it was last set. Panics if capacity is not positive or ttl
// is not positive.
func NewTTLCache[K comparable, V any](capacity int, ttl time.Duration) *TTLCache[K, V] {
	if capacity <= 0 {
		panic("cache: capacity must be positive")
	}
	if ttl <= 0 {
		panic("cache: ttl must be positive")
	}
	return &TTLCache[K, V]{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		index:    make(map[K]*list.Element),
	}
}

// Get returns the live value for key, marking it as recently used.
// An expired entry is removed and reported as a miss.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	ent := elem.Value.(*entry[K, V])
	if time.Now().After(ent.deadline) {
		c.drop(elem)
		var zero V
		return zero, false
	}
	c.order.MoveToFront(elem)
	return ent.value, true
}

// Set stores value under key with a fresh deadline, evicting the least
// recently used entry when the cache is full.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline := time.Now().Add(c.ttl)
	if elem, ok := c.index[key]; ok {
		ent := elem.Value.(*entry[K, V])
		ent.value = value
		ent.deadline = deadline
		c.order.MoveToFront(elem)
		return
	}

	c.index[key] = c.order.PushFront(&entry[K, V]{key: key, value: value, deadline: deadline})
	if c.order.Len() > c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.drop(oldest)
		}
	}
}

// Delete removes key from the cache if present.
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.index[key]; ok {
		c.drop(elem)
	}
}

// Len reports the number of entries currently held, including entries that
// have expired but not yet been dropped.
func (c *TTLCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// caller holds c.mu
func (c *TTLCache[K, V]) drop(elem *list.Element) {
	c.order.Remove(elem)
	delete(c.index, elem.Value.(*entry[K, V]).key)
}
