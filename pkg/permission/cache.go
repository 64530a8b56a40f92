package permission

import (
	"context"
	"sync"
	"time"
)

// Cache stores computed permission sets keyed by (tenant, user). Entries
// live on a sliding window: every Get renews the expiration, and an entry
// disappears only after a full window of inactivity. Implementations must be
// safe for concurrent use; racing writers for the same key are benign as
// long as readers never observe a partial set.
type Cache interface {
	// Get returns the cached set and renews its sliding window.
	Get(ctx context.Context, key string) (Set, bool)

	// Set stores a fully computed set, starting a fresh window.
	Set(ctx context.Context, key string, set Set)

	// Delete removes the entry, if present.
	Delete(ctx context.Context, key string)

	// Close releases background resources held by the cache.
	Close() error
}

// DefaultWindow is the sliding expiration applied when none is configured.
// Role and permission edits may lag by up to this duration for users with a
// live cache entry.
const DefaultWindow = 30 * time.Minute

type memoryItem struct {
	set       Set
	expiresAt time.Time
}

// memoryCache is the default in-process cache with a janitor goroutine
// sweeping expired entries.
type memoryCache struct {
	mu     sync.RWMutex
	items  map[string]memoryItem
	window time.Duration
	stop   chan struct{}
	done   chan struct{}
	closed bool
}

// NewMemoryCache creates an in-memory sliding-window cache. A non-positive
// window falls back to DefaultWindow.
func NewMemoryCache(window time.Duration) Cache {
	if window <= 0 {
		window = DefaultWindow
	}
	c := &memoryCache{
		items:  make(map[string]memoryItem),
		window: window,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go c.janitor()
	return c
}

func (c *memoryCache) Get(ctx context.Context, key string) (Set, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(item.expiresAt) {
		delete(c.items, key)
		return nil, false
	}

	// Sliding window: the entry stays alive as long as it keeps being used.
	item.expiresAt = time.Now().Add(c.window)
	c.items[key] = item
	return item.set, true
}

func (c *memoryCache) Set(ctx context.Context, key string, set Set) {
	c.mu.Lock()
	c.items[key] = memoryItem{set: set, expiresAt: time.Now().Add(c.window)}
	c.mu.Unlock()
}

func (c *memoryCache) Delete(ctx context.Context, key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

func (c *memoryCache) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	defer close(c.done)

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, item := range c.items {
				if now.After(item.expiresAt) {
					delete(c.items, key)
				}
			}
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}

func (c *memoryCache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.stop)
	<-c.done
	return nil
}

// noOpCache disables caching; every check recomputes. Useful in tests.
type noOpCache struct{}

// NewNoOpCache returns a cache that never stores anything.
func NewNoOpCache() Cache { return noOpCache{} }

func (noOpCache) Get(ctx context.Context, key string) (Set, bool) { return nil, false }
func (noOpCache) Set(ctx context.Context, key string, set Set)    {}
func (noOpCache) Delete(ctx context.Context, key string)          {}
func (noOpCache) Close() error                                    { return nil }
