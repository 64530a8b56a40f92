package cache_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domuslabs/domus/pkg/cache"
)

func TestTTLCache_SetGet(t *testing.T) {
	t.Parallel()

	t.Run("stores and returns values", func(t *testing.T) {
		t.Parallel()
		c := cache.NewTTLCache[string, int](4, time.Minute)

		c.Set("a", 1)
		c.Set("b", 2)

		v, ok := c.Get("a")
		require.True(t, ok)
		assert.Equal(t, 1, v)
		v, ok = c.Get("b")
		require.True(t, ok)
		assert.Equal(t, 2, v)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("miss on unknown key", func(t *testing.T) {
		t.Parallel()
		c := cache.NewTTLCache[string, int](4, time.Minute)

		v, ok := c.Get("missing")
		assert.False(t, ok)
		assert.Zero(t, v)
	})

	t.Run("set replaces existing value", func(t *testing.T) {
		t.Parallel()
		c := cache.NewTTLCache[string, int](4, time.Minute)

		c.Set("a", 1)
		c.Set("a", 9)

		v, ok := c.Get("a")
		require.True(t, ok)
		assert.Equal(t, 9, v)
		assert.Equal(t, 1, c.Len())
	})
}

func TestTTLCache_Expiry(t *testing.T) {
	t.Parallel()

	c := cache.NewTTLCache[string, int](4, 30*time.Millisecond)
	c.Set("a", 1)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	time.Sleep(50 * time.Millisecond)

	_, ok = c.Get("a")
	assert.False(t, ok, "entry should expire after the ttl")
	assert.Equal(t, 0, c.Len(), "expired entry should be dropped on access")
}

func TestTTLCache_Eviction(t *testing.T) {
	t.Parallel()

	t.Run("drops least recently used at capacity", func(t *testing.T) {
		t.Parallel()
		c := cache.NewTTLCache[string, int](3, time.Minute)

		c.Set("a", 1)
		c.Set("b", 2)
		c.Set("c", 3)
		c.Set("d", 4)

		_, ok := c.Get("a")
		assert.False(t, ok, "oldest entry should be evicted")
		assert.Equal(t, 3, c.Len())
	})

	t.Run("get refreshes recency", func(t *testing.T) {
		t.Parallel()
		c := cache.NewTTLCache[string, int](3, time.Minute)

		c.Set("a", 1)
		c.Set("b", 2)
		c.Set("c", 3)

		_, _ = c.Get("a")
		c.Set("d", 4)

		_, ok := c.Get("b")
		assert.False(t, ok, "b became the least recently used entry")
		_, ok = c.Get("a")
		assert.True(t, ok)
	})
}

func TestTTLCache_Delete(t *testing.T) {
	t.Parallel()

	c := cache.NewTTLCache[string, int](4, time.Minute)
	c.Set("a", 1)

	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)

	// deleting an absent key is a no-op
	c.Delete("missing")
	assert.Equal(t, 0, c.Len())
}

func TestTTLCache_InvalidConstruction(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { cache.NewTTLCache[string, int](0, time.Minute) })
	assert.Panics(t, func() { cache.NewTTLCache[string, int](4, 0) })
}

func TestTTLCache_Concurrent(t *testing.T) {
	t.Parallel()

	c := cache.NewTTLCache[int, int](64, time.Minute)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for j := range 100 {
				k := base*100 + j
				c.Set(k, k)
				c.Get(k)
				if j%3 == 0 {
					c.Delete(k)
				}
			}
		}(i)
	}
	wg.Wait()
}
