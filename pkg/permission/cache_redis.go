package permission

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "perm:"

// RedisCache stores permission sets in Redis so multiple instances share
// one staleness window. GET renews the key TTL to keep the window sliding.
type RedisCache struct {
	client *redis.Client
	window time.Duration
}

// NewRedisCache creates a Redis-backed sliding-window cache. A non-positive
// window falls back to DefaultWindow. The client is owned by the caller.
func NewRedisCache(client *redis.Client, window time.Duration) *RedisCache {
	if window <= 0 {
		window = DefaultWindow
	}
	return &RedisCache{client: client, window: window}
}

func (c *RedisCache) Get(ctx context.Context, key string) (Set, bool) {
	payload, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		return nil, false
	}

	var perms []string
	if err := json.Unmarshal(payload, &perms); err != nil {
		// Corrupt entry: drop it and recompute instead of serving garbage.
		c.client.Del(ctx, redisKeyPrefix+key)
		return nil, false
	}

	c.client.Expire(ctx, redisKeyPrefix+key, c.window)
	return NewSet(perms...), true
}

func (c *RedisCache) Set(ctx context.Context, key string, set Set) {
	payload, err := json.Marshal(set.Strings())
	if err != nil {
		return
	}
	c.client.Set(ctx, redisKeyPrefix+key, payload, c.window)
}

func (c *RedisCache) Delete(ctx context.Context, key string) {
	c.client.Del(ctx, redisKeyPrefix+key)
}

// Close is a no-op; the Redis client lifecycle belongs to the caller.
func (c *RedisCache) Close() error { return nil }
