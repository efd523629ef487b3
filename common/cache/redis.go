package cache

import (
	"context"
	"errors"
	"time"

	rediscommon "github.com/wishstock/wishlist/common/redis"
)

// RedisCache stores entries in Redis so every replica shares them
type RedisCache struct {
	client *rediscommon.Client
	prefix string
}

// NewRedisCache creates a cache whose keys are namespaced by prefix
func NewRedisCache(client *rediscommon.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+key)
	if errors.Is(err, rediscommon.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(val), true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.SetWithExpiry(ctx, c.prefix+key, string(value), ttl)
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Delete(ctx, c.prefix+key)
}

// Close is a no-op; the Redis connection is owned by bootstrap
func (c *RedisCache) Close() error {
	return nil
}
