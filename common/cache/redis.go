package cache

import (
	"context"
	"errors"
	"time"

	commonredis "github.com/shelfwise/lending/common/redis"
)

// RedisCache backs the Cache interface with Redis so a read model can be
// shared across client processes in one session.
type RedisCache struct {
	client *commonredis.Client
	prefix string
}

// NewRedisCache creates a Redis-backed cache. All keys are namespaced with
// the given prefix.
func NewRedisCache(client *commonredis.Client, prefix string) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: prefix,
	}
}

// Get retrieves a value from cache
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+key)
	if errors.Is(err, commonredis.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(val), true, nil
}

// Set stores a value in cache with TTL
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, string(value), ttl)
}

// Delete removes a value from cache
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Delete(ctx, c.prefix+key)
}

// Close closes the underlying Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
