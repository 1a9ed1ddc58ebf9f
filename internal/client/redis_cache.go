package client

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "querycache:"

// RedisCache is a QueryCache shared between client processes. Entries expire
// on their own; Invalidate drops them eagerly after a mutation.
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := c.Client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		return nil, false
	}
	return value, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte) {
	c.Client.Set(ctx, redisKeyPrefix+key, value, c.TTL)
}

func (c *RedisCache) Invalidate(ctx context.Context, prefix string) {
	keys, err := c.Client.Keys(ctx, redisKeyPrefix+prefix+"*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	c.Client.Del(ctx, keys...)
}
