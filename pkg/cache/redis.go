package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisClient is the subset of *redis.Client used by RedisCache.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisCache stores entries in Redis, relying on native key expiry.
type RedisCache struct {
	client redisClient
}

// RedisOptions locates a Redis server.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisCache connects to Redis and checks the connection, retrying
// transient failures.
func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	c := &RedisCache{client: client}
	if err := c.ping(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return c, nil
}

func (c *RedisCache) ping(ctx context.Context) error {
	return RetryWithBackoff(ctx, func() error {
		if err := c.client.Ping(ctx).Err(); err != nil {
			return Retryable(backendError("redis", "ping", err))
		}
		return nil
	})
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, backendError("redis", "get", err)
	}
	return data, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, data, max(ttl, 0)).Err(); err != nil {
		return backendError("redis", "set", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return backendError("redis", "del", err)
	}
	return nil
}

func (c *RedisCache) Close() error { return c.client.Close() }

var _ Cache = (*RedisCache)(nil)
