package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores entries in Redis and relies on Redis key expiry for TTLs.
type RedisCache struct {
	client redis.UniversalClient
}

// NewRedisCache connects to the Redis server at url
// (for example "redis://localhost:6379/0").
//
// The connection is verified with PING, retried with backoff while the
// server is unreachable.
func NewRedisCache(ctx context.Context, url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	err = RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx).Err(); err != nil {
			return Retryable(fmt.Errorf("%w: ping %s: %v", ErrNetwork, opts.Addr, err))
		}
		return nil
	})
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisCache{client: client}, nil
}

// NewRedisCacheFromClient wraps an existing client. Closing the cache
// closes the client.
func NewRedisCacheFromClient(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

// Get retrieves a value from Redis. A missing key is a miss, not an error.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: redis get: %v", ErrNetwork, err)
	}
	return data, true, nil
}

// Set stores a value with the given expiry.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set: %v", ErrNetwork, err)
	}
	return nil
}

// Delete removes a key. Deleting a missing key succeeds.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: redis del: %v", ErrNetwork, err)
	}
	return nil
}

// Close closes the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ Cache = (*RedisCache)(nil)
