package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/hirematch/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

// RedisCache stores entries in Redis with a TTL so several service replicas
// can share rankings.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

var _ Cache = (*RedisCache)(nil)

// NewRedisCache wraps an existing client.
func NewRedisCache(client *redis.Client, opts ...RedisOption) *RedisCache {
	c := &RedisCache{client: client, ttl: defaultRedisTTL, prefix: "hirematch:"}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DialRedis parses url, connects and pings.
func DialRedis(ctx context.Context, url string, opts ...RedisOption) (*RedisCache, error) {
	ropts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(ropts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisCache(client, opts...), nil
}

// Get implements Cache. Errors other than a missing key are counted and
// reported as a miss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			metrics.RecordCacheError("get")
		}
		metrics.RecordCacheMiss()
		return nil, false
	}
	metrics.RecordCacheHit()
	return val, true
}

// Set implements Cache. Write failures are counted and otherwise ignored.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte) {
	if err := c.client.Set(ctx, c.prefix+key, value, c.ttl).Err(); err != nil {
		metrics.RecordCacheError("set")
	}
}

// Health pings the server.
func (c *RedisCache) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
