package cache

import "time"

const (
	defaultMaxEntries = 1024
	defaultTTL        = 5 * time.Minute
	defaultRedisTTL   = 10 * time.Minute
)

// Option applies a configuration option to the MemoryCache.
type Option func(*MemoryCache)

// WithMaxEntries bounds the cache; the oldest entry is evicted when full.
// Values below 1 are ignored.
func WithMaxEntries(n int) Option {
	return func(c *MemoryCache) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// WithTTL expires entries after ttl. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(c *MemoryCache) {
		if ttl >= 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *MemoryCache) {
		if now != nil {
			c.now = now
		}
	}
}

// RedisOption applies a configuration option to the RedisCache.
type RedisOption func(*RedisCache)

// WithRedisTTL sets the expiry of written keys. Zero keeps keys forever.
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(c *RedisCache) {
		if ttl >= 0 {
			c.ttl = ttl
		}
	}
}

// WithKeyPrefix namespaces every key, for shared Redis instances.
func WithKeyPrefix(prefix string) RedisOption {
	return func(c *RedisCache) {
		c.prefix = prefix
	}
}
