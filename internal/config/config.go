// Package config defines service configuration structures and loading hooks.
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/okian/hirematch/internal/domain/scoring"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`
	// ShutdownTimeoutSeconds bounds graceful shutdown.
	ShutdownTimeoutSeconds int `koanf:"shutdown_timeout_seconds"`

	// Store selects the candidate backend: memory or postgres.
	Store string `koanf:"store"`
	// DatabaseURL is the Postgres DSN when Store is postgres.
	DatabaseURL string `koanf:"database_url"`
	// SeedFile is a YAML fixture loaded into the memory store.
	SeedFile string `koanf:"seed_file"`

	// Cache selects ranking memoization: none, memory or redis.
	Cache string `koanf:"cache"`
	// RedisURL is used when Cache is redis.
	RedisURL string `koanf:"redis_url"`
	// CacheSize bounds the memory cache.
	CacheSize int `koanf:"cache_size"`
	// CacheTTLSeconds expires cached rankings; 0 keeps them until evicted.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// MaxMatchLimit caps the limit parameter of ranking requests.
	MaxMatchLimit int `koanf:"max_match_limit"`

	// SkillWeight and ExperienceWeight must be non-negative and sum to 1.
	SkillWeight      float64 `koanf:"skill_weight"`
	ExperienceWeight float64 `koanf:"experience_weight"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              "text",
		Addr:                   ":9080",
		ShutdownTimeoutSeconds: 10,
		Store:                  StoreMemory,
		Cache:                  CacheMemory,
		CacheSize:              1024,
		CacheTTLSeconds:        300,
		MaxMatchLimit:          100,
		SkillWeight:            0.7,
		ExperienceWeight:       0.3,
	}
}

// CacheTTL returns CacheTTLSeconds as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// ShutdownTimeout returns ShutdownTimeoutSeconds as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return invalid("addr must not be empty")
	case !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.LogLevel)):
		return invalid("log_level must be debug, info, warn or error")
	case !slices.Contains([]string{"text", "json"}, strings.ToLower(c.LogFormat)):
		return invalid("log_format must be text or json")
	case c.Store != StoreMemory && c.Store != StorePostgres:
		return invalid("store must be memory or postgres")
	case c.Store == StorePostgres && c.DatabaseURL == "":
		return invalid("database_url is required when store is postgres")
	case !slices.Contains([]string{CacheNone, CacheMemory, CacheRedis}, c.Cache):
		return invalid("cache must be none, memory or redis")
	case c.Cache == CacheRedis && c.RedisURL == "":
		return invalid("redis_url is required when cache is redis")
	case c.CacheSize < 1:
		return invalid("cache_size must be positive")
	case c.CacheTTLSeconds < 0:
		return invalid("cache_ttl_seconds must not be negative")
	case c.MaxMatchLimit < 1:
		return invalid("max_match_limit must be positive")
	case c.ShutdownTimeoutSeconds < 1:
		return invalid("shutdown_timeout_seconds must be positive")
	}
	if err := c.Policy().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Policy returns the default scoring policy with the configured weights.
func (c *Config) Policy() scoring.Policy {
	p := scoring.DefaultPolicy()
	p.SkillWeight = c.SkillWeight
	p.ExperienceWeight = c.ExperienceWeight
	return p
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, msg)
}
