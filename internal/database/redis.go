package database

import (
	"fmt"
	"time"

	"github.com/tonzxz12/Findr-sub000/internal/config"

	"github.com/go-redis/redis/v8"
)

// RedisOptions builds client options from configuration. REDIS_URL, when
// set, takes precedence over the discrete address settings.
func RedisOptions(cfg config.RedisConfig) (*redis.Options, error) {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		opts = parsed
	}

	// Cache reads sit on the dashboard request path; fail fast.
	opts.DialTimeout = 2 * time.Second
	opts.ReadTimeout = 500 * time.Millisecond
	opts.WriteTimeout = 500 * time.Millisecond
	opts.PoolSize = 10
	opts.MinIdleConns = 2
	opts.MaxRetries = 1

	return opts, nil
}

// NewRedisClient creates the cache client. Connections are opened lazily.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	opts, err := RedisOptions(cfg.Redis)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}
