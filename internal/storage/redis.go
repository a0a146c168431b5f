package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/cartcore/pkg/config"
	"github.com/angelmondragon/cartcore/pkg/logger"
)

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// Redis is the KV backend for callers that want the cart state visible
// across processes. Concurrent writers from separate processes are
// last-writer-wins; no merging is attempted.
type Redis struct {
	store cmdable
	raw   *redis.Client
}

// NewRedis bootstraps a client with pooling/timeouts and verifies connectivity.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Redis, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if logg != nil {
		logg.Info(ctx, "redis store connection established")
	}
	return &Redis{store: raw, raw: raw}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if opts.DB == 0 {
		opts.DB = cfg.DB
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

// Get returns the value stored at key; absence is reported, not an error.
func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	if r.store == nil {
		return "", false, errors.New("redis store not initialized")
	}
	value, err := r.store.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores the value without a TTL; cart records do not expire on their own.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	if r.store == nil {
		return errors.New("redis store not initialized")
	}
	return r.store.Set(ctx, key, value, 0).Err()
}

// Del removes the provided keys in a single command.
func (r *Redis) Del(ctx context.Context, keys ...string) error {
	if r.store == nil {
		return errors.New("redis store not initialized")
	}
	if len(keys) == 0 {
		return nil
	}
	return r.store.Del(ctx, keys...).Err()
}

// Ping verifies the connection.
func (r *Redis) Ping(ctx context.Context) error {
	if r.store == nil {
		return errors.New("redis store not initialized")
	}
	return r.store.Ping(ctx).Err()
}

// Close shuts down the underlying client if available.
func (r *Redis) Close() error {
	if r.raw == nil {
		return nil
	}
	return r.raw.Close()
}
