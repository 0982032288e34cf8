package cache

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	DefaultTTL        = 60 * time.Second
	DefaultMaxEntries = 10000
)

type Config struct {
	Type       Type
	TTL        time.Duration
	MaxEntries int
	Redis      *RedisConfig
}

func LoadEnv() (*Config, error) {
	cfg := &Config{
		Type:       Type(os.Getenv("CACHE_TYPE")),
		TTL:        DefaultTTL,
		MaxEntries: DefaultMaxEntries,
	}
	if cfg.Type == "" {
		cfg.Type = Memory
	}

	if raw := os.Getenv("CACHE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("invalid CACHE_TTL %q: expected a positive duration", raw)
		}
		cfg.TTL = ttl
	}

	switch cfg.Type {
	case Memory:
		if raw := os.Getenv("CACHE_MAX_ENTRIES"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid CACHE_MAX_ENTRIES %q: expected a positive integer", raw)
			}
			cfg.MaxEntries = n
		}
	case Redis:
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			slog.Error("REDIS_ADDR environment variable is not set")
			return nil, fmt.Errorf("REDIS_ADDR environment variable is not set")
		}
		db := 0
		if raw := os.Getenv("REDIS_DB"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("invalid REDIS_DB %q", raw)
			}
			db = n
		}
		cfg.Redis = &RedisConfig{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       db,
		}
	default:
		return nil, fmt.Errorf("invalid CACHE_TYPE %q, expected one of %v", cfg.Type, []Type{Redis, Memory})
	}

	return cfg, nil
}

func New(ctx context.Context, cfg *Config) (Cache, error) {
	switch cfg.Type {
	case Redis:
		if cfg.Redis == nil {
			return nil, fmt.Errorf("missing Redis configuration")
		}
		return NewRedisCache(ctx, *cfg.Redis)
	case Memory, "":
		return NewMemoryCache(cfg.MaxEntries, cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.Type)
	}
}
