// Package cache stores serialized search responses under a short TTL.
package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	pingKey   = "health:ping"
	pingValue = "pong"
	pingTTL   = 5 * time.Second
)

type Cache interface {
	// Get returns the cached value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Close() error
}

type Type string

const (
	Redis  Type = "redis"
	Memory Type = "memory"
)

// Ping writes a short-lived key and reads it back.
func Ping(ctx context.Context, c Cache) error {
	if err := c.Set(ctx, pingKey, pingValue, pingTTL); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	v, ok, err := c.Get(ctx, pingKey)
	if err != nil {
		return fmt.Errorf("cache get: %w", err)
	}
	if !ok || v != pingValue {
		return fmt.Errorf("cache round trip returned %q (present=%t)", v, ok)
	}
	return nil
}
