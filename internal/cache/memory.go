package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryCache is a bounded in-process LRU. Entries expire after the TTL
// given to Set, capped by the cache-wide maxTTL.
type MemoryCache struct {
	lru *expirable.LRU[string, memoryEntry]
	now func() time.Time
}

var _ Cache = (*MemoryCache)(nil)

func NewMemoryCache(maxEntries int, maxTTL time.Duration) *MemoryCache {
	return &MemoryCache{
		lru: expirable.NewLRU[string, memoryEntry](maxEntries, nil, maxTTL),
		now: time.Now,
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	e, ok := c.lru.Get(key)
	if !ok {
		return "", false, nil
	}
	if !c.now().Before(e.expiresAt) {
		c.lru.Remove(key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (c *MemoryCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.lru.Add(key, memoryEntry{value: value, expiresAt: c.now().Add(ttl)})
	return nil
}

func (c *MemoryCache) Len() int {
	return c.lru.Len()
}

func (c *MemoryCache) Close() error {
	c.lru.Purge()
	return nil
}
