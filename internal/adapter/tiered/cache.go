// Package tiered combines a local in-process cache with a shared remote
// cache. The journal service uses it for per-day focus-minute totals: reads
// hit the local tier first, falling back to the shared tier and backfilling.
package tiered

import (
	"context"
	"time"

	"github.com/asteritime/asteritime/internal/port/cache"
)

// Cache layers a local cache over a shared one. Writes and deletes go to
// both tiers so a stale local entry cannot outlive an invalidation.
type Cache struct {
	local       cache.Cache
	shared      cache.Cache
	localExpire time.Duration
}

// New creates a tiered cache. localExpire bounds how long backfilled
// entries live in the local tier.
func New(local, shared cache.Cache, localExpire time.Duration) *Cache {
	return &Cache{local: local, shared: shared, localExpire: localExpire}
}

// Get checks the local tier, then the shared one, backfilling on a shared
// hit.
func (c *Cache) Get(ctx context.Context, key string) (data []byte, ok bool, err error) {
	val, found, err := c.local.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if found {
		return val, true, nil
	}

	val, found, err = c.shared.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if found {
		_ = c.local.Set(ctx, key, val, c.localExpire)
		return val, true, nil
	}

	return nil, false, nil
}

// Set writes to both tiers.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.local.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	return c.shared.Set(ctx, key, value, ttl)
}

// Delete removes the key from both tiers.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.local.Delete(ctx, key); err != nil {
		return err
	}
	return c.shared.Delete(ctx, key)
}
