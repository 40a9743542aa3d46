package service

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/microshop/microshop/internal/cache"
	"github.com/microshop/microshop/internal/metrics"
)

// EntityCache stores single records keyed by resource and id.
// A nil EntityCache disables caching.
type EntityCache interface {
	Get(ctx context.Context, key string, dst any) error
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// entityCache wraps an EntityCache for one resource. Cache failures are
// logged and never returned.
//
// writes counts invalidations. A read only fills the cache when no
// invalidation happened between its store read and its cache write.
type entityCache struct {
	cache    EntityCache
	resource string
	metrics  metrics.Recorder
	logger   *slog.Logger
	writes   atomic.Uint64
}

func (c *entityCache) enabled() bool {
	return c != nil && c.cache != nil
}

// load returns true when dst was filled from the cache.
func (c *entityCache) load(ctx context.Context, id string, dst any) bool {
	if !c.enabled() {
		return false
	}

	err := c.cache.Get(ctx, cache.Key(c.resource, id), dst)
	if err == nil {
		c.metrics.IncCacheHit(c.resource)
		return true
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		c.logger.Warn("cache_read_failed", "resource", c.resource, "id", id, "error", err)
	}
	c.metrics.IncCacheMiss(c.resource)
	return false
}

// generation must be taken before the store read whose result is passed to fill.
func (c *entityCache) generation() uint64 {
	if !c.enabled() {
		return 0
	}
	return c.writes.Load()
}

// fill caches value unless an invalidation ran since gen was taken.
func (c *entityCache) fill(ctx context.Context, id string, gen uint64, value any) {
	if !c.enabled() || c.writes.Load() != gen {
		return
	}
	key := cache.Key(c.resource, id)
	if err := c.cache.Set(ctx, key, value); err != nil {
		c.logger.Warn("cache_write_failed", "resource", c.resource, "id", id, "error", err)
		return
	}
	// An invalidation may have landed between the check and the Set.
	if c.writes.Load() != gen {
		c.delete(ctx, id)
	}
}

// invalidate must be called after the store write completes.
func (c *entityCache) invalidate(ctx context.Context, id string) {
	if !c.enabled() {
		return
	}
	c.writes.Add(1)
	c.delete(ctx, id)
}

func (c *entityCache) delete(ctx context.Context, id string) {
	if err := c.cache.Delete(ctx, cache.Key(c.resource, id)); err != nil {
		c.logger.Warn("cache_invalidate_failed", "resource", c.resource, "id", id, "error", err)
	}
}
