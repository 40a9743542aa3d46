package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const entityKeyPrefix = "microshop:"

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

// Key builds the cache key for one record of a resource.
func Key(resource, id string) string {
	return entityKeyPrefix + resource + ":" + id
}

// Get loads the JSON entry at key into dst.
// Returns ErrCacheMiss if not found.
func (c *Cache) Get(ctx context.Context, key string, dst any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		// Unreadable entries are dropped so the next read goes to the store
		c.client.Del(ctx, key)
		return ErrCacheMiss
	}

	return nil
}

// Set stores value as JSON under key with the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache entry: %w", err)
	}

	return nil
}

// Delete removes key from the cache.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}
