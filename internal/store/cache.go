package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/galymzhantore/teachload-api/pkg/errors"
)

// ResultCache provides helpers around Redis interactions for caching
// serialized solver results. The memory store stays the source of truth;
// the cache only spares re-solving identical (instance, solver) pairs
// across restarts of the caller.
type ResultCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewResultCache constructs a cache around the Redis client.
func NewResultCache(client *redis.Client, logger *zap.Logger) *ResultCache {
	return &ResultCache{client: client, logger: logger}
}

// Get retrieves and unmarshals the cached value into the provided destination.
func (c *ResultCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return appErrors.ErrCacheMiss
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return appErrors.ErrCacheMiss
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal cache value for %s: %w", key, err)
	}

	return nil
}

// Set marshals the provided value and stores it with the given TTL.
func (c *ResultCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

// Close releases the underlying Redis connection if present.
func (c *ResultCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
