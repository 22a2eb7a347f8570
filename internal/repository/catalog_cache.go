package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/gcec-dev/feedesk-api/pkg/errors"
)

// CatalogCache stores upstream reference data (grades, fee amounts, academic
// years) in Redis so catalog reads survive short upstream outages.
type CatalogCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCatalogCache constructs a catalog cache backed by Redis.
func NewCatalogCache(client *redis.Client, logger *zap.Logger) *CatalogCache {
	return &CatalogCache{client: client, logger: logger}
}

// Get retrieves and unmarshals the cached value into dest. Returns
// ErrCacheMiss when the key is absent or no Redis client is configured.
func (r *CatalogCache) Get(ctx context.Context, key string, dest interface{}) error {
	if r.client == nil {
		return appErrors.ErrCacheMiss
	}

	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return appErrors.ErrCacheMiss
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal cached %s: %w", key, err)
	}
	return nil
}

// Set stores the value under key with the given TTL.
func (r *CatalogCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for %s: %w", key, err)
	}

	if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
