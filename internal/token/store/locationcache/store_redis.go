// Package locationcache is a read-through Redis cache for token location
// lookups. It only ever fronts the asset store; the lifecycle service
// invalidates entries on every mutation, so a miss is always safe.
package locationcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"geostake/internal/token/models"
	id "geostake/pkg/domain"
	"geostake/pkg/platform/sentinel"
)

// RedisCache caches asset records keyed by token id with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func cacheKey(tokenID id.TokenID) string {
	return "token:record:" + tokenID.String()
}

// Find returns the cached record or sentinel.ErrNotFound on a miss.
func (c *RedisCache) Find(ctx context.Context, tokenID id.TokenID) (*models.AssetRecord, error) {
	raw, err := c.client.Get(ctx, cacheKey(tokenID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("location cache get: %w", err)
	}
	var record models.AssetRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		// Corrupt entries are treated as misses; the authoritative store wins.
		return nil, sentinel.ErrNotFound
	}
	return &record, nil
}

// Save stores the record under the configured TTL.
func (c *RedisCache) Save(ctx context.Context, record *models.AssetRecord) error {
	if record == nil {
		return fmt.Errorf("asset record is required")
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("location cache marshal: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(record.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("location cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached record. Missing keys are not an error.
func (c *RedisCache) Invalidate(ctx context.Context, tokenID id.TokenID) error {
	if err := c.client.Del(ctx, cacheKey(tokenID)).Err(); err != nil {
		return fmt.Errorf("location cache invalidate: %w", err)
	}
	return nil
}
