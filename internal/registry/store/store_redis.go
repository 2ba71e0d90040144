package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"nordkyc/internal/domain"
)

// RedisCache persists registry cache entries in Redis with TTL enforcement
// handled by key expiry.
type RedisCache struct {
	client   redis.Cmdable
	cacheTTL time.Duration
}

// NewRedisCache constructs a Redis-backed registry cache.
func NewRedisCache(client redis.Cmdable, cacheTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, cacheTTL: cacheTTL}
}

func redisKey(country domain.CountryCode, nationalID string) string {
	return fmt.Sprintf("nordkyc:registry:%s:%s", country, nationalID)
}

func (c *RedisCache) Save(ctx context.Context, country domain.CountryCode, record domain.RegistryRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode registry record: %w", err)
	}
	if err := c.client.Set(ctx, redisKey(country, record.NationalID), payload, c.cacheTTL).Err(); err != nil {
		return fmt.Errorf("save registry record: %w", err)
	}
	return nil
}

func (c *RedisCache) Find(ctx context.Context, country domain.CountryCode, nationalID string) (*domain.RegistryRecord, error) {
	payload, err := c.client.Get(ctx, redisKey(country, nationalID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find registry record: %w", err)
	}
	var record domain.RegistryRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("decode registry record: %w", err)
	}
	return &record, nil
}
