package store

import (
	"context"
	"sync"
	"time"

	"nordkyc/internal/domain"
)

type cachedRecord struct {
	record   domain.RegistryRecord
	storedAt time.Time
}

// InMemoryCache provides an in-memory registry cache with TTL expiration.
type InMemoryCache struct {
	mu       sync.RWMutex
	records  map[string]cachedRecord
	cacheTTL time.Duration
}

// NewInMemoryCache creates a new in-memory cache with the specified TTL.
func NewInMemoryCache(cacheTTL time.Duration) *InMemoryCache {
	return &InMemoryCache{
		records:  make(map[string]cachedRecord),
		cacheTTL: cacheTTL,
	}
}

func cacheKey(country domain.CountryCode, nationalID string) string {
	return string(country) + "#" + nationalID
}

// Save stores a registry record, keyed by (country, national ID).
func (c *InMemoryCache) Save(_ context.Context, country domain.CountryCode, record domain.RegistryRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[cacheKey(country, record.NationalID)] = cachedRecord{record: record, storedAt: time.Now()}
	return nil
}

// Find retrieves a cached record. Returns ErrNotFound if the record does not
// exist or has expired past the cache TTL.
func (c *InMemoryCache) Find(_ context.Context, country domain.CountryCode, nationalID string) (*domain.RegistryRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if cached, ok := c.records[cacheKey(country, nationalID)]; ok {
		if time.Since(cached.storedAt) < c.cacheTTL {
			record := cached.record
			return &record, nil
		}
	}
	return nil, ErrNotFound
}
