package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nordkyc/internal/domain"
)

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()
	record := domain.RegistryRecord{
		NationalID:  "123456-7890",
		FirstName:   "John",
		LastName:    "Doe",
		DateOfBirth: "1985-04-12",
	}

	t.Run("save and find", func(t *testing.T) {
		cache := NewInMemoryCache(time.Minute)
		require.NoError(t, cache.Save(ctx, domain.CountryDK, record))

		found, err := cache.Find(ctx, domain.CountryDK, "123456-7890")
		require.NoError(t, err)
		assert.Equal(t, record, *found)
	})

	t.Run("miss on unknown id", func(t *testing.T) {
		cache := NewInMemoryCache(time.Minute)

		_, err := cache.Find(ctx, domain.CountryDK, "000000-0000")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("entries are scoped by country", func(t *testing.T) {
		cache := NewInMemoryCache(time.Minute)
		require.NoError(t, cache.Save(ctx, domain.CountryDK, record))

		_, err := cache.Find(ctx, domain.CountrySE, "123456-7890")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("expired entries are misses", func(t *testing.T) {
		cache := NewInMemoryCache(-time.Second)
		require.NoError(t, cache.Save(ctx, domain.CountryDK, record))

		_, err := cache.Find(ctx, domain.CountryDK, "123456-7890")
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}
