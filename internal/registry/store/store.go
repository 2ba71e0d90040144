// Package store caches registry records between verification attempts.
// Caching is an optimization only: cache failures degrade to a direct
// registry lookup and negative results are never cached.
package store

import (
	"context"

	"nordkyc/internal/domain"
	pkgerrors "nordkyc/pkg/domain-errors"
)

// ErrNotFound is returned when a record is absent or expired.
var ErrNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "record not cached")

// Cache stores registry records keyed by (country, national ID).
type Cache interface {
	Save(ctx context.Context, country domain.CountryCode, record domain.RegistryRecord) error
	Find(ctx context.Context, country domain.CountryCode, nationalID string) (*domain.RegistryRecord, error)
}
