// Package customer registers verified identities as customer records,
// exactly once per (country, national ID) key.
package customer

import (
	"context"

	"nordkyc/internal/domain"
	pkgerrors "nordkyc/pkg/domain-errors"
)

var (
	// ErrNotFound is returned when no customer exists for a key.
	ErrNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	// ErrAlreadyExists is returned when a conditional insert loses the race
	// for a key.
	ErrAlreadyExists = pkgerrors.New(pkgerrors.CodeConflict, "customer already exists")
)

// Store persists customer records. Insert is conditional on the key being
// absent; losing writers receive ErrAlreadyExists and must re-read.
type Store interface {
	FindByKey(ctx context.Context, key domain.CustomerKey) (*domain.CustomerRecord, error)
	Insert(ctx context.Context, record domain.CustomerRecord) error
}
