// Package blob defines the object-store contract the pipeline uses for
// uploaded document images and extraction audit artifacts. Stores are
// interface-driven so the in-memory implementation can stand in for an
// external object store without rewiring business code.
package blob

import (
	"context"
	"time"

	pkgerrors "nordkyc/pkg/domain-errors"
)

// ErrNotFound keeps storage-specific 404s consistent across implementations.
var ErrNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "object not found")

// ObjectInfo describes a stored object for listing purposes.
type ObjectInfo struct {
	Key          string
	LastModified time.Time
}

// Store is the blob-store collaborator contract.
type Store interface {
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) error
	// List returns all objects under prefix, in no particular order.
	List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
}

// LatestKey returns the key of the most recently modified object in infos, or
// "" when the listing is empty. Used to locate the newest upload under a
// session-scoped prefix.
func LatestKey(infos []ObjectInfo) string {
	var newest ObjectInfo
	for _, info := range infos {
		if newest.Key == "" || info.LastModified.After(newest.LastModified) {
			newest = info
		}
	}
	return newest.Key
}
