// Package registry verifies identity claims against per-country national
// registries. Registries are read-only collaborators; the bundled static
// implementations carry deterministic reference data and a configurable
// latency to mimic real-world calls.
package registry

import (
	"context"
	"time"

	"nordkyc/internal/domain"
	pkgerrors "nordkyc/pkg/domain-errors"
)

// ErrNotFound keeps registry and cache 404s consistent across implementations.
var ErrNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "record not found")

// Client queries one country's registry by exact national ID.
type Client interface {
	Lookup(ctx context.Context, nationalID string) (*domain.RegistryRecord, error)
}

// Clients maps each supported country to its registry collaborator.
type Clients map[domain.CountryCode]Client

// StaticClient serves lookups from a fixed record table.
type StaticClient struct {
	Latency time.Duration
	records map[string]domain.RegistryRecord
}

// NewStaticClient builds a registry from seed records, keyed by national ID.
func NewStaticClient(records []domain.RegistryRecord) *StaticClient {
	table := make(map[string]domain.RegistryRecord, len(records))
	for _, r := range records {
		table[r.NationalID] = r
	}
	return &StaticClient{records: table}
}

func (c *StaticClient) Lookup(_ context.Context, nationalID string) (*domain.RegistryRecord, error) {
	time.Sleep(c.Latency)
	if record, ok := c.records[nationalID]; ok {
		return &record, nil
	}
	return nil, ErrNotFound
}
