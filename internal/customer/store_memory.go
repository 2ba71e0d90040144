package customer

import (
	"context"
	"sync"

	"nordkyc/internal/domain"
)

// InMemoryStore provides a mutex-guarded in-memory customer store. The
// check-and-set in Insert happens under one lock acquisition, giving the same
// atomicity as a database conditional write.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[domain.CustomerKey]domain.CustomerRecord
}

// NewInMemoryStore creates a new in-memory customer store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[domain.CustomerKey]domain.CustomerRecord)}
}

func (s *InMemoryStore) FindByKey(_ context.Context, key domain.CustomerKey) (*domain.CustomerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.records[key]; ok {
		return &record, nil
	}
	return nil, ErrNotFound
}

func (s *InMemoryStore) Insert(_ context.Context, record domain.CustomerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := record.Key()
	if _, ok := s.records[key]; ok {
		return ErrAlreadyExists
	}
	s.records[key] = record
	return nil
}
