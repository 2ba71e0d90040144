package blob

import (
	"context"
	"strings"
	"sync"
	"time"
)

type object struct {
	data         []byte
	contentType  string
	lastModified time.Time
}

// InMemoryStore keeps objects in process memory. It intentionally favors
// clarity over performance and is the default store for tests and local runs.
type InMemoryStore struct {
	mu      sync.RWMutex
	buckets map[string]map[string]object

	// Now supplies object timestamps; overridable in tests.
	Now func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		buckets: make(map[string]map[string]object),
		Now:     time.Now,
	}
}

func (s *InMemoryStore) Get(_ context.Context, bucket, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if obj, ok := s.buckets[bucket][key]; ok {
		data := make([]byte, len(obj.data))
		copy(data, obj.data)
		return data, nil
	}
	return nil, ErrNotFound
}

func (s *InMemoryStore) Put(_ context.Context, bucket, key string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buckets[bucket] == nil {
		s.buckets[bucket] = make(map[string]object)
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	s.buckets[bucket][key] = object{data: stored, contentType: contentType, lastModified: s.Now()}
	return nil
}

func (s *InMemoryStore) List(_ context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var infos []ObjectInfo
	for key, obj := range s.buckets[bucket] {
		if strings.HasPrefix(key, prefix) {
			infos = append(infos, ObjectInfo{Key: key, LastModified: obj.lastModified})
		}
	}
	return infos, nil
}
