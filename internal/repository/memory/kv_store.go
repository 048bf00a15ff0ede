package memory

import (
	"context"
	"sync"

	"github.com/mhyu96-glitch/finance-app/internal/domain"
)

// KVStore is an in-memory domain.KeyValueStore. Values are copied on the
// way in and out so callers cannot alias stored bytes.
type KVStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

var _ domain.KeyValueStore = (*KVStore)(nil)

// NewKVStore creates an empty KVStore
func NewKVStore() *KVStore {
	return &KVStore{values: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key
func (s *KVStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return clone(v), true, nil
}

// Set stores value under key
func (s *KVStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = clone(value)
	return nil
}

// SetMany stores every entry under a single lock
func (s *KVStore) SetMany(_ context.Context, entries map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range entries {
		s.values[k] = clone(v)
	}
	return nil
}

// Delete removes key; deleting a missing key is not an error
func (s *KVStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

// Len returns the number of stored keys
func (s *KVStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
