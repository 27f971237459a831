// Package memory holds process-local implementations of the persistence
// ports. Nothing survives a restart.
package memory

import (
	"context"
	"sync"

	"github.com/schoolhub/school-console/internal/core/ports"
)

// StateStore is a mutex-guarded map.
type StateStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewStateStore() *StateStore {
	return &StateStore{values: make(map[string]string)}
}

func (s *StateStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *StateStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

func (s *StateStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}

// Ping always succeeds.
func (s *StateStore) Ping(context.Context) error { return nil }

var _ ports.PersistenceStore = (*StateStore)(nil)
