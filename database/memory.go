package database

import (
	"context"
	"sync"
)

// MemoryStore implements KeyValueStore with a map. It backs tests and the
// "memory" driver; nothing survives a restart.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get implements KeyValueStore.
func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.values == nil {
		return "", ErrClosed
	}
	val, ok := s.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

// Set implements KeyValueStore.
func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	return s.SetMany(ctx, map[string]string{key: value})
}

// Remove implements KeyValueStore.
func (s *MemoryStore) Remove(ctx context.Context, key string) error {
	return s.RemoveMany(ctx, key)
}

// SetMany implements KeyValueStore.
func (s *MemoryStore) SetMany(ctx context.Context, pairs map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.values == nil {
		return ErrClosed
	}
	for k, v := range pairs {
		s.values[k] = v
	}
	return nil
}

// RemoveMany implements KeyValueStore.
func (s *MemoryStore) RemoveMany(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.values == nil {
		return ErrClosed
	}
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

// Update implements KeyValueStore.
func (s *MemoryStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.values == nil {
		return ErrClosed
	}
	current, found := s.values[key]
	next, err := fn(current, found)
	if err != nil {
		return err
	}
	s.values[key] = next
	return nil
}

// Close implements KeyValueStore.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = nil
	return nil
}
