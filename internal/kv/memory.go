package kv

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store. It backs tests and the session-only
// fallback used when no durable backend can be opened.
type MemoryStore struct {
	mu       sync.Mutex
	values   map[string]string
	readErr  error
	writeErr error
}

// NewMemory returns an empty MemoryStore.
func NewMemory() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// FailReads makes every subsequent Get return err. Pass nil to clear.
func (s *MemoryStore) FailReads(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readErr = err
}

// FailWrites makes every subsequent Set and Delete return err. Pass nil to clear.
func (s *MemoryStore) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.readErr != nil {
		return "", false, s.readErr
	}
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return s.writeErr
	}
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return s.writeErr
	}
	delete(s.values, key)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
