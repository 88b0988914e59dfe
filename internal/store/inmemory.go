package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// InMemoryStore is a simple in-process store for tests. Documents round-trip
// through JSON so it exercises the same serialization path as the durable
// backends.
type InMemoryStore struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{docs: make(map[string][]byte)}
}

func (s *InMemoryStore) LoadTable(_ context.Context, table string, dest any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.docs[table]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode %s: %w", table, err)
	}
	return nil
}

func (s *InMemoryStore) SaveTable(_ context.Context, table string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", table, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[table] = raw
	return nil
}

func (s *InMemoryStore) Close() error { return nil }

// SaveCount reports how many tables currently hold a document.
func (s *InMemoryStore) SaveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}
