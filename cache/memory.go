// api/cache/memory.go
package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryStore is an in-process Store backed by a fixed-size LRU cache.
// Eviction policy and locking come from the LRU library; this type only
// adapts its surface to the Store contract.
type MemoryStore struct {
	entries *lru.Cache[string, []byte]
}

func NewMemoryStore(maxEntries int) (*MemoryStore, error) {
	entries, err := lru.New[string, []byte](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru cache: %w", err)
	}
	return &MemoryStore{entries: entries}, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := s.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	return value, true, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	s.entries.Add(key, value)
	return nil
}

func (s *MemoryStore) Evict(_ context.Context, key string) error {
	s.entries.Remove(key)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.entries.Purge()
	return nil
}

// Len reports how many entries the store currently holds.
func (s *MemoryStore) Len() int {
	return s.entries.Len()
}

var _ Store = (*MemoryStore)(nil)
