package in_memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/auctionlab/market-compliance/internal/port"
)

// Store is a map-backed port.Store. Values are kept as marshaled JSON so
// readers never share live references with writers.
type Store struct {
	mu   sync.Mutex
	data map[string]json.RawMessage
}

var _ port.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{data: make(map[string]json.RawMessage)}
}

func (s *Store) Set(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = b
	return nil
}

func (s *Store) Get(ctx context.Context, key string, dest any) error {
	s.mu.Lock()
	b, ok := s.data[key]
	s.mu.Unlock()
	if !ok {
		return port.ErrKeyNotFound
	}
	return json.Unmarshal(b, dest)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
