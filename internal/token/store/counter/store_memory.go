// Package counter owns the token id allocator: a persisted scalar that is the
// only source of token ids in the system. IDs are 1-based, contiguous, and
// never reused, including across burns.
package counter

import (
	"context"
	"sync"

	id "geostake/pkg/domain"
)

// Store allocates token ids and reports the last one handed out.
type Store interface {
	// Next increments the counter and returns the post-increment value.
	Next(ctx context.Context) (id.TokenID, error)
	// Last returns the most recently allocated id, 0 before the first mint.
	Last(ctx context.Context) (id.TokenID, error)
}

// InMemoryStore keeps the counter in process memory for tests and
// single-node development runs.
type InMemoryStore struct {
	mu   sync.Mutex
	last uint64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Next(_ context.Context) (id.TokenID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last++
	return id.TokenID(s.last), nil
}

func (s *InMemoryStore) Last(_ context.Context) (id.TokenID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return id.TokenID(s.last), nil
}
