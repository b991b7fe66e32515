// Package ownership persists the ownership table: token id → owning identity.
// Exactly one owner per live token; the entry exists iff the asset record
// exists.
package ownership

import (
	"context"
	"sync"

	id "geostake/pkg/domain"
	"geostake/pkg/platform/sentinel"
)

// Store is the ownership table.
type Store interface {
	// Create inserts a new entry. Returns sentinel.ErrConflict when the token
	// already has an owner; mint never hits this because ids are
	// allocator-controlled.
	Create(ctx context.Context, tokenID id.TokenID, owner id.Identity) error
	// Reassign overwrites the owner of an existing entry.
	Reassign(ctx context.Context, tokenID id.TokenID, owner id.Identity) error
	FindByID(ctx context.Context, tokenID id.TokenID) (id.Identity, error)
	Delete(ctx context.Context, tokenID id.TokenID) error
}

// InMemoryStore keeps ownership entries in a map for tests and single-node runs.
type InMemoryStore struct {
	mu     sync.RWMutex
	owners map[id.TokenID]id.Identity
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{owners: make(map[id.TokenID]id.Identity)}
}

func (s *InMemoryStore) Create(_ context.Context, tokenID id.TokenID, owner id.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.owners[tokenID]; ok {
		return sentinel.ErrConflict
	}
	s.owners[tokenID] = owner
	return nil
}

func (s *InMemoryStore) Reassign(_ context.Context, tokenID id.TokenID, owner id.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.owners[tokenID]; !ok {
		return sentinel.ErrNotFound
	}
	s.owners[tokenID] = owner
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, tokenID id.TokenID) (id.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if owner, ok := s.owners[tokenID]; ok {
		return owner, nil
	}
	return "", sentinel.ErrNotFound
}

func (s *InMemoryStore) Delete(_ context.Context, tokenID id.TokenID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.owners[tokenID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.owners, tokenID)
	return nil
}
