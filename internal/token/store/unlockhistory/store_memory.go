// Package unlockhistory persists the append-only unlock audit markers:
// (identity, token id) → true. Entries are never deleted, including after the
// token is burned; they are a permanent audit trail, not live state.
package unlockhistory

import (
	"context"
	"sync"

	id "geostake/pkg/domain"
)

// Store is the unlock-history table. There is intentionally no delete.
type Store interface {
	// Mark records that the identity has passed proximity verification for
	// the token. Idempotent.
	Mark(ctx context.Context, identity id.Identity, tokenID id.TokenID) error
	// Has reports whether the identity has ever unlocked the token.
	// Defaults to false; never fails on missing keys.
	Has(ctx context.Context, identity id.Identity, tokenID id.TokenID) (bool, error)
}

type key struct {
	identity id.Identity
	tokenID  id.TokenID
}

// InMemoryStore keeps unlock markers in a map for tests and single-node runs.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[key]bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[key]bool)}
}

func (s *InMemoryStore) Mark(_ context.Context, identity id.Identity, tokenID id.TokenID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key{identity: identity, tokenID: tokenID}] = true
	return nil
}

func (s *InMemoryStore) Has(_ context.Context, identity id.Identity, tokenID id.TokenID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[key{identity: identity, tokenID: tokenID}], nil
}
