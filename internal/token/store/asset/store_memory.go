// Package asset persists token records keyed by token id. The store performs
// no validation; all invariant enforcement lives in the lifecycle service.
package asset

import (
	"context"
	"sync"

	"geostake/internal/token/models"
	id "geostake/pkg/domain"
	"geostake/pkg/platform/sentinel"
)

// Store is the asset-record table: token id → record.
type Store interface {
	Save(ctx context.Context, record *models.AssetRecord) error
	FindByID(ctx context.Context, tokenID id.TokenID) (*models.AssetRecord, error)
	Delete(ctx context.Context, tokenID id.TokenID) error
}

// InMemoryStore keeps records in a map for tests and single-node runs.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.TokenID]models.AssetRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.TokenID]models.AssetRecord)}
}

func (s *InMemoryStore) Save(_ context.Context, record *models.AssetRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = *record
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, tokenID id.TokenID) (*models.AssetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.records[tokenID]; ok {
		// Copy out so callers cannot mutate stored state in place.
		return &record, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) Delete(_ context.Context, tokenID id.TokenID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[tokenID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.records, tokenID)
	return nil
}
