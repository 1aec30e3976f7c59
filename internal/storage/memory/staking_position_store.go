package memory

import (
	"context"
	"sort"
	"sync"

	"pump-token-core/internal/domain"
	"pump-token-core/internal/storage"
)

// StakingPositionStore is an in-memory implementation of storage.StakingPositionStore.
type StakingPositionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.StakingPosition // keyed by address
}

// NewStakingPositionStore creates a new in-memory staking position store.
func NewStakingPositionStore() *StakingPositionStore {
	return &StakingPositionStore{
		data: make(map[string]*domain.StakingPosition),
	}
}

// Insert adds a new position. Returns ErrDuplicateKey if the address exists.
func (s *StakingPositionStore) Insert(_ context.Context, p *domain.StakingPosition) error {
	if p == nil || p.Address == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.Address]; exists {
		return storage.ErrDuplicateKey
	}

	positionCopy := *p
	s.data[p.Address] = &positionCopy
	return nil
}

// Get retrieves a position by address. Returns ErrNotFound if not exists.
func (s *StakingPositionStore) Get(_ context.Context, address string) (*domain.StakingPosition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[address]
	if !exists {
		return nil, storage.ErrNotFound
	}

	positionCopy := *p
	return &positionCopy, nil
}

// Update replaces an existing position. Returns ErrNotFound if not exists.
func (s *StakingPositionStore) Update(_ context.Context, p *domain.StakingPosition) error {
	if p == nil || p.Address == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.Address]; !exists {
		return storage.ErrNotFound
	}

	positionCopy := *p
	s.data[p.Address] = &positionCopy
	return nil
}

// GetByPool retrieves all positions for a pool, ordered by start_time ASC.
func (s *StakingPositionStore) GetByPool(_ context.Context, pool string) ([]*domain.StakingPosition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.StakingPosition
	for _, p := range s.data {
		if p.Pool == pool {
			positionCopy := *p
			result = append(result, &positionCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime < result[j].StartTime
	})

	return result, nil
}

var _ storage.StakingPositionStore = (*StakingPositionStore)(nil)
