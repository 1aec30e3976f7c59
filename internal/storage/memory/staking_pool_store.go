package memory

import (
	"context"
	"sync"

	"pump-token-core/internal/domain"
	"pump-token-core/internal/storage"
)

// StakingPoolStore is an in-memory implementation of storage.StakingPoolStore.
type StakingPoolStore struct {
	mu   sync.RWMutex
	data map[string]*domain.StakingPool // keyed by address
}

// NewStakingPoolStore creates a new in-memory staking pool store.
func NewStakingPoolStore() *StakingPoolStore {
	return &StakingPoolStore{
		data: make(map[string]*domain.StakingPool),
	}
}

// Insert adds a new pool. Returns ErrDuplicateKey if the address exists.
func (s *StakingPoolStore) Insert(_ context.Context, p *domain.StakingPool) error {
	if p == nil || p.Address == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.Address]; exists {
		return storage.ErrDuplicateKey
	}

	poolCopy := *p
	s.data[p.Address] = &poolCopy
	return nil
}

// Get retrieves a pool by address. Returns ErrNotFound if not exists.
func (s *StakingPoolStore) Get(_ context.Context, address string) (*domain.StakingPool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[address]
	if !exists {
		return nil, storage.ErrNotFound
	}

	poolCopy := *p
	return &poolCopy, nil
}

// Update replaces an existing pool. Returns ErrNotFound if not exists.
func (s *StakingPoolStore) Update(_ context.Context, p *domain.StakingPool) error {
	if p == nil || p.Address == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.Address]; !exists {
		return storage.ErrNotFound
	}

	poolCopy := *p
	s.data[p.Address] = &poolCopy
	return nil
}

var _ storage.StakingPoolStore = (*StakingPoolStore)(nil)
