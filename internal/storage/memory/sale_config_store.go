package memory

import (
	"context"
	"sort"
	"sync"

	"pump-token-core/internal/domain"
	"pump-token-core/internal/storage"
)

// SaleConfigStore is an in-memory implementation of storage.SaleConfigStore.
type SaleConfigStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SaleConfig // keyed by address
}

// NewSaleConfigStore creates a new in-memory sale config store.
func NewSaleConfigStore() *SaleConfigStore {
	return &SaleConfigStore{
		data: make(map[string]*domain.SaleConfig),
	}
}

// Insert adds a new sale config. Returns ErrDuplicateKey if the address exists.
func (s *SaleConfigStore) Insert(_ context.Context, c *domain.SaleConfig) error {
	if c == nil || c.Address == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[c.Address]; exists {
		return storage.ErrDuplicateKey
	}

	configCopy := *c
	s.data[c.Address] = &configCopy
	return nil
}

// Get retrieves a sale config by address. Returns ErrNotFound if not exists.
func (s *SaleConfigStore) Get(_ context.Context, address string) (*domain.SaleConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.data[address]
	if !exists {
		return nil, storage.ErrNotFound
	}

	configCopy := *c
	return &configCopy, nil
}

// Update replaces an existing sale config. Returns ErrNotFound if not exists.
func (s *SaleConfigStore) Update(_ context.Context, c *domain.SaleConfig) error {
	if c == nil || c.Address == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[c.Address]; !exists {
		return storage.ErrNotFound
	}

	configCopy := *c
	s.data[c.Address] = &configCopy
	return nil
}

// GetActive retrieves configs whose window contains now and whose active
// flag is set, ordered by start_time ASC.
func (s *SaleConfigStore) GetActive(_ context.Context, now int64) ([]*domain.SaleConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SaleConfig
	for _, c := range s.data {
		if c.Active && c.StartTime <= now && now <= c.EndTime {
			configCopy := *c
			result = append(result, &configCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime < result[j].StartTime
	})

	return result, nil
}

var _ storage.SaleConfigStore = (*SaleConfigStore)(nil)
