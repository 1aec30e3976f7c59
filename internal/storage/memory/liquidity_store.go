package memory

import (
	"context"
	"sync"

	"pump-token-core/internal/domain"
	"pump-token-core/internal/storage"
)

// LiquidityConfigStore is an in-memory implementation of storage.LiquidityConfigStore.
type LiquidityConfigStore struct {
	mu   sync.RWMutex
	data map[string]*domain.LiquidityConfig // keyed by address
}

// NewLiquidityConfigStore creates a new in-memory liquidity config store.
func NewLiquidityConfigStore() *LiquidityConfigStore {
	return &LiquidityConfigStore{
		data: make(map[string]*domain.LiquidityConfig),
	}
}

// Insert adds a new config. Returns ErrDuplicateKey if the address exists.
func (s *LiquidityConfigStore) Insert(_ context.Context, c *domain.LiquidityConfig) error {
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

// Get retrieves a config by address. Returns ErrNotFound if not exists.
func (s *LiquidityConfigStore) Get(_ context.Context, address string) (*domain.LiquidityConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.data[address]
	if !exists {
		return nil, storage.ErrNotFound
	}

	configCopy := *c
	return &configCopy, nil
}

var _ storage.LiquidityConfigStore = (*LiquidityConfigStore)(nil)

// LiquidityRecordStore is an in-memory implementation of storage.LiquidityRecordStore.
type LiquidityRecordStore struct {
	mu   sync.RWMutex
	data map[string]*domain.LiquidityRecord // keyed by address
}

// NewLiquidityRecordStore creates a new in-memory liquidity record store.
func NewLiquidityRecordStore() *LiquidityRecordStore {
	return &LiquidityRecordStore{
		data: make(map[string]*domain.LiquidityRecord),
	}
}

// Insert adds a new record. Returns ErrDuplicateKey if the address exists.
func (s *LiquidityRecordStore) Insert(_ context.Context, r *domain.LiquidityRecord) error {
	if r == nil || r.Address == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.Address]; exists {
		return storage.ErrDuplicateKey
	}

	recordCopy := *r
	s.data[r.Address] = &recordCopy
	return nil
}

// Get retrieves a record by address. Returns ErrNotFound if not exists.
func (s *LiquidityRecordStore) Get(_ context.Context, address string) (*domain.LiquidityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[address]
	if !exists {
		return nil, storage.ErrNotFound
	}

	recordCopy := *r
	return &recordCopy, nil
}

// Update replaces an existing record. Returns ErrNotFound if not exists.
func (s *LiquidityRecordStore) Update(_ context.Context, r *domain.LiquidityRecord) error {
	if r == nil || r.Address == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.Address]; !exists {
		return storage.ErrNotFound
	}

	recordCopy := *r
	s.data[r.Address] = &recordCopy
	return nil
}

var _ storage.LiquidityRecordStore = (*LiquidityRecordStore)(nil)
