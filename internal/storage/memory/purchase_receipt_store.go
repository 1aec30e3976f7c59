package memory

import (
	"context"
	"sort"
	"sync"

	"pump-token-core/internal/domain"
	"pump-token-core/internal/storage"
)

// PurchaseReceiptStore is an in-memory implementation of storage.PurchaseReceiptStore.
type PurchaseReceiptStore struct {
	mu   sync.RWMutex
	data map[string]*domain.PurchaseReceipt // keyed by address
}

// NewPurchaseReceiptStore creates a new in-memory purchase receipt store.
func NewPurchaseReceiptStore() *PurchaseReceiptStore {
	return &PurchaseReceiptStore{
		data: make(map[string]*domain.PurchaseReceipt),
	}
}

// Insert adds a new receipt. Returns ErrDuplicateKey if the address exists.
func (s *PurchaseReceiptStore) Insert(_ context.Context, r *domain.PurchaseReceipt) error {
	if r == nil || r.Address == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.Address]; exists {
		return storage.ErrDuplicateKey
	}

	receiptCopy := *r
	s.data[r.Address] = &receiptCopy
	return nil
}

// Get retrieves a receipt by address. Returns ErrNotFound if not exists.
func (s *PurchaseReceiptStore) Get(_ context.Context, address string) (*domain.PurchaseReceipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[address]
	if !exists {
		return nil, storage.ErrNotFound
	}

	receiptCopy := *r
	return &receiptCopy, nil
}

// Update replaces an existing receipt. Returns ErrNotFound if not exists.
func (s *PurchaseReceiptStore) Update(_ context.Context, r *domain.PurchaseReceipt) error {
	if r == nil || r.Address == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.Address]; !exists {
		return storage.ErrNotFound
	}

	receiptCopy := *r
	s.data[r.Address] = &receiptCopy
	return nil
}

// GetBySale retrieves all receipts for a sale, ordered by created_at ASC.
func (s *PurchaseReceiptStore) GetBySale(_ context.Context, sale string) ([]*domain.PurchaseReceipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PurchaseReceipt
	for _, r := range s.data {
		if r.Sale == sale {
			receiptCopy := *r
			result = append(result, &receiptCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt < result[j].CreatedAt
	})

	return result, nil
}

var _ storage.PurchaseReceiptStore = (*PurchaseReceiptStore)(nil)
