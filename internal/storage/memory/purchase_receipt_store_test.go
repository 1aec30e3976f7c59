package memory

import (
	"context"
	"errors"
	"testing"

	"pump-token-core/internal/domain"
	"pump-token-core/internal/storage"
)

func TestPurchaseReceiptStore_InsertUpdateGet(t *testing.T) {
	store := NewPurchaseReceiptStore()
	ctx := context.Background()

	receipt := &domain.PurchaseReceipt{
		Address:    "r1",
		Sale:       "sale1",
		Buyer:      "buyer1",
		Amount:     500,
		PaidAmount: 50000,
		FeeAmount:  500,
		CreatedAt:  1000,
	}

	if err := store.Insert(ctx, receipt); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	receipt.Amount = 700
	receipt.PaidAmount = 70000
	if err := store.Update(ctx, receipt); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	result, err := store.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if result.Amount != 700 {
		t.Errorf("Amount mismatch: got %d, want 700", result.Amount)
	}
}

func TestPurchaseReceiptStore_GetBySale(t *testing.T) {
	store := NewPurchaseReceiptStore()
	ctx := context.Background()

	receipts := []*domain.PurchaseReceipt{
		{Address: "r1", Sale: "sale1", Buyer: "b1", CreatedAt: 3000},
		{Address: "r2", Sale: "sale1", Buyer: "b2", CreatedAt: 1000},
		{Address: "r3", Sale: "sale2", Buyer: "b1", CreatedAt: 2000},
	}
	for _, r := range receipts {
		if err := store.Insert(ctx, r); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	result, err := store.GetBySale(ctx, "sale1")
	if err != nil {
		t.Fatalf("GetBySale failed: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("Expected 2 receipts, got %d", len(result))
	}
	// Ordered by created_at ASC
	if result[0].Buyer != "b2" || result[1].Buyer != "b1" {
		t.Errorf("Wrong order: %s, %s", result[0].Buyer, result[1].Buyer)
	}
}

func TestPurchaseReceiptStore_DuplicateAndMissing(t *testing.T) {
	store := NewPurchaseReceiptStore()
	ctx := context.Background()

	r := &domain.PurchaseReceipt{Address: "r1", Sale: "sale1"}
	if err := store.Insert(ctx, r); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := store.Insert(ctx, r); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}

	if err := store.Update(ctx, &domain.PurchaseReceipt{Address: "missing"}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
