package memory

import (
	"context"
	"errors"
	"testing"

	"pump-token-core/internal/domain"
	"pump-token-core/internal/storage"
)

func TestTokenStore_InsertAndGet(t *testing.T) {
	store := NewTokenStore()
	ctx := context.Background()

	token := &domain.Token{
		Address:     "addr1",
		Mint:        "mint1",
		Authority:   "auth",
		Admin:       "auth",
		Treasury:    "auth",
		Decimals:    9,
		Initialized: true,
		Name:        "Pump",
		Symbol:      "PMP",
	}

	if err := store.Insert(ctx, token); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	result, err := store.Get(ctx, "addr1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if result.Mint != "mint1" {
		t.Errorf("Mint mismatch: got %s, want mint1", result.Mint)
	}
	if result.Decimals != 9 {
		t.Errorf("Decimals mismatch: got %d, want 9", result.Decimals)
	}
}

func TestTokenStore_DuplicateKey(t *testing.T) {
	store := NewTokenStore()
	ctx := context.Background()

	token := &domain.Token{Address: "addr1", Mint: "mint1"}

	if err := store.Insert(ctx, token); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, token)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestTokenStore_GetNotFound(t *testing.T) {
	store := NewTokenStore()

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestTokenStore_Update(t *testing.T) {
	store := NewTokenStore()
	ctx := context.Background()

	token := &domain.Token{Address: "addr1", Mint: "mint1", TotalSupply: 0}
	if err := store.Insert(ctx, token); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	token.TotalSupply = 1000
	if err := store.Update(ctx, token); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	result, _ := store.Get(ctx, "addr1")
	if result.TotalSupply != 1000 {
		t.Errorf("TotalSupply mismatch: got %d, want 1000", result.TotalSupply)
	}
}

func TestTokenStore_UpdateNotFound(t *testing.T) {
	store := NewTokenStore()

	err := store.Update(context.Background(), &domain.Token{Address: "missing"})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestTokenStore_CopyIsolation(t *testing.T) {
	store := NewTokenStore()
	ctx := context.Background()

	token := &domain.Token{Address: "addr1", TotalSupply: 10}
	if err := store.Insert(ctx, token); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// Mutating the returned copy must not affect the stored record.
	result, _ := store.Get(ctx, "addr1")
	result.TotalSupply = 999

	again, _ := store.Get(ctx, "addr1")
	if again.TotalSupply != 10 {
		t.Errorf("Stored record mutated through returned copy: got %d", again.TotalSupply)
	}
}
