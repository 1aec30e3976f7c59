package memory

import (
	"context"
	"testing"

	"pump-token-core/internal/domain"
)

func TestEventStore_InsertAndGetByToken(t *testing.T) {
	store := NewEventStore()
	ctx := context.Background()

	events := []*domain.EmittedEvent{
		{Kind: "TokenInitialized", Token: "t1", Payload: "{}", EmittedAt: 100},
		{Kind: "TokenPurchased", Token: "t1", Payload: "{}", EmittedAt: 200},
		{Kind: "TokenInitialized", Token: "t2", Payload: "{}", EmittedAt: 150},
	}
	for _, e := range events {
		if err := store.Insert(ctx, e); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	result, err := store.GetByToken(ctx, "t1")
	if err != nil {
		t.Fatalf("GetByToken failed: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(result))
	}
	if result[0].Kind != "TokenInitialized" || result[1].Kind != "TokenPurchased" {
		t.Errorf("Wrong order: %s, %s", result[0].Kind, result[1].Kind)
	}
}
