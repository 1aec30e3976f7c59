package events

import (
	"context"
	"encoding/json"
	"testing"

	"pump-token-core/internal/domain"
	"pump-token-core/internal/storage/memory"
)

func TestMemory_EmitAndFilter(t *testing.T) {
	sink := NewMemory()
	ctx := context.Background()

	if err := sink.Emit(ctx, domain.TokenInitialized{Token: "t1", Name: "Pump"}); err != nil {
		t.Fatalf("Emit failed: %v", err)
	}
	if err := sink.Emit(ctx, domain.TokenMinted{Token: "t1", Amount: 500}); err != nil {
		t.Fatalf("Emit failed: %v", err)
	}

	if got := len(sink.Events()); got != 2 {
		t.Errorf("Expected 2 events, got %d", got)
	}

	minted := sink.ByKind(domain.KindTokenMinted)
	if len(minted) != 1 {
		t.Fatalf("Expected 1 TokenMinted, got %d", len(minted))
	}
	if minted[0].(domain.TokenMinted).Amount != 500 {
		t.Errorf("Amount mismatch")
	}
}

func TestStoreSink_FlattensEvent(t *testing.T) {
	store := memory.NewEventStore()
	sink := NewStoreSink(store)
	sink.nowFn = func() int64 { return 12345 }
	ctx := context.Background()

	err := sink.Emit(ctx, domain.StakeClaimed{Token: "t1", Owner: "o1", Amount: 1000, Reward: 50})
	if err != nil {
		t.Fatalf("Emit failed: %v", err)
	}

	records, err := store.GetByToken(ctx, "t1")
	if err != nil {
		t.Fatalf("GetByToken failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.Kind != domain.KindStakeClaimed {
		t.Errorf("Kind mismatch: got %s", rec.Kind)
	}
	if rec.EmittedAt != 12345 {
		t.Errorf("EmittedAt mismatch: got %d", rec.EmittedAt)
	}

	var body domain.StakeClaimed
	if err := json.Unmarshal([]byte(rec.Payload), &body); err != nil {
		t.Fatalf("Payload not valid JSON: %v", err)
	}
	if body.Reward != 50 {
		t.Errorf("Reward mismatch: got %d", body.Reward)
	}
}

func TestMulti_FirstFailureWins(t *testing.T) {
	good := NewMemory()
	failing := failingSink{}
	ctx := context.Background()

	multi := Multi{good, failing}
	err := multi.Emit(ctx, domain.TokenBurned{Token: "t1", Amount: 1})
	if err == nil {
		t.Fatal("Expected error from failing sink")
	}
	if len(good.Events()) != 1 {
		t.Errorf("First sink should have received the event")
	}
}

type failingSink struct{}

func (failingSink) Emit(context.Context, domain.Event) error {
	return context.DeadlineExceeded
}
