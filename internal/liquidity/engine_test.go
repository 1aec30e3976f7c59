package liquidity

import (
	"context"
	"errors"
	"testing"

	"pump-token-core/internal/addressing"
	"pump-token-core/internal/domain"
	"pump-token-core/internal/events"
	"pump-token-core/internal/external/stub"
	"pump-token-core/internal/storage/memory"
)

const now = int64(1_700_000_000)

type fixture struct {
	engine  *Engine
	tokens  *memory.TokenStore
	value   *stub.ValueTransfer
	sink    *events.Memory
	token   *domain.Token
	records *memory.LiquidityRecordStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	configs := memory.NewLiquidityConfigStore()
	records := memory.NewLiquidityRecordStore()
	f := &fixture{
		tokens:  memory.NewTokenStore(),
		value:   stub.NewValueTransfer(),
		sink:    events.NewMemory(),
		records: records,
	}
	f.engine = New(f.tokens, configs, records, f.value, f.sink).
		WithClock(func() int64 { return now })

	f.token = &domain.Token{
		Address:     addressing.Token("mint1"),
		Mint:        "mint1",
		Authority:   "issuer",
		Admin:       "issuer",
		Treasury:    "vault",
		Initialized: true,
		CreatedAt:   now,
	}
	if err := f.tokens.Insert(context.Background(), f.token); err != nil {
		t.Fatalf("Seed token failed: %v", err)
	}
	return f
}

func initLiquidity(t *testing.T, f *fixture) *domain.LiquidityConfig {
	t.Helper()
	config, err := f.engine.Initialize(context.Background(), f.token.Address, "issuer", "amm-prog", "amm-pool")
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return config
}

func TestInitialize(t *testing.T) {
	f := newFixture(t)
	config := initLiquidity(t, f)

	if config.AMMProgram != "amm-prog" || config.PoolAddress != "amm-pool" || !config.Initialized {
		t.Errorf("Config mismatch: %+v", config)
	}
	if len(f.sink.ByKind(domain.KindLiquidityInitialized)) != 1 {
		t.Error("LiquidityInitialized not emitted")
	}

	// One-shot.
	_, err := f.engine.Initialize(context.Background(), f.token.Address, "issuer", "other", "other")
	if !errors.Is(err, domain.ErrAlreadyInitialized) {
		t.Errorf("Expected ErrAlreadyInitialized, got %v", err)
	}
}

func TestInitialize_Unauthorized(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Initialize(context.Background(), f.token.Address, "stranger", "p", "a")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized, got %v", err)
	}
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	initLiquidity(t, f)
	ctx := context.Background()

	record, err := f.engine.Create(ctx, f.token.Address, "issuer", 5000)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if record.Amount != 5000 || record.Destroyed || record.CreatedAt != now {
		t.Errorf("Record mismatch: %+v", record)
	}
	if bal := f.value.Balance("vault"); bal != domain.LiquidityFee {
		t.Errorf("Treasury did not receive the fee: %d", bal)
	}
	if len(f.sink.ByKind(domain.KindLiquidityCreated)) != 1 {
		t.Error("LiquidityCreated not emitted")
	}

	// A live record blocks a second create.
	_, err = f.engine.Create(ctx, f.token.Address, "issuer", 1)
	if !errors.Is(err, domain.ErrLiquidityAlreadyExists) {
		t.Errorf("Expected ErrLiquidityAlreadyExists, got %v", err)
	}
}

func TestCreate_RequiresConfig(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Create(context.Background(), f.token.Address, "issuer", 5000)
	if !errors.Is(err, domain.ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}
}

func TestCreate_TransferFailureLeavesNoRecord(t *testing.T) {
	f := newFixture(t)
	initLiquidity(t, f)
	ctx := context.Background()

	f.value.FailNext = errors.New("fee settlement failed")
	if _, err := f.engine.Create(ctx, f.token.Address, "issuer", 5000); err == nil {
		t.Fatal("Expected failure")
	}

	if _, err := f.records.Get(ctx, addressing.LiquidityRecord(f.token.Address)); err == nil {
		t.Error("Record persisted despite failed fee transfer")
	}
}

func TestDestroyAndRecreate(t *testing.T) {
	f := newFixture(t)
	initLiquidity(t, f)
	ctx := context.Background()

	if _, err := f.engine.Create(ctx, f.token.Address, "issuer", 5000); err != nil {
		t.Fatal(err)
	}

	if err := f.engine.Destroy(ctx, f.token.Address, "issuer"); err != nil {
		t.Fatalf("Destroy failed: %v", err)
	}

	evs := f.sink.ByKind(domain.KindLiquidityDestroyed)
	if len(evs) != 1 {
		t.Fatal("LiquidityDestroyed not emitted")
	}
	if ev := evs[0].(domain.LiquidityDestroyed); ev.Amount != 5000 {
		t.Errorf("Event amount mismatch: %+v", ev)
	}

	// A destroyed record cannot be destroyed again.
	if err := f.engine.Destroy(ctx, f.token.Address, "issuer"); !errors.Is(err, domain.ErrLiquidityNotExists) {
		t.Errorf("Expected ErrLiquidityNotExists, got %v", err)
	}

	// But it can be recreated, paying the fee again.
	record, err := f.engine.Create(ctx, f.token.Address, "issuer", 7000)
	if err != nil {
		t.Fatalf("Recreate failed: %v", err)
	}
	if record.Amount != 7000 || record.Destroyed {
		t.Errorf("Recreated record mismatch: %+v", record)
	}
	if bal := f.value.Balance("vault"); bal != 2*domain.LiquidityFee {
		t.Errorf("Treasury balance after two creates: %d", bal)
	}
}

func TestDestroy_NoRecord(t *testing.T) {
	f := newFixture(t)
	initLiquidity(t, f)

	err := f.engine.Destroy(context.Background(), f.token.Address, "issuer")
	if !errors.Is(err, domain.ErrLiquidityNotExists) {
		t.Errorf("Expected ErrLiquidityNotExists, got %v", err)
	}
}

func TestDestroy_Unauthorized(t *testing.T) {
	f := newFixture(t)
	initLiquidity(t, f)
	ctx := context.Background()

	if _, err := f.engine.Create(ctx, f.token.Address, "issuer", 5000); err != nil {
		t.Fatal(err)
	}
	if err := f.engine.Destroy(ctx, f.token.Address, "stranger"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized, got %v", err)
	}
}
