package staking

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

const (
	now      = int64(1_700_000_000)
	duration = int64(86400)
)

type fixture struct {
	engine    *Engine
	tokens    *memory.TokenStore
	pools     *memory.StakingPoolStore
	positions *memory.StakingPositionStore
	program   *stub.TokenProgram
	sink      *events.Memory
	token     *domain.Token
	clock     int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		tokens:    memory.NewTokenStore(),
		pools:     memory.NewStakingPoolStore(),
		positions: memory.NewStakingPositionStore(),
		program:   stub.NewTokenProgram(),
		sink:      events.NewMemory(),
		clock:     now,
	}
	f.engine = New(f.tokens, f.pools, f.positions, f.program, f.sink).
		WithClock(func() int64 { return f.clock })

	f.token = &domain.Token{
		Address:     addressing.Token("mint1"),
		Mint:        "mint1",
		Authority:   "issuer",
		Admin:       "issuer",
		Treasury:    "vault",
		Decimals:    0,
		Initialized: true,
		CreatedAt:   now,
	}
	if err := f.tokens.Insert(context.Background(), f.token); err != nil {
		t.Fatalf("Seed token failed: %v", err)
	}
	return f
}

func createPool(t *testing.T, f *fixture) *domain.StakingPool {
	t.Helper()
	pool, err := f.engine.CreatePool(context.Background(), f.token.Address, "issuer", duration, 500)
	if err != nil {
		t.Fatalf("CreatePool failed: %v", err)
	}
	return pool
}

func TestCreatePool(t *testing.T) {
	f := newFixture(t)
	pool := createPool(t, f)

	if !pool.Active || pool.TotalStaked != 0 || pool.TotalRewards != 0 {
		t.Errorf("Unexpected initial state: %+v", pool)
	}
	if pool.Duration != duration || pool.RewardRateBps != 500 {
		t.Errorf("Pool config mismatch: %+v", pool)
	}
	if len(f.sink.ByKind(domain.KindStakingPoolCreated)) != 1 {
		t.Error("StakingPoolCreated not emitted")
	}
}

func TestCreatePool_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.engine.CreatePool(ctx, f.token.Address, "issuer", 0, 500); !errors.Is(err, domain.ErrInvalidDuration) {
		t.Errorf("Expected ErrInvalidDuration, got %v", err)
	}
	if _, err := f.engine.CreatePool(ctx, f.token.Address, "issuer", duration, 0); !errors.Is(err, domain.ErrInvalidRewardRate) {
		t.Errorf("Expected ErrInvalidRewardRate, got %v", err)
	}
	if _, err := f.engine.CreatePool(ctx, f.token.Address, "issuer", duration, domain.MaxRewardRateBps+1); !errors.Is(err, domain.ErrInvalidRewardRate) {
		t.Errorf("Expected ErrInvalidRewardRate, got %v", err)
	}
	if _, err := f.engine.CreatePool(ctx, f.token.Address, "stranger", duration, 500); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized, got %v", err)
	}

	createPool(t, f)
	if _, err := f.engine.CreatePool(ctx, f.token.Address, "issuer", duration, 500); !errors.Is(err, domain.ErrAlreadyInitialized) {
		t.Errorf("Expected ErrAlreadyInitialized, got %v", err)
	}
}

func TestStake(t *testing.T) {
	f := newFixture(t)
	pool := createPool(t, f)
	ctx := context.Background()

	f.program.SetBalance("mint1", "owner1", 2000)

	position, err := f.engine.Stake(ctx, pool.Address, "owner1", 1000)
	if err != nil {
		t.Fatalf("Stake failed: %v", err)
	}

	if position.Amount != 1000 || position.StartTime != now || position.EndTime != now+duration {
		t.Errorf("Position mismatch: %+v", position)
	}

	got, _ := f.pools.Get(ctx, pool.Address)
	if got.TotalStaked != 1000 {
		t.Errorf("TotalStaked: got %d, want 1000", got.TotalStaked)
	}

	escrow := addressing.EscrowAccount(pool.Address)
	if bal := f.program.Balance("mint1", escrow); bal != 1000 {
		t.Errorf("Escrow balance: got %d, want 1000", bal)
	}
	if bal := f.program.Balance("mint1", "owner1"); bal != 1000 {
		t.Errorf("Owner balance: got %d, want 1000", bal)
	}

	evs := f.sink.ByKind(domain.KindTokenStaked)
	if len(evs) != 1 {
		t.Fatal("TokenStaked not emitted")
	}
	if ev := evs[0].(domain.TokenStaked); ev.EndTime != now+duration {
		t.Errorf("Event EndTime mismatch: %+v", ev)
	}
}

func TestStake_AccumulatesAndExtends(t *testing.T) {
	f := newFixture(t)
	pool := createPool(t, f)
	ctx := context.Background()

	if _, err := f.engine.Stake(ctx, pool.Address, "owner1", 600); err != nil {
		t.Fatal(err)
	}

	f.clock = now + 1000
	position, err := f.engine.Stake(ctx, pool.Address, "owner1", 400)
	if err != nil {
		t.Fatal(err)
	}

	if position.Amount != 1000 {
		t.Errorf("Amount not accumulated: %d", position.Amount)
	}
	// The lock restarts from the second stake.
	if position.EndTime != now+1000+duration {
		t.Errorf("EndTime not extended: got %d, want %d", position.EndTime, now+1000+duration)
	}

	got, _ := f.pools.Get(ctx, pool.Address)
	if got.TotalStaked != 1000 {
		t.Errorf("TotalStaked: got %d, want 1000", got.TotalStaked)
	}
}

func TestStake_Guards(t *testing.T) {
	f := newFixture(t)
	pool := createPool(t, f)
	ctx := context.Background()

	if _, err := f.engine.Stake(ctx, pool.Address, "owner1", 0); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
	if _, err := f.engine.Stake(ctx, "missing", "owner1", 1); !errors.Is(err, domain.ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}
}

func TestStake_TransferFailureLeavesStateUnchanged(t *testing.T) {
	f := newFixture(t)
	pool := createPool(t, f)
	ctx := context.Background()

	f.program.FailNext = errors.New("program error")
	if _, err := f.engine.Stake(ctx, pool.Address, "owner1", 100); err == nil {
		t.Fatal("Expected failure")
	}

	got, _ := f.pools.Get(ctx, pool.Address)
	if got.TotalStaked != 0 {
		t.Errorf("TotalStaked mutated despite failed transfer: %d", got.TotalStaked)
	}
	if _, err := f.positions.Get(ctx, addressing.StakingPosition(pool.Address, "owner1")); err == nil {
		t.Error("Position persisted despite failed transfer")
	}
}

func TestClaim(t *testing.T) {
	f := newFixture(t)
	pool := createPool(t, f)
	ctx := context.Background()

	f.program.SetBalance("mint1", "owner1", 1000)
	if _, err := f.engine.Stake(ctx, pool.Address, "owner1", 1000); err != nil {
		t.Fatal(err)
	}

	f.clock = now + duration
	reward, err := f.engine.Claim(ctx, pool.Address, "owner1")
	if err != nil {
		t.Fatalf("Claim failed: %v", err)
	}

	// 1000 at 500 bps pays 50.
	if reward != 50 {
		t.Errorf("Reward: got %d, want 50", reward)
	}
	if bal := f.program.Balance("mint1", "owner1"); bal != 1050 {
		t.Errorf("Owner balance: got %d, want 1050", bal)
	}

	got, _ := f.pools.Get(ctx, pool.Address)
	if got.TotalStaked != 0 {
		t.Errorf("TotalStaked: got %d, want 0", got.TotalStaked)
	}
	if got.TotalRewards != 50 {
		t.Errorf("TotalRewards: got %d, want 50", got.TotalRewards)
	}

	position, _ := f.engine.GetPosition(ctx, pool.Address, "owner1")
	if !position.Claimed {
		t.Error("Position not marked claimed")
	}

	evs := f.sink.ByKind(domain.KindStakeClaimed)
	if len(evs) != 1 {
		t.Fatal("StakeClaimed not emitted")
	}
	if ev := evs[0].(domain.StakeClaimed); ev.Amount != 1000 || ev.Reward != 50 {
		t.Errorf("Event mismatch: %+v", ev)
	}

	// One-shot.
	if _, err := f.engine.Claim(ctx, pool.Address, "owner1"); !errors.Is(err, domain.ErrAlreadyClaimed) {
		t.Errorf("Expected ErrAlreadyClaimed, got %v", err)
	}
	// A claimed position cannot be staked into again.
	if _, err := f.engine.Stake(ctx, pool.Address, "owner1", 1); !errors.Is(err, domain.ErrAlreadyClaimed) {
		t.Errorf("Expected ErrAlreadyClaimed on re-stake, got %v", err)
	}
}

func TestClaim_RewardFloors(t *testing.T) {
	f := newFixture(t)
	pool := createPool(t, f)
	ctx := context.Background()

	// 19 at 500 bps is 0.95, floored to 0.
	if _, err := f.engine.Stake(ctx, pool.Address, "owner1", 19); err != nil {
		t.Fatal(err)
	}
	f.clock = now + duration
	reward, err := f.engine.Claim(ctx, pool.Address, "owner1")
	if err != nil {
		t.Fatal(err)
	}
	if reward != 0 {
		t.Errorf("Reward: got %d, want 0", reward)
	}
}

func TestClaim_BeforeMaturity(t *testing.T) {
	f := newFixture(t)
	pool := createPool(t, f)
	ctx := context.Background()

	if _, err := f.engine.Stake(ctx, pool.Address, "owner1", 100); err != nil {
		t.Fatal(err)
	}

	f.clock = now + duration - 1
	if _, err := f.engine.Claim(ctx, pool.Address, "owner1"); !errors.Is(err, domain.ErrStakingPeriodNotEnded) {
		t.Errorf("Expected ErrStakingPeriodNotEnded, got %v", err)
	}

	// Maturity boundary is inclusive.
	f.clock = now + duration
	if _, err := f.engine.Claim(ctx, pool.Address, "owner1"); err != nil {
		t.Errorf("Claim at end_time failed: %v", err)
	}
}

func TestClaim_NoPosition(t *testing.T) {
	f := newFixture(t)
	pool := createPool(t, f)

	_, err := f.engine.Claim(context.Background(), pool.Address, "nobody")
	if !errors.Is(err, domain.ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}
}

func TestGetPositions(t *testing.T) {
	f := newFixture(t)
	pool := createPool(t, f)
	ctx := context.Background()

	if _, err := f.engine.Stake(ctx, pool.Address, "owner1", 100); err != nil {
		t.Fatal(err)
	}
	if _, err := f.engine.Stake(ctx, pool.Address, "owner2", 200); err != nil {
		t.Fatal(err)
	}

	positions, err := f.engine.GetPositions(ctx, pool.Address)
	if err != nil {
		t.Fatalf("GetPositions failed: %v", err)
	}
	if len(positions) != 2 {
		t.Errorf("Expected 2 positions, got %d", len(positions))
	}
}
