// Package staking owns fixed-term positions: tokens are escrowed for a
// pool-defined duration and pay a flat basis-point reward at maturity.
// Escrow movements go through the token program in base units; pool and
// position records are persisted only after the transfer succeeds.
package staking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pump-token-core/internal/addressing"
	"pump-token-core/internal/authz"
	"pump-token-core/internal/checked"
	"pump-token-core/internal/domain"
	"pump-token-core/internal/events"
	"pump-token-core/internal/external"
	"pump-token-core/internal/storage"
)

// Engine implements the staking operations.
type Engine struct {
	tokens    storage.TokenStore
	pools     storage.StakingPoolStore
	positions storage.StakingPositionStore
	program   external.TokenProgram
	sink      events.Sink
	nowFn     func() int64
}

// New creates a staking engine.
func New(tokens storage.TokenStore, pools storage.StakingPoolStore, positions storage.StakingPositionStore, program external.TokenProgram, sink events.Sink) *Engine {
	return &Engine{
		tokens:    tokens,
		pools:     pools,
		positions: positions,
		program:   program,
		sink:      sink,
		nowFn:     func() int64 { return time.Now().Unix() },
	}
}

// WithClock overrides the engine clock. Each request reads it once.
func (e *Engine) WithClock(nowFn func() int64) *Engine {
	e.nowFn = nowFn
	return e
}

// CreatePool configures the staking pool for a token. Admin only; one
// pool per token.
func (e *Engine) CreatePool(ctx context.Context, tokenAddr, caller string, duration int64, rewardRateBps uint16) (*domain.StakingPool, error) {
	if duration <= 0 {
		return nil, domain.ErrInvalidDuration
	}
	if rewardRateBps == 0 || rewardRateBps > domain.MaxRewardRateBps {
		return nil, domain.ErrInvalidRewardRate
	}

	token, err := e.loadToken(ctx, tokenAddr)
	if err != nil {
		return nil, err
	}
	if err := authz.Require(authz.OpCreateStakingPool, token, caller); err != nil {
		return nil, err
	}

	pool := &domain.StakingPool{
		Address:       addressing.StakingPool(token.Address),
		Token:         token.Address,
		Duration:      duration,
		RewardRateBps: rewardRateBps,
		TotalStaked:   0,
		TotalRewards:  0,
		Active:        true,
	}

	if err := e.pools.Insert(ctx, pool); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil, domain.ErrAlreadyInitialized
		}
		return nil, fmt.Errorf("insert staking pool: %w", err)
	}

	if err := e.sink.Emit(ctx, domain.StakingPoolCreated{
		Token:         token.Address,
		Duration:      duration,
		RewardRateBps: rewardRateBps,
	}); err != nil {
		return nil, err
	}

	return pool, nil
}

// Stake escrows amount tokens from owner into the pool. A second stake
// accumulates the position amount and restarts the lock from now.
func (e *Engine) Stake(ctx context.Context, poolAddr, owner string, amount uint64) (*domain.StakingPosition, error) {
	if amount == 0 {
		return nil, domain.ErrInvalidAmount
	}
	now := e.nowFn()

	pool, err := e.loadPool(ctx, poolAddr)
	if err != nil {
		return nil, err
	}
	if !pool.Active {
		return nil, domain.ErrStakingNotActive
	}
	token, err := e.loadToken(ctx, pool.Token)
	if err != nil {
		return nil, err
	}

	positionAddr := addressing.StakingPosition(pool.Address, owner)
	position, err := e.positions.Get(ctx, positionAddr)
	newPosition := false
	switch {
	case err == nil:
		if position.Claimed {
			return nil, domain.ErrAlreadyClaimed
		}
	case errors.Is(err, storage.ErrNotFound):
		newPosition = true
		position = &domain.StakingPosition{
			Address: positionAddr,
			Owner:   owner,
			Pool:    pool.Address,
		}
	default:
		return nil, fmt.Errorf("load position: %w", err)
	}

	position.Amount, err = checked.Add(position.Amount, amount)
	if err != nil {
		return nil, err
	}
	position.StartTime = now
	position.EndTime, err = checked.AddInt64(now, pool.Duration)
	if err != nil {
		return nil, err
	}
	pool.TotalStaked, err = checked.Add(pool.TotalStaked, amount)
	if err != nil {
		return nil, err
	}

	baseUnits, err := e.baseUnits(token, amount)
	if err != nil {
		return nil, err
	}
	escrow := addressing.EscrowAccount(pool.Address)
	if err := e.program.Transfer(ctx, owner, escrow, owner, baseUnits); err != nil {
		return nil, fmt.Errorf("transfer to escrow: %w", err)
	}

	if newPosition {
		err = e.positions.Insert(ctx, position)
	} else {
		err = e.positions.Update(ctx, position)
	}
	if err != nil {
		return nil, fmt.Errorf("persist position: %w", err)
	}
	if err := e.pools.Update(ctx, pool); err != nil {
		return nil, fmt.Errorf("update staking pool: %w", err)
	}

	if err := e.sink.Emit(ctx, domain.TokenStaked{
		Token:   pool.Token,
		Owner:   owner,
		Amount:  amount,
		EndTime: position.EndTime,
	}); err != nil {
		return nil, err
	}

	return position, nil
}

// Claim pays out a matured position: principal plus
// floor(amount*reward_rate/10000), transferred from escrow to the owner.
// One-shot per position.
func (e *Engine) Claim(ctx context.Context, poolAddr, owner string) (uint64, error) {
	now := e.nowFn()

	pool, err := e.loadPool(ctx, poolAddr)
	if err != nil {
		return 0, err
	}
	token, err := e.loadToken(ctx, pool.Token)
	if err != nil {
		return 0, err
	}

	position, err := e.positions.Get(ctx, addressing.StakingPosition(pool.Address, owner))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, domain.ErrNotInitialized
		}
		return 0, fmt.Errorf("load position: %w", err)
	}
	if position.Claimed {
		return 0, domain.ErrAlreadyClaimed
	}
	if now < position.EndTime {
		return 0, domain.ErrStakingPeriodNotEnded
	}

	rewardTimesRate, err := checked.Mul(position.Amount, uint64(pool.RewardRateBps))
	if err != nil {
		return 0, err
	}
	reward, err := checked.Div(rewardTimesRate, domain.BpsDenominator)
	if err != nil {
		return 0, err
	}
	payout, err := checked.Add(position.Amount, reward)
	if err != nil {
		return 0, err
	}

	pool.TotalStaked, err = checked.Sub(pool.TotalStaked, position.Amount)
	if err != nil {
		return 0, err
	}
	pool.TotalRewards, err = checked.Add(pool.TotalRewards, reward)
	if err != nil {
		return 0, err
	}

	baseUnits, err := e.baseUnits(token, payout)
	if err != nil {
		return 0, err
	}
	escrow := addressing.EscrowAccount(pool.Address)
	if err := e.program.Transfer(ctx, escrow, owner, token.Authority, baseUnits); err != nil {
		return 0, fmt.Errorf("transfer from escrow: %w", err)
	}

	position.Claimed = true
	if err := e.positions.Update(ctx, position); err != nil {
		return 0, fmt.Errorf("update position: %w", err)
	}
	if err := e.pools.Update(ctx, pool); err != nil {
		return 0, fmt.Errorf("update staking pool: %w", err)
	}

	if err := e.sink.Emit(ctx, domain.StakeClaimed{
		Token:  pool.Token,
		Owner:  owner,
		Amount: position.Amount,
		Reward: reward,
	}); err != nil {
		return 0, err
	}

	return reward, nil
}

// GetPool retrieves a staking pool by address.
func (e *Engine) GetPool(ctx context.Context, poolAddr string) (*domain.StakingPool, error) {
	return e.loadPool(ctx, poolAddr)
}

// GetPosition retrieves an owner's position in a pool.
func (e *Engine) GetPosition(ctx context.Context, poolAddr, owner string) (*domain.StakingPosition, error) {
	position, err := e.positions.Get(ctx, addressing.StakingPosition(poolAddr, owner))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("load position: %w", err)
	}
	return position, nil
}

// GetPositions retrieves all positions in a pool.
func (e *Engine) GetPositions(ctx context.Context, poolAddr string) ([]*domain.StakingPosition, error) {
	return e.positions.GetByPool(ctx, poolAddr)
}

func (e *Engine) loadPool(ctx context.Context, poolAddr string) (*domain.StakingPool, error) {
	pool, err := e.pools.Get(ctx, poolAddr)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("load staking pool: %w", err)
	}
	return pool, nil
}

func (e *Engine) loadToken(ctx context.Context, tokenAddr string) (*domain.Token, error) {
	token, err := e.tokens.Get(ctx, tokenAddr)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("load token: %w", err)
	}
	return token, nil
}

func (e *Engine) baseUnits(token *domain.Token, amount uint64) (uint64, error) {
	scale, err := checked.Pow10(token.Decimals)
	if err != nil {
		return 0, err
	}
	return checked.Mul(amount, scale)
}
