// Package liquidity owns the AMM escrow bookkeeping: a one-shot config
// naming the external AMM coordinates, and a per-token record that moves
// between existing and destroyed. Creating the record costs a flat fee
// paid from the admin to the treasury.
package liquidity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pump-token-core/internal/addressing"
	"pump-token-core/internal/authz"
	"pump-token-core/internal/domain"
	"pump-token-core/internal/events"
	"pump-token-core/internal/external"
	"pump-token-core/internal/storage"
)

// Engine implements the liquidity operations.
type Engine struct {
	tokens  storage.TokenStore
	configs storage.LiquidityConfigStore
	records storage.LiquidityRecordStore
	value   external.ValueTransfer
	sink    events.Sink
	nowFn   func() int64
}

// New creates a liquidity engine.
func New(tokens storage.TokenStore, configs storage.LiquidityConfigStore, records storage.LiquidityRecordStore, value external.ValueTransfer, sink events.Sink) *Engine {
	return &Engine{
		tokens:  tokens,
		configs: configs,
		records: records,
		value:   value,
		sink:    sink,
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// WithClock overrides the engine clock. Each request reads it once.
func (e *Engine) WithClock(nowFn func() int64) *Engine {
	e.nowFn = nowFn
	return e
}

// Initialize records the external AMM coordinates for a token. Admin
// only; one-shot, the coordinates never change afterwards.
func (e *Engine) Initialize(ctx context.Context, tokenAddr, caller, ammProgram, poolAddress string) (*domain.LiquidityConfig, error) {
	token, err := e.loadToken(ctx, tokenAddr)
	if err != nil {
		return nil, err
	}
	if err := authz.Require(authz.OpInitializeLiquidity, token, caller); err != nil {
		return nil, err
	}

	config := &domain.LiquidityConfig{
		Address:     addressing.LiquidityConfig(token.Address),
		Token:       token.Address,
		AMMProgram:  ammProgram,
		PoolAddress: poolAddress,
		Initialized: true,
	}

	if err := e.configs.Insert(ctx, config); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil, domain.ErrAlreadyInitialized
		}
		return nil, fmt.Errorf("insert liquidity config: %w", err)
	}

	if err := e.sink.Emit(ctx, domain.LiquidityInitialized{
		Token:       token.Address,
		AMMProgram:  ammProgram,
		PoolAddress: poolAddress,
	}); err != nil {
		return nil, err
	}

	return config, nil
}

// Create opens the liquidity record for a token. Admin only; the flat
// fee is transferred from the caller to the treasury before the record
// is persisted. Fails if a live record already exists; a destroyed
// record may be recreated.
func (e *Engine) Create(ctx context.Context, tokenAddr, caller string, amount uint64) (*domain.LiquidityRecord, error) {
	if amount == 0 {
		return nil, domain.ErrInvalidAmount
	}

	token, err := e.loadToken(ctx, tokenAddr)
	if err != nil {
		return nil, err
	}
	if err := authz.Require(authz.OpCreateLiquidity, token, caller); err != nil {
		return nil, err
	}
	if _, err := e.loadConfig(ctx, token.Address); err != nil {
		return nil, err
	}

	recordAddr := addressing.LiquidityRecord(token.Address)
	record, err := e.records.Get(ctx, recordAddr)
	fresh := false
	switch {
	case err == nil:
		if !record.Destroyed {
			return nil, domain.ErrLiquidityAlreadyExists
		}
	case errors.Is(err, storage.ErrNotFound):
		fresh = true
	default:
		return nil, fmt.Errorf("load liquidity record: %w", err)
	}

	if err := e.value.Transfer(ctx, caller, token.Treasury, domain.LiquidityFee); err != nil {
		return nil, fmt.Errorf("transfer liquidity fee: %w", err)
	}

	record = &domain.LiquidityRecord{
		Address:   recordAddr,
		Token:     token.Address,
		Amount:    amount,
		CreatedAt: e.nowFn(),
		Destroyed: false,
	}

	if fresh {
		err = e.records.Insert(ctx, record)
	} else {
		err = e.records.Update(ctx, record)
	}
	if err != nil {
		return nil, fmt.Errorf("persist liquidity record: %w", err)
	}

	if err := e.sink.Emit(ctx, domain.LiquidityCreated{
		Token:  token.Address,
		Amount: amount,
	}); err != nil {
		return nil, err
	}

	return record, nil
}

// Destroy retires the live liquidity record. Admin only; fails if no
// live record exists.
func (e *Engine) Destroy(ctx context.Context, tokenAddr, caller string) error {
	token, err := e.loadToken(ctx, tokenAddr)
	if err != nil {
		return err
	}
	if err := authz.Require(authz.OpDestroyLiquidity, token, caller); err != nil {
		return err
	}

	record, err := e.records.Get(ctx, addressing.LiquidityRecord(token.Address))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.ErrLiquidityNotExists
		}
		return fmt.Errorf("load liquidity record: %w", err)
	}
	if record.Destroyed {
		return domain.ErrLiquidityNotExists
	}

	record.Destroyed = true
	if err := e.records.Update(ctx, record); err != nil {
		return fmt.Errorf("update liquidity record: %w", err)
	}

	return e.sink.Emit(ctx, domain.LiquidityDestroyed{
		Token:  token.Address,
		Amount: record.Amount,
	})
}

// GetConfig retrieves the liquidity config for a token.
func (e *Engine) GetConfig(ctx context.Context, tokenAddr string) (*domain.LiquidityConfig, error) {
	return e.loadConfig(ctx, tokenAddr)
}

// GetRecord retrieves the liquidity record for a token.
func (e *Engine) GetRecord(ctx context.Context, tokenAddr string) (*domain.LiquidityRecord, error) {
	record, err := e.records.Get(ctx, addressing.LiquidityRecord(tokenAddr))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, domain.ErrLiquidityNotExists
		}
		return nil, fmt.Errorf("load liquidity record: %w", err)
	}
	return record, nil
}

func (e *Engine) loadConfig(ctx context.Context, tokenAddr string) (*domain.LiquidityConfig, error) {
	config, err := e.configs.Get(ctx, addressing.LiquidityConfig(tokenAddr))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("load liquidity config: %w", err)
	}
	return config, nil
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
