// Package ledger owns the per-token record: identity, supply counter,
// pause flag and role set. Supply only moves through checked arithmetic,
// and the external token program is invoked only after the local mutation
// succeeds on a working copy; the record is persisted last, so a failed
// external call leaves no partial state.
package ledger

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

// Engine implements the token ledger operations.
type Engine struct {
	tokens   storage.TokenStore
	program  external.TokenProgram
	registry external.MetadataRegistry
	sink     events.Sink
	nowFn    func() int64
}

// New creates a ledger engine.
func New(tokens storage.TokenStore, program external.TokenProgram, registry external.MetadataRegistry, sink events.Sink) *Engine {
	return &Engine{
		tokens:   tokens,
		program:  program,
		registry: registry,
		sink:     sink,
		nowFn:    func() int64 { return time.Now().Unix() },
	}
}

// WithClock overrides the engine clock. Each request reads it once.
func (e *Engine) WithClock(nowFn func() int64) *Engine {
	e.nowFn = nowFn
	return e
}

// InitializeParams are the inputs to Initialize.
type InitializeParams struct {
	Mint     string
	Caller   string
	Decimals uint8
	Name     string
	Symbol   string
	URI      string
}

// Initialize creates the ledger record for a mint. The caller becomes
// authority, admin and treasury. Fails with ErrAlreadyInitialized on a
// second call for the same mint.
func (e *Engine) Initialize(ctx context.Context, p InitializeParams) (*domain.Token, error) {
	if p.Decimals > domain.MaxDecimals {
		return nil, domain.ErrInvalidDecimals
	}
	if len(p.Name) > domain.MaxNameLen {
		return nil, domain.ErrNameTooLong
	}
	if len(p.Symbol) > domain.MaxSymbolLen {
		return nil, domain.ErrSymbolTooLong
	}
	if len(p.URI) > domain.MaxURILen {
		return nil, domain.ErrURITooLong
	}

	address := addressing.Token(p.Mint)
	if _, err := e.tokens.Get(ctx, address); err == nil {
		return nil, domain.ErrAlreadyInitialized
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("load token: %w", err)
	}

	token := &domain.Token{
		Address:     address,
		Mint:        p.Mint,
		Authority:   p.Caller,
		Admin:       p.Caller,
		Treasury:    p.Caller,
		Decimals:    p.Decimals,
		TotalSupply: 0,
		Initialized: true,
		Paused:      false,
		CreatedAt:   e.nowFn(),
		Name:        p.Name,
		Symbol:      p.Symbol,
		URI:         p.URI,
	}

	if err := e.registry.Create(ctx, p.Mint, p.Name, p.Symbol, p.URI, p.Caller); err != nil {
		return nil, fmt.Errorf("create metadata: %w", err)
	}

	if err := e.tokens.Insert(ctx, token); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil, domain.ErrAlreadyInitialized
		}
		return nil, fmt.Errorf("insert token: %w", err)
	}

	if err := e.sink.Emit(ctx, domain.TokenInitialized{
		Token:     token.Address,
		Mint:      token.Mint,
		Authority: token.Authority,
		Decimals:  token.Decimals,
		Name:      token.Name,
		Symbol:    token.Symbol,
		URI:       token.URI,
	}); err != nil {
		return nil, err
	}

	return token, nil
}

// UpdateMetadata replaces name/symbol/uri and pushes the change to the
// metadata registry. Admin only.
func (e *Engine) UpdateMetadata(ctx context.Context, tokenAddr, caller, name, symbol, uri string) error {
	if len(name) > domain.MaxNameLen {
		return domain.ErrNameTooLong
	}
	if len(symbol) > domain.MaxSymbolLen {
		return domain.ErrSymbolTooLong
	}
	if len(uri) > domain.MaxURILen {
		return domain.ErrURITooLong
	}

	token, err := e.load(ctx, tokenAddr)
	if err != nil {
		return err
	}
	if err := authz.Require(authz.OpUpdateMetadata, token, caller); err != nil {
		return err
	}

	token.Name = name
	token.Symbol = symbol
	token.URI = uri

	if err := e.registry.Update(ctx, token.Mint, name, symbol, uri); err != nil {
		return fmt.Errorf("update metadata: %w", err)
	}
	if err := e.tokens.Update(ctx, token); err != nil {
		return fmt.Errorf("update token: %w", err)
	}

	return e.sink.Emit(ctx, domain.TokenMetadataUpdated{
		Token:  token.Address,
		Name:   name,
		Symbol: symbol,
		URI:    uri,
	})
}

// UpdateAdmin rotates the admin key. Admin only.
func (e *Engine) UpdateAdmin(ctx context.Context, tokenAddr, caller, newAdmin string) error {
	token, err := e.load(ctx, tokenAddr)
	if err != nil {
		return err
	}
	if err := authz.Require(authz.OpUpdateAdmin, token, caller); err != nil {
		return err
	}

	oldAdmin := token.Admin
	token.Admin = newAdmin

	if err := e.tokens.Update(ctx, token); err != nil {
		return fmt.Errorf("update token: %w", err)
	}

	return e.sink.Emit(ctx, domain.AdminUpdated{
		Token:    token.Address,
		OldAdmin: oldAdmin,
		NewAdmin: newAdmin,
	})
}

// UpdateTreasury rotates the treasury key. Admin only.
func (e *Engine) UpdateTreasury(ctx context.Context, tokenAddr, caller, newTreasury string) error {
	token, err := e.load(ctx, tokenAddr)
	if err != nil {
		return err
	}
	if err := authz.Require(authz.OpUpdateTreasury, token, caller); err != nil {
		return err
	}

	oldTreasury := token.Treasury
	token.Treasury = newTreasury

	if err := e.tokens.Update(ctx, token); err != nil {
		return fmt.Errorf("update token: %w", err)
	}

	return e.sink.Emit(ctx, domain.TreasuryUpdated{
		Token:       token.Address,
		OldTreasury: oldTreasury,
		NewTreasury: newTreasury,
	})
}

// Pause halts supply changes. Authority only; fails with ErrAlreadyPaused
// if the flag is already set.
func (e *Engine) Pause(ctx context.Context, tokenAddr, caller string) error {
	token, err := e.load(ctx, tokenAddr)
	if err != nil {
		return err
	}
	if token.Paused {
		return domain.ErrAlreadyPaused
	}
	if err := authz.Require(authz.OpPause, token, caller); err != nil {
		return err
	}

	token.Paused = true
	if err := e.tokens.Update(ctx, token); err != nil {
		return fmt.Errorf("update token: %w", err)
	}
	return nil
}

// Unpause resumes supply changes. Authority only; fails with ErrNotPaused
// if the flag is already clear.
func (e *Engine) Unpause(ctx context.Context, tokenAddr, caller string) error {
	token, err := e.load(ctx, tokenAddr)
	if err != nil {
		return err
	}
	if !token.Paused {
		return domain.ErrNotPaused
	}
	if err := authz.Require(authz.OpUnpause, token, caller); err != nil {
		return err
	}

	token.Paused = false
	if err := e.tokens.Update(ctx, token); err != nil {
		return fmt.Errorf("update token: %w", err)
	}
	return nil
}

// Mint increases total supply by amount whole tokens and mints
// amount*10^decimals base units to account. Authority only.
func (e *Engine) Mint(ctx context.Context, tokenAddr, caller, account string, amount uint64) error {
	token, err := e.load(ctx, tokenAddr)
	if err != nil {
		return err
	}
	if amount == 0 {
		return domain.ErrInvalidAmount
	}
	if token.Paused {
		return domain.ErrTokenPaused
	}
	if err := authz.Require(authz.OpMint, token, caller); err != nil {
		return err
	}

	token.TotalSupply, err = checked.Add(token.TotalSupply, amount)
	if err != nil {
		return err
	}
	baseUnits, err := e.baseUnits(token, amount)
	if err != nil {
		return err
	}

	if err := e.program.MintTo(ctx, token.Mint, account, token.Authority, baseUnits); err != nil {
		return fmt.Errorf("mint to: %w", err)
	}
	if err := e.tokens.Update(ctx, token); err != nil {
		return fmt.Errorf("update token: %w", err)
	}

	return e.sink.Emit(ctx, domain.TokenMinted{
		Token:  token.Address,
		User:   caller,
		Amount: amount,
	})
}

// Burn decreases total supply by amount whole tokens and burns
// amount*10^decimals base units from account. Authority only; fails with
// ErrInsufficientFunds if amount exceeds total supply.
func (e *Engine) Burn(ctx context.Context, tokenAddr, caller, account string, amount uint64) error {
	token, err := e.load(ctx, tokenAddr)
	if err != nil {
		return err
	}
	if amount == 0 {
		return domain.ErrInvalidAmount
	}
	if token.Paused {
		return domain.ErrTokenPaused
	}
	if err := authz.Require(authz.OpBurn, token, caller); err != nil {
		return err
	}

	token.TotalSupply, err = checked.Sub(token.TotalSupply, amount)
	if err != nil {
		return err
	}
	baseUnits, err := e.baseUnits(token, amount)
	if err != nil {
		return err
	}

	if err := e.program.Burn(ctx, token.Mint, account, token.Authority, baseUnits); err != nil {
		return fmt.Errorf("burn: %w", err)
	}
	if err := e.tokens.Update(ctx, token); err != nil {
		return fmt.Errorf("update token: %w", err)
	}

	return e.sink.Emit(ctx, domain.TokenBurned{
		Token:  token.Address,
		User:   caller,
		Amount: amount,
	})
}

// Get retrieves a token record by address.
func (e *Engine) Get(ctx context.Context, tokenAddr string) (*domain.Token, error) {
	return e.load(ctx, tokenAddr)
}

func (e *Engine) load(ctx context.Context, tokenAddr string) (*domain.Token, error) {
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
