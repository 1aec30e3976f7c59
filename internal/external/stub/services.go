// Package stub provides in-memory implementations of the external
// collaborator contracts, with balance tracking and failure injection
// for tests and offline simulation.
package stub

import (
	"context"
	"errors"
	"sync"

	"pump-token-core/internal/external"
)

// ErrInsufficientBalance is returned when a tracked account cannot cover
// a transfer or burn.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ValueTransfer implements external.ValueTransfer over an in-memory
// balance map. Accounts not present are treated as having zero balance
// unless AllowOverdraft is set.
type ValueTransfer struct {
	mu             sync.Mutex
	Balances       map[string]uint64
	AllowOverdraft bool
	FailNext       error // returned (and cleared) by the next call
}

// NewValueTransfer creates a new stub value-transfer service.
func NewValueTransfer() *ValueTransfer {
	return &ValueTransfer{
		Balances:       make(map[string]uint64),
		AllowOverdraft: true,
	}
}

// Transfer moves amount between tracked accounts.
func (v *ValueTransfer) Transfer(_ context.Context, from, to string, amount uint64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.FailNext != nil {
		err := v.FailNext
		v.FailNext = nil
		return err
	}

	if !v.AllowOverdraft && v.Balances[from] < amount {
		return ErrInsufficientBalance
	}

	v.Balances[from] -= amount
	v.Balances[to] += amount
	return nil
}

// Balance returns the tracked balance of an account.
func (v *ValueTransfer) Balance(account string) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.Balances[account]
}

var _ external.ValueTransfer = (*ValueTransfer)(nil)

// TokenProgram implements external.TokenProgram over per-account base-unit
// balances keyed by (mint, account).
type TokenProgram struct {
	mu             sync.Mutex
	Balances       map[string]map[string]uint64 // mint -> account -> base units
	AllowOverdraft bool
	FailNext       error
}

// NewTokenProgram creates a new stub token program.
func NewTokenProgram() *TokenProgram {
	return &TokenProgram{
		Balances:       make(map[string]map[string]uint64),
		AllowOverdraft: true,
	}
}

func (p *TokenProgram) accounts(mint string) map[string]uint64 {
	if p.Balances[mint] == nil {
		p.Balances[mint] = make(map[string]uint64)
	}
	return p.Balances[mint]
}

func (p *TokenProgram) takeFailure() error {
	if p.FailNext != nil {
		err := p.FailNext
		p.FailNext = nil
		return err
	}
	return nil
}

// MintTo mints amount base units to an account.
func (p *TokenProgram) MintTo(_ context.Context, mint, account, _ string, amount uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.takeFailure(); err != nil {
		return err
	}

	p.accounts(mint)[account] += amount
	return nil
}

// Burn burns amount base units from an account.
func (p *TokenProgram) Burn(_ context.Context, mint, account, _ string, amount uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.takeFailure(); err != nil {
		return err
	}

	accounts := p.accounts(mint)
	if !p.AllowOverdraft && accounts[account] < amount {
		return ErrInsufficientBalance
	}
	accounts[account] -= amount
	return nil
}

// Transfer moves amount base units between token accounts. The mint is
// resolved from the sending account's tracked balances; untracked senders
// fall back to the first known mint.
func (p *TokenProgram) Transfer(_ context.Context, from, to, _ string, amount uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.takeFailure(); err != nil {
		return err
	}

	for _, accounts := range p.Balances {
		if _, ok := accounts[from]; ok {
			if !p.AllowOverdraft && accounts[from] < amount {
				return ErrInsufficientBalance
			}
			accounts[from] -= amount
			accounts[to] += amount
			return nil
		}
	}

	if p.AllowOverdraft {
		// Untracked sender: record the movement under a synthetic mint.
		accounts := p.accounts("")
		accounts[from] -= amount
		accounts[to] += amount
		return nil
	}
	return ErrInsufficientBalance
}

// Balance returns the base-unit balance of an account for a mint.
func (p *TokenProgram) Balance(mint, account string) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Balances[mint] == nil {
		return 0
	}
	return p.Balances[mint][account]
}

// SetBalance seeds an account balance for tests.
func (p *TokenProgram) SetBalance(mint, account string, amount uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accounts(mint)[account] = amount
}

var _ external.TokenProgram = (*TokenProgram)(nil)

// MetadataEntry is a registered metadata record.
type MetadataEntry struct {
	Name   string
	Symbol string
	URI    string
}

// MetadataRegistry implements external.MetadataRegistry in memory.
type MetadataRegistry struct {
	mu       sync.Mutex
	Entries  map[string]MetadataEntry // keyed by mint
	FailNext error
}

// NewMetadataRegistry creates a new stub metadata registry.
func NewMetadataRegistry() *MetadataRegistry {
	return &MetadataRegistry{
		Entries: make(map[string]MetadataEntry),
	}
}

// Create registers metadata for a mint.
func (r *MetadataRegistry) Create(_ context.Context, mint, name, symbol, uri, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailNext != nil {
		err := r.FailNext
		r.FailNext = nil
		return err
	}

	r.Entries[mint] = MetadataEntry{Name: name, Symbol: symbol, URI: uri}
	return nil
}

// Update replaces registered metadata for a mint.
func (r *MetadataRegistry) Update(_ context.Context, mint, name, symbol, uri string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailNext != nil {
		err := r.FailNext
		r.FailNext = nil
		return err
	}

	r.Entries[mint] = MetadataEntry{Name: name, Symbol: symbol, URI: uri}
	return nil
}

var _ external.MetadataRegistry = (*MetadataRegistry)(nil)
