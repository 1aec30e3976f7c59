// Package external declares the collaborator contracts the engines invoke:
// native value transfer, the token program (mint/burn/transfer in base
// units) and the metadata registry. Each call either fully succeeds or
// fails; the engines persist local state only after the call returns.
package external

import "context"

// ValueTransfer moves native currency between accounts, all-or-nothing.
type ValueTransfer interface {
	// Transfer moves amount base units from one account to another.
	Transfer(ctx context.Context, from, to string, amount uint64) error
}

// TokenProgram mints, burns and transfers token base units.
type TokenProgram interface {
	// MintTo mints amount base units to an account.
	MintTo(ctx context.Context, mint, account, authority string, amount uint64) error

	// Burn burns amount base units from an account.
	Burn(ctx context.Context, mint, account, authority string, amount uint64) error

	// Transfer moves amount base units between token accounts.
	Transfer(ctx context.Context, from, to, authority string, amount uint64) error
}

// MetadataRegistry maintains the external name/symbol/uri registry.
type MetadataRegistry interface {
	// Create registers metadata for a mint.
	Create(ctx context.Context, mint, name, symbol, uri, authority string) error

	// Update replaces registered metadata for a mint.
	Update(ctx context.Context, mint, name, symbol, uri string) error
}
