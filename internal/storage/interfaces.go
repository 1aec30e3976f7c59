package storage

import (
	"context"

	"pump-token-core/internal/domain"
)

// TokenStore provides access to token ledger records.
type TokenStore interface {
	// Insert adds a new token. Returns ErrDuplicateKey if the address exists.
	Insert(ctx context.Context, t *domain.Token) error

	// Get retrieves a token by address. Returns ErrNotFound if not exists.
	Get(ctx context.Context, address string) (*domain.Token, error)

	// Update replaces an existing token. Returns ErrNotFound if not exists.
	Update(ctx context.Context, t *domain.Token) error
}

// SaleConfigStore provides access to sale_configs storage.
type SaleConfigStore interface {
	// Insert adds a new sale config. Returns ErrDuplicateKey if the address exists.
	Insert(ctx context.Context, c *domain.SaleConfig) error

	// Get retrieves a sale config by address. Returns ErrNotFound if not exists.
	Get(ctx context.Context, address string) (*domain.SaleConfig, error)

	// Update replaces an existing sale config. Returns ErrNotFound if not exists.
	Update(ctx context.Context, c *domain.SaleConfig) error

	// GetActive retrieves configs whose window contains now and whose
	// active flag is set, ordered by start_time ASC.
	GetActive(ctx context.Context, now int64) ([]*domain.SaleConfig, error)
}

// PurchaseReceiptStore provides access to purchase_receipts storage.
type PurchaseReceiptStore interface {
	// Insert adds a new receipt. Returns ErrDuplicateKey if the address exists.
	Insert(ctx context.Context, r *domain.PurchaseReceipt) error

	// Get retrieves a receipt by address. Returns ErrNotFound if not exists.
	Get(ctx context.Context, address string) (*domain.PurchaseReceipt, error)

	// Update replaces an existing receipt. Returns ErrNotFound if not exists.
	Update(ctx context.Context, r *domain.PurchaseReceipt) error

	// GetBySale retrieves all receipts for a sale, ordered by created_at ASC.
	GetBySale(ctx context.Context, sale string) ([]*domain.PurchaseReceipt, error)
}

// StakingPoolStore provides access to staking_pools storage.
type StakingPoolStore interface {
	// Insert adds a new pool. Returns ErrDuplicateKey if the address exists.
	Insert(ctx context.Context, p *domain.StakingPool) error

	// Get retrieves a pool by address. Returns ErrNotFound if not exists.
	Get(ctx context.Context, address string) (*domain.StakingPool, error)

	// Update replaces an existing pool. Returns ErrNotFound if not exists.
	Update(ctx context.Context, p *domain.StakingPool) error
}

// StakingPositionStore provides access to staking_positions storage.
type StakingPositionStore interface {
	// Insert adds a new position. Returns ErrDuplicateKey if the address exists.
	Insert(ctx context.Context, p *domain.StakingPosition) error

	// Get retrieves a position by address. Returns ErrNotFound if not exists.
	Get(ctx context.Context, address string) (*domain.StakingPosition, error)

	// Update replaces an existing position. Returns ErrNotFound if not exists.
	Update(ctx context.Context, p *domain.StakingPosition) error

	// GetByPool retrieves all positions for a pool, ordered by start_time ASC.
	GetByPool(ctx context.Context, pool string) ([]*domain.StakingPosition, error)
}

// LiquidityConfigStore provides access to liquidity_configs storage.
type LiquidityConfigStore interface {
	// Insert adds a new config. Returns ErrDuplicateKey if the address exists.
	Insert(ctx context.Context, c *domain.LiquidityConfig) error

	// Get retrieves a config by address. Returns ErrNotFound if not exists.
	Get(ctx context.Context, address string) (*domain.LiquidityConfig, error)
}

// LiquidityRecordStore provides access to liquidity_records storage.
type LiquidityRecordStore interface {
	// Insert adds a new record. Returns ErrDuplicateKey if the address exists.
	Insert(ctx context.Context, r *domain.LiquidityRecord) error

	// Get retrieves a record by address. Returns ErrNotFound if not exists.
	Get(ctx context.Context, address string) (*domain.LiquidityRecord, error)

	// Update replaces an existing record. Returns ErrNotFound if not exists.
	Update(ctx context.Context, r *domain.LiquidityRecord) error
}

// EventStore provides append-only access to emitted domain events.
type EventStore interface {
	// Insert appends an emitted event.
	Insert(ctx context.Context, e *domain.EmittedEvent) error

	// GetByToken retrieves all events for a token, ordered by emitted_at ASC.
	GetByToken(ctx context.Context, token string) ([]*domain.EmittedEvent, error)
}
