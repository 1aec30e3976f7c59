package postgres

import (
	"context"
	"fmt"

	"pump-token-core/internal/domain"
	"pump-token-core/internal/storage"
)

// LiquidityConfigStore implements storage.LiquidityConfigStore using PostgreSQL.
type LiquidityConfigStore struct {
	pool *Pool
}

// NewLiquidityConfigStore creates a new LiquidityConfigStore.
func NewLiquidityConfigStore(pool *Pool) *LiquidityConfigStore {
	return &LiquidityConfigStore{pool: pool}
}

// Compile-time interface check.
var _ storage.LiquidityConfigStore = (*LiquidityConfigStore)(nil)

// Insert adds a new config. Returns ErrDuplicateKey if the address exists.
func (s *LiquidityConfigStore) Insert(ctx context.Context, c *domain.LiquidityConfig) error {
	query := `
		INSERT INTO liquidity_configs (
			address, token, amm_program, pool_address, initialized
		) VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query,
		c.Address,
		c.Token,
		c.AMMProgram,
		c.PoolAddress,
		c.Initialized,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert liquidity config: %w", err)
	}
	return nil
}

// Get retrieves a config by address. Returns ErrNotFound if not exists.
func (s *LiquidityConfigStore) Get(ctx context.Context, address string) (*domain.LiquidityConfig, error) {
	query := `
		SELECT address, token, amm_program, pool_address, initialized
		FROM liquidity_configs
		WHERE address = $1
	`

	var c domain.LiquidityConfig
	err := s.pool.QueryRow(ctx, query, address).Scan(
		&c.Address,
		&c.Token,
		&c.AMMProgram,
		&c.PoolAddress,
		&c.Initialized,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get liquidity config: %w", err)
	}
	return &c, nil
}

// LiquidityRecordStore implements storage.LiquidityRecordStore using PostgreSQL.
type LiquidityRecordStore struct {
	pool *Pool
}

// NewLiquidityRecordStore creates a new LiquidityRecordStore.
func NewLiquidityRecordStore(pool *Pool) *LiquidityRecordStore {
	return &LiquidityRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.LiquidityRecordStore = (*LiquidityRecordStore)(nil)

// Insert adds a new record. Returns ErrDuplicateKey if the address exists.
func (s *LiquidityRecordStore) Insert(ctx context.Context, r *domain.LiquidityRecord) error {
	query := `
		INSERT INTO liquidity_records (
			address, token, amount, created_at, destroyed
		) VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query,
		r.Address,
		r.Token,
		int64(r.Amount),
		r.CreatedAt,
		r.Destroyed,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert liquidity record: %w", err)
	}
	return nil
}

// Get retrieves a record by address. Returns ErrNotFound if not exists.
func (s *LiquidityRecordStore) Get(ctx context.Context, address string) (*domain.LiquidityRecord, error) {
	query := `
		SELECT address, token, amount, created_at, destroyed
		FROM liquidity_records
		WHERE address = $1
	`

	var r domain.LiquidityRecord
	var amount int64
	err := s.pool.QueryRow(ctx, query, address).Scan(
		&r.Address,
		&r.Token,
		&amount,
		&r.CreatedAt,
		&r.Destroyed,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get liquidity record: %w", err)
	}
	r.Amount = uint64(amount)
	return &r, nil
}

// Update replaces an existing record. Returns ErrNotFound if not exists.
func (s *LiquidityRecordStore) Update(ctx context.Context, r *domain.LiquidityRecord) error {
	query := `
		UPDATE liquidity_records SET
			token = $2, amount = $3, created_at = $4, destroyed = $5
		WHERE address = $1
	`

	tag, err := s.pool.Exec(ctx, query,
		r.Address,
		r.Token,
		int64(r.Amount),
		r.CreatedAt,
		r.Destroyed,
	)
	if err != nil {
		return fmt.Errorf("update liquidity record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
