package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"pump-token-core/internal/domain"
	"pump-token-core/internal/storage"
)

// SaleConfigStore implements storage.SaleConfigStore using PostgreSQL.
type SaleConfigStore struct {
	pool *Pool
}

// NewSaleConfigStore creates a new SaleConfigStore.
func NewSaleConfigStore(pool *Pool) *SaleConfigStore {
	return &SaleConfigStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SaleConfigStore = (*SaleConfigStore)(nil)

// Insert adds a new sale config. Returns ErrDuplicateKey if the address exists.
func (s *SaleConfigStore) Insert(ctx context.Context, c *domain.SaleConfig) error {
	query := `
		INSERT INTO sale_configs (
			address, token, min_price, max_price, min_amount, max_amount,
			start_time, end_time, liquidity_percentage, staking_percentage,
			total_minted, fee_rate_bps, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := s.pool.Exec(ctx, query,
		c.Address,
		c.Token,
		int64(c.MinPrice),
		int64(c.MaxPrice),
		int64(c.MinAmount),
		int64(c.MaxAmount),
		c.StartTime,
		c.EndTime,
		int16(c.LiquidityPercentage),
		int16(c.StakingPercentage),
		int64(c.TotalMinted),
		int32(c.FeeRateBps),
		c.Active,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert sale config: %w", err)
	}
	return nil
}

// Get retrieves a sale config by address. Returns ErrNotFound if not exists.
func (s *SaleConfigStore) Get(ctx context.Context, address string) (*domain.SaleConfig, error) {
	query := saleConfigColumns + `
		WHERE address = $1
	`

	row := s.pool.QueryRow(ctx, query, address)
	c, err := scanSaleConfig(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get sale config: %w", err)
	}
	return c, nil
}

// Update replaces an existing sale config. Returns ErrNotFound if not exists.
func (s *SaleConfigStore) Update(ctx context.Context, c *domain.SaleConfig) error {
	query := `
		UPDATE sale_configs SET
			token = $2, min_price = $3, max_price = $4, min_amount = $5,
			max_amount = $6, start_time = $7, end_time = $8,
			liquidity_percentage = $9, staking_percentage = $10,
			total_minted = $11, fee_rate_bps = $12, active = $13
		WHERE address = $1
	`

	tag, err := s.pool.Exec(ctx, query,
		c.Address,
		c.Token,
		int64(c.MinPrice),
		int64(c.MaxPrice),
		int64(c.MinAmount),
		int64(c.MaxAmount),
		c.StartTime,
		c.EndTime,
		int16(c.LiquidityPercentage),
		int16(c.StakingPercentage),
		int64(c.TotalMinted),
		int32(c.FeeRateBps),
		c.Active,
	)
	if err != nil {
		return fmt.Errorf("update sale config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetActive retrieves configs whose window contains now and whose active
// flag is set, ordered by start_time ASC.
func (s *SaleConfigStore) GetActive(ctx context.Context, now int64) ([]*domain.SaleConfig, error) {
	query := saleConfigColumns + `
		WHERE active = TRUE AND start_time <= $1 AND end_time >= $1
		ORDER BY start_time ASC, address ASC
	`

	rows, err := s.pool.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("get active sale configs: %w", err)
	}
	defer rows.Close()

	var configs []*domain.SaleConfig
	for rows.Next() {
		c, err := scanSaleConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale config row: %w", err)
		}
		configs = append(configs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sale config rows: %w", err)
	}
	return configs, nil
}

const saleConfigColumns = `
	SELECT address, token, min_price, max_price, min_amount, max_amount,
	       start_time, end_time, liquidity_percentage, staking_percentage,
	       total_minted, fee_rate_bps, active
	FROM sale_configs
`

// scanSaleConfig scans a single row into a SaleConfig.
func scanSaleConfig(row pgx.Row) (*domain.SaleConfig, error) {
	var c domain.SaleConfig
	var minPrice, maxPrice, minAmount, maxAmount, totalMinted int64
	var liqPct, stakePct int16
	var feeRate int32

	err := row.Scan(
		&c.Address,
		&c.Token,
		&minPrice,
		&maxPrice,
		&minAmount,
		&maxAmount,
		&c.StartTime,
		&c.EndTime,
		&liqPct,
		&stakePct,
		&totalMinted,
		&feeRate,
		&c.Active,
	)
	if err != nil {
		return nil, err
	}

	c.MinPrice = uint64(minPrice)
	c.MaxPrice = uint64(maxPrice)
	c.MinAmount = uint64(minAmount)
	c.MaxAmount = uint64(maxAmount)
	c.TotalMinted = uint64(totalMinted)
	c.LiquidityPercentage = uint8(liqPct)
	c.StakingPercentage = uint8(stakePct)
	c.FeeRateBps = uint16(feeRate)
	return &c, nil
}
