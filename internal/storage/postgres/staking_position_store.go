package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"pump-token-core/internal/domain"
	"pump-token-core/internal/storage"
)

// StakingPositionStore implements storage.StakingPositionStore using PostgreSQL.
type StakingPositionStore struct {
	pool *Pool
}

// NewStakingPositionStore creates a new StakingPositionStore.
func NewStakingPositionStore(pool *Pool) *StakingPositionStore {
	return &StakingPositionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.StakingPositionStore = (*StakingPositionStore)(nil)

// Insert adds a new position. Returns ErrDuplicateKey if the address exists.
func (s *StakingPositionStore) Insert(ctx context.Context, p *domain.StakingPosition) error {
	query := `
		INSERT INTO staking_positions (
			address, owner, pool, amount, start_time, end_time, claimed
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		p.Address,
		p.Owner,
		p.Pool,
		int64(p.Amount),
		p.StartTime,
		p.EndTime,
		p.Claimed,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert staking position: %w", err)
	}
	return nil
}

// Get retrieves a position by address. Returns ErrNotFound if not exists.
func (s *StakingPositionStore) Get(ctx context.Context, address string) (*domain.StakingPosition, error) {
	query := `
		SELECT address, owner, pool, amount, start_time, end_time, claimed
		FROM staking_positions
		WHERE address = $1
	`

	row := s.pool.QueryRow(ctx, query, address)
	p, err := scanStakingPosition(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get staking position: %w", err)
	}
	return p, nil
}

// Update replaces an existing position. Returns ErrNotFound if not exists.
func (s *StakingPositionStore) Update(ctx context.Context, p *domain.StakingPosition) error {
	query := `
		UPDATE staking_positions SET
			owner = $2, pool = $3, amount = $4, start_time = $5,
			end_time = $6, claimed = $7
		WHERE address = $1
	`

	tag, err := s.pool.Exec(ctx, query,
		p.Address,
		p.Owner,
		p.Pool,
		int64(p.Amount),
		p.StartTime,
		p.EndTime,
		p.Claimed,
	)
	if err != nil {
		return fmt.Errorf("update staking position: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetByPool retrieves all positions for a pool, ordered by start_time ASC.
func (s *StakingPositionStore) GetByPool(ctx context.Context, pool string) ([]*domain.StakingPosition, error) {
	query := `
		SELECT address, owner, pool, amount, start_time, end_time, claimed
		FROM staking_positions
		WHERE pool = $1
		ORDER BY start_time ASC, address ASC
	`

	rows, err := s.pool.Query(ctx, query, pool)
	if err != nil {
		return nil, fmt.Errorf("get positions by pool: %w", err)
	}
	defer rows.Close()

	var positions []*domain.StakingPosition
	for rows.Next() {
		p, err := scanStakingPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan staking position row: %w", err)
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate staking position rows: %w", err)
	}
	return positions, nil
}

// scanStakingPosition scans a single row into a StakingPosition.
func scanStakingPosition(row pgx.Row) (*domain.StakingPosition, error) {
	var p domain.StakingPosition
	var amount int64

	err := row.Scan(
		&p.Address,
		&p.Owner,
		&p.Pool,
		&amount,
		&p.StartTime,
		&p.EndTime,
		&p.Claimed,
	)
	if err != nil {
		return nil, err
	}

	p.Amount = uint64(amount)
	return &p, nil
}
