package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"pump-token-core/internal/domain"
	"pump-token-core/internal/storage"
)

// StakingPoolStore implements storage.StakingPoolStore using PostgreSQL.
type StakingPoolStore struct {
	pool *Pool
}

// NewStakingPoolStore creates a new StakingPoolStore.
func NewStakingPoolStore(pool *Pool) *StakingPoolStore {
	return &StakingPoolStore{pool: pool}
}

// Compile-time interface check.
var _ storage.StakingPoolStore = (*StakingPoolStore)(nil)

// Insert adds a new pool. Returns ErrDuplicateKey if the address exists.
func (s *StakingPoolStore) Insert(ctx context.Context, p *domain.StakingPool) error {
	query := `
		INSERT INTO staking_pools (
			address, token, duration, reward_rate_bps, total_staked, total_rewards, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		p.Address,
		p.Token,
		p.Duration,
		int32(p.RewardRateBps),
		int64(p.TotalStaked),
		int64(p.TotalRewards),
		p.Active,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert staking pool: %w", err)
	}
	return nil
}

// Get retrieves a pool by address. Returns ErrNotFound if not exists.
func (s *StakingPoolStore) Get(ctx context.Context, address string) (*domain.StakingPool, error) {
	query := `
		SELECT address, token, duration, reward_rate_bps, total_staked, total_rewards, active
		FROM staking_pools
		WHERE address = $1
	`

	row := s.pool.QueryRow(ctx, query, address)
	p, err := scanStakingPool(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get staking pool: %w", err)
	}
	return p, nil
}

// Update replaces an existing pool. Returns ErrNotFound if not exists.
func (s *StakingPoolStore) Update(ctx context.Context, p *domain.StakingPool) error {
	query := `
		UPDATE staking_pools SET
			token = $2, duration = $3, reward_rate_bps = $4,
			total_staked = $5, total_rewards = $6, active = $7
		WHERE address = $1
	`

	tag, err := s.pool.Exec(ctx, query,
		p.Address,
		p.Token,
		p.Duration,
		int32(p.RewardRateBps),
		int64(p.TotalStaked),
		int64(p.TotalRewards),
		p.Active,
	)
	if err != nil {
		return fmt.Errorf("update staking pool: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanStakingPool scans a single row into a StakingPool.
func scanStakingPool(row pgx.Row) (*domain.StakingPool, error) {
	var p domain.StakingPool
	var rewardRate int32
	var totalStaked, totalRewards int64

	err := row.Scan(
		&p.Address,
		&p.Token,
		&p.Duration,
		&rewardRate,
		&totalStaked,
		&totalRewards,
		&p.Active,
	)
	if err != nil {
		return nil, err
	}

	p.RewardRateBps = uint16(rewardRate)
	p.TotalStaked = uint64(totalStaked)
	p.TotalRewards = uint64(totalRewards)
	return &p, nil
}
