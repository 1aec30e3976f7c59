package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"pump-token-core/internal/domain"
	"pump-token-core/internal/storage"
)

// TokenStore implements storage.TokenStore using PostgreSQL.
type TokenStore struct {
	pool *Pool
}

// NewTokenStore creates a new TokenStore.
func NewTokenStore(pool *Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TokenStore = (*TokenStore)(nil)

// Insert adds a new token. Returns ErrDuplicateKey if the address exists.
func (s *TokenStore) Insert(ctx context.Context, t *domain.Token) error {
	query := `
		INSERT INTO tokens (
			address, mint, authority, admin, treasury, decimals,
			total_supply, initialized, paused, created_at, name, symbol, uri
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := s.pool.Exec(ctx, query,
		t.Address,
		t.Mint,
		t.Authority,
		t.Admin,
		t.Treasury,
		int16(t.Decimals),
		int64(t.TotalSupply),
		t.Initialized,
		t.Paused,
		t.CreatedAt,
		t.Name,
		t.Symbol,
		t.URI,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// Get retrieves a token by address. Returns ErrNotFound if not exists.
func (s *TokenStore) Get(ctx context.Context, address string) (*domain.Token, error) {
	query := `
		SELECT address, mint, authority, admin, treasury, decimals,
		       total_supply, initialized, paused, created_at, name, symbol, uri
		FROM tokens
		WHERE address = $1
	`

	row := s.pool.QueryRow(ctx, query, address)
	t, err := scanToken(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token: %w", err)
	}
	return t, nil
}

// Update replaces an existing token. Returns ErrNotFound if not exists.
func (s *TokenStore) Update(ctx context.Context, t *domain.Token) error {
	query := `
		UPDATE tokens SET
			mint = $2, authority = $3, admin = $4, treasury = $5, decimals = $6,
			total_supply = $7, initialized = $8, paused = $9, created_at = $10,
			name = $11, symbol = $12, uri = $13
		WHERE address = $1
	`

	tag, err := s.pool.Exec(ctx, query,
		t.Address,
		t.Mint,
		t.Authority,
		t.Admin,
		t.Treasury,
		int16(t.Decimals),
		int64(t.TotalSupply),
		t.Initialized,
		t.Paused,
		t.CreatedAt,
		t.Name,
		t.Symbol,
		t.URI,
	)
	if err != nil {
		return fmt.Errorf("update token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanToken scans a single row into a Token.
func scanToken(row pgx.Row) (*domain.Token, error) {
	var t domain.Token
	var decimals int16
	var totalSupply int64

	err := row.Scan(
		&t.Address,
		&t.Mint,
		&t.Authority,
		&t.Admin,
		&t.Treasury,
		&decimals,
		&totalSupply,
		&t.Initialized,
		&t.Paused,
		&t.CreatedAt,
		&t.Name,
		&t.Symbol,
		&t.URI,
	)
	if err != nil {
		return nil, err
	}

	t.Decimals = uint8(decimals)
	t.TotalSupply = uint64(totalSupply)
	return &t, nil
}
