package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"pump-token-core/internal/domain"
	"pump-token-core/internal/storage/migrations"
	"pump-token-core/internal/storage/postgres"
)

// setupTestDB creates a PostgreSQL container for testing and applies the
// embedded migrations. Returns a cleanup function that must be called
// after tests complete.
func setupTestDB(t *testing.T) (*postgres.Pool, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := pgcontainer.Run(ctx, "postgres:15-alpine",
		pgcontainer.WithDatabase("testdb"),
		pgcontainer.WithUsername("test"),
		pgcontainer.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	pool, err := postgres.NewPool(ctx, dsn)
	require.NoError(t, err, "failed to create pool")

	require.NoError(t, migrations.RunPostgresMigrations(ctx, pool), "failed to apply migrations")

	cleanup := func() {
		pool.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return pool, cleanup
}

// seedToken inserts a token row for stores with a foreign key on tokens.
func seedToken(t *testing.T, pool *postgres.Pool, address string) *domain.Token {
	t.Helper()

	token := &domain.Token{
		Address:     address,
		Mint:        "mint-" + address,
		Authority:   "authority1",
		Admin:       "admin1",
		Treasury:    "treasury1",
		Decimals:    6,
		Initialized: true,
		CreatedAt:   1_700_000_000,
		Name:        "Test Token",
		Symbol:      "TST",
		URI:         "https://example.com/token.json",
	}
	require.NoError(t, postgres.NewTokenStore(pool).Insert(context.Background(), token))
	return token
}
