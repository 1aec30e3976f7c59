package clickhouse_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pump-token-core/internal/domain"
	chstore "pump-token-core/internal/storage/clickhouse"
)

func TestEventStore_InsertAndGetByToken(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := chstore.NewEventStore(conn)
	ctx := context.Background()

	events := []*domain.EmittedEvent{
		{Kind: domain.KindTokenInitialized, Token: "token1", Payload: `{"token":"token1"}`, EmittedAt: 1_700_000_000},
		{Kind: domain.KindTokenMinted, Token: "token1", Payload: `{"token":"token1","amount":500}`, EmittedAt: 1_700_000_100},
		{Kind: domain.KindTokenMinted, Token: "token2", Payload: `{"token":"token2","amount":10}`, EmittedAt: 1_700_000_050},
	}
	for _, e := range events {
		require.NoError(t, store.Insert(ctx, e))
	}

	retrieved, err := store.GetByToken(ctx, "token1")
	require.NoError(t, err)
	require.Len(t, retrieved, 2)

	// Ordered by emitted_at ASC
	assert.Equal(t, domain.KindTokenInitialized, retrieved[0].Kind)
	assert.Equal(t, int64(1_700_000_000), retrieved[0].EmittedAt)
	assert.Equal(t, domain.KindTokenMinted, retrieved[1].Kind)
	assert.Equal(t, `{"token":"token1","amount":500}`, retrieved[1].Payload)
}

func TestEventStore_InsertBulk(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := chstore.NewEventStore(conn)
	ctx := context.Background()

	batch := []*domain.EmittedEvent{
		{Kind: domain.KindTokenStaked, Token: "token3", Payload: `{}`, EmittedAt: 1},
		{Kind: domain.KindStakeClaimed, Token: "token3", Payload: `{}`, EmittedAt: 2},
	}
	require.NoError(t, store.InsertBulk(ctx, batch))
	require.NoError(t, store.InsertBulk(ctx, nil))

	retrieved, err := store.GetByToken(ctx, "token3")
	require.NoError(t, err)
	assert.Len(t, retrieved, 2)
}

func TestEventStore_GetByTokenEmpty(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := chstore.NewEventStore(conn)

	retrieved, err := store.GetByToken(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Empty(t, retrieved)
}
