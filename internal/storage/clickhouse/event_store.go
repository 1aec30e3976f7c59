package clickhouse

import (
	"context"
	"fmt"

	"pump-token-core/internal/domain"
	"pump-token-core/internal/storage"
)

// EventStore implements storage.EventStore using ClickHouse.
type EventStore struct {
	conn *Conn
}

// NewEventStore creates a new EventStore.
func NewEventStore(conn *Conn) *EventStore {
	return &EventStore{conn: conn}
}

// Compile-time interface check.
var _ storage.EventStore = (*EventStore)(nil)

// Insert appends an emitted event.
func (s *EventStore) Insert(ctx context.Context, e *domain.EmittedEvent) error {
	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO emitted_events (
			kind, token, payload, emitted_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	if err := batch.Append(e.Kind, e.Token, e.Payload, uint64(e.EmittedAt)); err != nil {
		return fmt.Errorf("append to batch: %w", err)
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// InsertBulk appends multiple emitted events in one batch.
func (s *EventStore) InsertBulk(ctx context.Context, events []*domain.EmittedEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO emitted_events (
			kind, token, payload, emitted_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, e := range events {
		if err := batch.Append(e.Kind, e.Token, e.Payload, uint64(e.EmittedAt)); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByToken retrieves all events for a token, ordered by emitted_at ASC.
func (s *EventStore) GetByToken(ctx context.Context, token string) ([]*domain.EmittedEvent, error) {
	query := `
		SELECT kind, token, payload, emitted_at
		FROM emitted_events
		WHERE token = ?
		ORDER BY emitted_at ASC
	`

	rows, err := s.conn.Query(ctx, query, token)
	if err != nil {
		return nil, fmt.Errorf("query events by token: %w", err)
	}
	defer rows.Close()

	var events []*domain.EmittedEvent
	for rows.Next() {
		var e domain.EmittedEvent
		var emittedAt uint64

		if err := rows.Scan(&e.Kind, &e.Token, &e.Payload, &emittedAt); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}

		e.EmittedAt = int64(emittedAt)
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}

	return events, nil
}
