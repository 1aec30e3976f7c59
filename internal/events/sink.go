// Package events routes emitted domain events to external consumers:
// an append-only store for indexing, a WebSocket broadcaster for live
// feeds, or both. Events are never consumed by the engines themselves.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"pump-token-core/internal/domain"
	"pump-token-core/internal/storage"
)

// Sink receives emitted domain events.
type Sink interface {
	// Emit delivers one event. A failed emit aborts the emitting request.
	Emit(ctx context.Context, e domain.Event) error
}

// Memory is an in-memory sink for tests and offline simulation.
type Memory struct {
	mu     sync.Mutex
	events []domain.Event
}

// NewMemory creates a new in-memory sink.
func NewMemory() *Memory {
	return &Memory{}
}

// Emit records the event.
func (m *Memory) Emit(_ context.Context, e domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

// Events returns all recorded events in emission order.
func (m *Memory) Events() []domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]domain.Event, len(m.events))
	copy(result, m.events)
	return result
}

// ByKind returns recorded events of one kind.
func (m *Memory) ByKind(kind string) []domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []domain.Event
	for _, e := range m.events {
		if e.EventKind() == kind {
			result = append(result, e)
		}
	}
	return result
}

var _ Sink = (*Memory)(nil)

// StoreSink flattens events into an append-only storage.EventStore.
type StoreSink struct {
	store storage.EventStore
	nowFn func() int64
}

// NewStoreSink creates a sink backed by an event store.
func NewStoreSink(store storage.EventStore) *StoreSink {
	return &StoreSink{
		store: store,
		nowFn: func() int64 { return time.Now().Unix() },
	}
}

// Emit marshals the event body and appends it to the store.
func (s *StoreSink) Emit(ctx context.Context, e domain.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", e.EventKind(), err)
	}

	record := &domain.EmittedEvent{
		Kind:      e.EventKind(),
		Token:     e.EventToken(),
		Payload:   string(payload),
		EmittedAt: s.nowFn(),
	}
	if err := s.store.Insert(ctx, record); err != nil {
		return fmt.Errorf("store event %s: %w", e.EventKind(), err)
	}
	return nil
}

var _ Sink = (*StoreSink)(nil)

// Multi fans an event out to several sinks; the first failure wins.
type Multi []Sink

// Emit delivers the event to every sink in order.
func (m Multi) Emit(ctx context.Context, e domain.Event) error {
	for _, sink := range m {
		if err := sink.Emit(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

var _ Sink = (Multi)(nil)
