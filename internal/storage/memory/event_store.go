package memory

import (
	"context"
	"sort"
	"sync"

	"pump-token-core/internal/domain"
	"pump-token-core/internal/storage"
)

// EventStore is an in-memory implementation of storage.EventStore.
type EventStore struct {
	mu   sync.RWMutex
	data []*domain.EmittedEvent
}

// NewEventStore creates a new in-memory event store.
func NewEventStore() *EventStore {
	return &EventStore{}
}

// Insert appends an emitted event.
func (s *EventStore) Insert(_ context.Context, e *domain.EmittedEvent) error {
	if e == nil || e.Kind == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	eventCopy := *e
	s.data = append(s.data, &eventCopy)
	return nil
}

// GetByToken retrieves all events for a token, ordered by emitted_at ASC.
func (s *EventStore) GetByToken(_ context.Context, token string) ([]*domain.EmittedEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.EmittedEvent
	for _, e := range s.data {
		if e.Token == token {
			eventCopy := *e
			result = append(result, &eventCopy)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].EmittedAt < result[j].EmittedAt
	})

	return result, nil
}

var _ storage.EventStore = (*EventStore)(nil)
