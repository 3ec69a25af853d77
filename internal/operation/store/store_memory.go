package store

import (
	"context"
	"fmt"
	"sync"

	"sgprep/internal/operation"
	"sgprep/pkg/platform/sentinel"
)

// InMemoryStore keeps event streams in a map. It favors clarity over
// performance and backs unit tests and local development.
type InMemoryStore struct {
	mu      sync.RWMutex
	streams map[string][]operation.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{streams: make(map[string][]operation.Event)}
}

func (s *InMemoryStore) Get(_ context.Context, opNumber string) (*operation.Operation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events, ok := s.streams[operation.StreamID(opNumber)]
	if !ok || len(events) == 0 {
		return nil, fmt.Errorf("stream %s: %w", operation.StreamID(opNumber), sentinel.ErrNotFound)
	}
	return operation.Replay(events), nil
}

func (s *InMemoryStore) Save(_ context.Context, op *operation.Operation) error {
	pending := op.PendingEvents()
	if len(pending) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	streamID := operation.StreamID(op.OperationNumber())
	if len(s.streams[streamID]) != op.Version() {
		return fmt.Errorf("stream %s at version %d, expected %d: %w",
			streamID, len(s.streams[streamID]), op.Version(), sentinel.ErrConflict)
	}
	s.streams[streamID] = append(s.streams[streamID], pending...)
	op.MarkCommitted()
	return nil
}
