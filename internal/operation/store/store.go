// Package store persists Operation aggregates as event streams. Implementations
// are interface-driven so the workflow service can run against in-memory,
// PostgreSQL, or future persistence without rewiring business code.
package store

import (
	"context"

	"sgprep/internal/operation"
)

// Store loads and commits operation aggregates. Get returns
// sentinel.ErrNotFound (wrapped) when the stream does not exist. Save appends
// the aggregate's pending events as one unit of work and returns
// sentinel.ErrConflict when another writer committed first.
type Store interface {
	Get(ctx context.Context, opNumber string) (*operation.Operation, error)
	Save(ctx context.Context, op *operation.Operation) error
}

var (
	_ Store = (*InMemoryStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
