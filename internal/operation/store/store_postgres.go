package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"sgprep/internal/operation"
	"sgprep/pkg/platform/sentinel"
)

// PostgresStore persists each aggregate as an append-only event stream. The
// (stream_id, version) primary key is the optimistic concurrency control: two
// writers loading the same version race on the insert and the loser gets a
// unique violation, surfaced as sentinel.ErrConflict.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema for the events table. Applied by migrations; kept here so the store
// and its tests agree on the shape.
const Schema = `
CREATE TABLE IF NOT EXISTS operation_events (
	stream_id   TEXT        NOT NULL,
	version     INTEGER     NOT NULL,
	event_type  TEXT        NOT NULL,
	payload     JSONB       NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (stream_id, version)
)`

func (s *PostgresStore) Get(ctx context.Context, opNumber string) (*operation.Operation, error) {
	streamID := operation.StreamID(opNumber)
	rows, err := s.db.QueryContext(ctx, `
		SELECT event_type, payload
		FROM operation_events
		WHERE stream_id = $1
		ORDER BY version
	`, streamID)
	if err != nil {
		return nil, fmt.Errorf("load stream %s: %w", streamID, err)
	}
	defer rows.Close()

	var events []operation.Event
	for rows.Next() {
		var eventType string
		var payload []byte
		if err := rows.Scan(&eventType, &payload); err != nil {
			return nil, fmt.Errorf("scan stream %s: %w", streamID, err)
		}
		event, err := operation.DecodeEvent(eventType, payload)
		if err != nil {
			return nil, fmt.Errorf("stream %s: %w", streamID, err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read stream %s: %w", streamID, err)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("stream %s: %w", streamID, sentinel.ErrNotFound)
	}
	return operation.Replay(events), nil
}

func (s *PostgresStore) Save(ctx context.Context, op *operation.Operation) error {
	pending := op.PendingEvents()
	if len(pending) == 0 {
		return nil
	}

	streamID := operation.StreamID(op.OperationNumber())
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin commit for %s: %w", streamID, err)
	}
	defer func() { _ = tx.Rollback() }()

	version := op.Version()
	for i, event := range pending {
		payload, err := operation.EncodeEvent(event)
		if err != nil {
			return fmt.Errorf("encode event %s for %s: %w", event.EventType(), streamID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO operation_events (stream_id, version, event_type, payload, occurred_at)
			VALUES ($1, $2, $3, $4, $5)
		`, streamID, version+i, event.EventType(), payload, event.OccurredAt())
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
				return fmt.Errorf("stream %s version %d: %w", streamID, version+i, sentinel.ErrConflict)
			}
			return fmt.Errorf("append to %s: %w", streamID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", streamID, err)
	}
	op.MarkCommitted()
	return nil
}
