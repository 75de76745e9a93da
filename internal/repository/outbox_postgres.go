package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/leadpipe/leadpipe/internal/domain"
)

// OutboxRepository enqueues domain events for a relay to publish
type OutboxRepository struct {
	db *sql.DB
}

// NewOutboxRepository creates a new OutboxRepository
func NewOutboxRepository(db *sql.DB) domain.OutboxRepository {
	return &OutboxRepository{db: db}
}

// Enqueue writes all events in one statement so they land together or not at all
func (r *OutboxRepository) Enqueue(ctx context.Context, events []*domain.OutboxEvent) error {
	if len(events) == 0 {
		return nil
	}

	insert := psql.Insert("outbox_events").
		Columns("id", "workspace_id", "event_type", "aggregate_type", "aggregate_id", "payload", "created_at", "attempt_count")
	for _, e := range events {
		payload := []byte(e.Payload)
		if len(payload) == 0 {
			payload = []byte("{}")
		}
		insert = insert.Values(e.ID, e.WorkspaceID, e.EventType, e.AggregateType, e.AggregateID, payload, e.CreatedAt, 0)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to enqueue outbox events: %w", err)
	}
	return nil
}
