package domain

import (
	"context"
	"encoding/json"
	"time"
)

//go:generate mockgen -destination mocks/mock_audit_log_repository.go -package mocks github.com/leadpipe/leadpipe/internal/domain AuditLogRepository
//go:generate mockgen -destination mocks/mock_outbox_repository.go -package mocks github.com/leadpipe/leadpipe/internal/domain OutboxRepository

const (
	AuditActionContactCreated = "contact.created"
	AuditActionContactUpdated = "contact.updated"

	OutboxEventContactCreated     = "contact.created"
	OutboxEventOpportunityCreated = "opportunity.created"

	AggregateContact     = "contact"
	AggregateOpportunity = "opportunity"
)

type AuditLog struct {
	ID          string          `json:"id"`
	OrgID       string          `json:"org_id"`
	WorkspaceID string          `json:"workspace_id"`
	Action      string          `json:"action"`
	EntityType  string          `json:"entity_type"`
	EntityID    string          `json:"entity_id"`
	Metadata    json.RawMessage `json:"metadata"`
	CreatedAt   time.Time       `json:"created_at"`
}

// OutboxEvent is a domain event awaiting relay to downstream consumers
type OutboxEvent struct {
	ID            string          `json:"id"`
	WorkspaceID   string          `json:"workspace_id"`
	EventType     string          `json:"event_type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	Payload       json.RawMessage `json:"payload"`
	CreatedAt     time.Time       `json:"created_at"`
	PublishedAt   *time.Time      `json:"published_at,omitempty"`
	AttemptCount  int             `json:"attempt_count"`
	LastError     *string         `json:"last_error,omitempty"`
}

type AuditLogRepository interface {
	Create(ctx context.Context, entry *AuditLog) error
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, events []*OutboxEvent) error
}
