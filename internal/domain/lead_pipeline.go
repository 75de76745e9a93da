package domain

import (
	"context"
)

//go:generate mockgen -destination mocks/mock_lead_pipeline.go -package mocks github.com/leadpipe/leadpipe/internal/domain LeadPipeline,LeadIntakeService,LeadEventService,LeadRetrier,LeadDispatcher

// ProcessOutcome is the result class of one ProcessLeadEvent call
type ProcessOutcome string

const (
	ProcessOutcomeCompleted ProcessOutcome = "completed"
	ProcessOutcomeSkipped   ProcessOutcome = "skipped"
	ProcessOutcomeFailed    ProcessOutcome = "failed"
)

// ProcessResult describes one pipeline run
type ProcessResult struct {
	RawEventID    string         `json:"raw_event_id"`
	Outcome       ProcessOutcome `json:"outcome"`
	SkipReason    string         `json:"skip_reason,omitempty"`
	ContactID     string         `json:"contact_id,omitempty"`
	OpportunityID string         `json:"opportunity_id,omitempty"`
	IsNewContact  bool           `json:"is_new_contact"`
	MatchedOn     MatchedOn      `json:"matched_on,omitempty"`
	FailedStep    PipelineStep   `json:"failed_step,omitempty"`
	FailureKind   FailureKind    `json:"failure_kind,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// LeadPipeline drives one raw event through fetch, routing, dedup and CRM writes
type LeadPipeline interface {
	// ProcessLeadEvent never returns a step failure as error: failures are
	// recorded on the row and reported in the result. The error is reserved
	// for the row not existing or the store being unreachable.
	ProcessLeadEvent(ctx context.Context, rawEventID string) (*ProcessResult, error)
}

// IngestSummary reports what intake did with one webhook delivery
type IngestSummary struct {
	Received  int      `json:"received"`
	Stored    int      `json:"stored"`
	Duplicate int      `json:"duplicate"`
	Skipped   int      `json:"skipped"`
	EventIDs  []string `json:"event_ids"`
}

// LeadIntakeService turns webhook notifications into raw events
type LeadIntakeService interface {
	Ingest(ctx context.Context, notifications []*LeadNotification) (*IngestSummary, error)
}

// LeadRetrier is the manual retry entry point of the scheduler
type LeadRetrier interface {
	RetryNow(ctx context.Context, rawEventID string) (*ProcessResult, error)
}

// LeadDispatcher accepts freshly stored events for immediate processing
type LeadDispatcher interface {
	// Dispatch never blocks; it reports whether the id was queued
	Dispatch(rawEventID string) bool
}

// LeadEventService backs the operator API and CLI
type LeadEventService interface {
	GetStats(ctx context.Context) (*LeadEventStats, error)
	ListFailed(ctx context.Context, req *ListFailedLeadEventsRequest) (*ListFailedLeadEventsResponse, error)
	Retry(ctx context.Context, rawEventID string) (*ProcessResult, error)
}
