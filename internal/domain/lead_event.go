package domain

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/asaskevich/govalidator"
)

//go:generate mockgen -destination mocks/mock_lead_event_repository.go -package mocks github.com/leadpipe/leadpipe/internal/domain LeadEventRepository

// LeadEventStatus is the processing state of a raw lead event
type LeadEventStatus string

const (
	LeadEventStatusPending    LeadEventStatus = "pending"
	LeadEventStatusProcessing LeadEventStatus = "processing"
	LeadEventStatusCompleted  LeadEventStatus = "completed"
	LeadEventStatusFailed     LeadEventStatus = "failed"
)

// Messages written to error_message by the scheduler
const (
	StaleResetMessage = "reset from stale processing state"
	ExhaustedMessage  = "max retry attempts exceeded"
)

func (s LeadEventStatus) Validate() error {
	switch s {
	case LeadEventStatusPending, LeadEventStatusProcessing, LeadEventStatusCompleted, LeadEventStatusFailed:
		return nil
	default:
		return fmt.Errorf("invalid lead event status: %q", string(s))
	}
}

// CanTransitionTo lists the legal moves of the state machine.
// completed is terminal; processing -> pending is the stale reset and
// failed -> pending is the manual retry.
func (s LeadEventStatus) CanTransitionTo(next LeadEventStatus) bool {
	switch s {
	case LeadEventStatusPending:
		return next == LeadEventStatusProcessing || next == LeadEventStatusFailed
	case LeadEventStatusProcessing:
		return next == LeadEventStatusCompleted || next == LeadEventStatusFailed || next == LeadEventStatusPending
	case LeadEventStatusFailed:
		return next == LeadEventStatusProcessing || next == LeadEventStatusPending
	case LeadEventStatusCompleted:
		return false
	default:
		return false
	}
}

// IsRetryable reports whether the scheduler may pick the row up
func (s LeadEventStatus) IsRetryable() bool {
	return s == LeadEventStatusPending || s == LeadEventStatusFailed
}

// LeadNotification is one leadgen change delivered by the platform webhook
type LeadNotification struct {
	ExternalLeadID string `json:"leadgen_id" valid:"required"`
	ChannelID      string `json:"page_id" valid:"required"`
	FormID         string `json:"form_id,omitempty"`
	AdID           string `json:"ad_id,omitempty"`
	AdsetID        string `json:"adgroup_id,omitempty"`
	CampaignID     string `json:"campaign_id,omitempty"`
	CreatedTime    int64  `json:"created_time,omitempty"`

	// Raw change value as delivered
	Payload json.RawMessage `json:"-"`
}

func (n *LeadNotification) Validate() error {
	if _, err := govalidator.ValidateStruct(n); err != nil {
		return NewValidationError(err.Error())
	}
	return nil
}

// RawLeadEvent is the durable record of one lead notification
type RawLeadEvent struct {
	ID                  string          `json:"id"`
	ExternalLeadID      string          `json:"external_lead_id"`
	OrgID               string          `json:"org_id"`
	ChannelID           string          `json:"channel_id"`
	FormID              *string         `json:"form_id,omitempty"`
	AdID                *string         `json:"ad_id,omitempty"`
	AdsetID             *string         `json:"adset_id,omitempty"`
	CampaignID          *string         `json:"campaign_id,omitempty"`
	Payload             json.RawMessage `json:"payload"`
	FieldData           json.RawMessage `json:"field_data,omitempty"`
	Status              LeadEventStatus `json:"status"`
	RetryCount          int             `json:"retry_count"`
	ProcessingStartedAt *time.Time      `json:"processing_started_at,omitempty"`
	ErrorMessage        *string         `json:"error_message,omitempty"`
	FailureKind         *FailureKind    `json:"failure_kind,omitempty"`
	ContactID           *string         `json:"contact_id,omitempty"`
	OpportunityID       *string         `json:"opportunity_id,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	FetchedAt           *time.Time      `json:"fetched_at,omitempty"`
	ProcessedAt         *time.Time      `json:"processed_at,omitempty"`
}

// LeadClaim identifies one worker's ownership of a processing row. A stale
// reset followed by a new claim changes StartedAt, which voids the old claim.
type LeadClaim struct {
	RawEventID string
	StartedAt  time.Time
}

// Holds reports whether the claim still owns e
func (c *LeadClaim) Holds(e *RawLeadEvent) bool {
	return e.ID == c.RawEventID &&
		e.Status == LeadEventStatusProcessing &&
		e.ProcessingStartedAt != nil &&
		e.ProcessingStartedAt.Equal(c.StartedAt)
}

// NewRawLeadEvent builds a pending row for a notification
func NewRawLeadEvent(id, orgID string, n *LeadNotification, now time.Time) *RawLeadEvent {
	payload := n.Payload
	if len(payload) == 0 {
		payload, _ = json.Marshal(n)
	}
	return &RawLeadEvent{
		ID:             id,
		ExternalLeadID: n.ExternalLeadID,
		OrgID:          orgID,
		ChannelID:      n.ChannelID,
		FormID:         optionalString(n.FormID),
		AdID:           optionalString(n.AdID),
		AdsetID:        optionalString(n.AdsetID),
		CampaignID:     optionalString(n.CampaignID),
		Payload:        payload,
		Status:         LeadEventStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// ExternalFormID returns the notification's form id or ""
func (e *RawLeadEvent) ExternalFormID() string {
	if e.FormID == nil {
		return ""
	}
	return *e.FormID
}

// LeadEventCompletion is written in the same transaction as the CRM records
type LeadEventCompletion struct {
	ContactID     string
	OpportunityID string
	FieldData     json.RawMessage
	FetchedAt     time.Time
	ProcessedAt   time.Time
}

// LeadEventStats counts rows per status
type LeadEventStats struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Completed  int64 `json:"completed"`
	Failed     int64 `json:"failed"`
	// failed rows that reached the retry ceiling
	Exhausted int64 `json:"exhausted"`
}

// ListFailedLeadEventsRequest filters the failed-lead listing
type ListFailedLeadEventsRequest struct {
	Limit       int         `json:"limit"`
	Offset      int         `json:"offset"`
	FailureKind FailureKind `json:"failure_kind,omitempty"`
}

func (r *ListFailedLeadEventsRequest) FromQueryParams(q url.Values) error {
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return NewValidationError("limit must be a number")
		}
		r.Limit = limit
	}
	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			return NewValidationError("offset must be a number")
		}
		r.Offset = offset
	}
	r.FailureKind = FailureKind(q.Get("failure_kind"))
	return r.Validate()
}

func (r *ListFailedLeadEventsRequest) Validate() error {
	if r.Limit == 0 {
		r.Limit = 50
	}
	if r.Limit < 0 || r.Limit > 500 {
		return NewValidationError("limit must be between 1 and 500")
	}
	if r.Offset < 0 {
		return NewValidationError("offset must not be negative")
	}
	if r.FailureKind != "" {
		if err := r.FailureKind.Validate(); err != nil {
			return NewValidationError(err.Error())
		}
	}
	return nil
}

type ListFailedLeadEventsResponse struct {
	Events     []*RawLeadEvent `json:"events"`
	TotalCount int64           `json:"total_count"`
}

// RetryLeadEventRequest is the body of the manual retry endpoint
type RetryLeadEventRequest struct {
	ID string `json:"id" valid:"required,uuid"`
}

func (r *RetryLeadEventRequest) Validate() error {
	if _, err := govalidator.ValidateStruct(r); err != nil {
		return NewValidationError(err.Error())
	}
	return nil
}

// LeadEventRepository is the Raw Event Store
type LeadEventRepository interface {
	// StoreRawEvent inserts a pending row unless one exists for the
	// notification's external lead id. Never modifies an existing row.
	StoreRawEvent(ctx context.Context, orgID string, n *LeadNotification) (id string, isNew bool, err error)

	GetByID(ctx context.Context, id string) (*RawLeadEvent, error)

	// ClaimForProcessing moves a pending or failed row with retry_count < maxRetries
	// to processing, stamps processing_started_at and increments retry_count.
	// Returns nil when another worker won or the row is no longer claimable.
	ClaimForProcessing(ctx context.Context, id string, maxRetries int) (*LeadClaim, error)

	// MarkCompletedTx finalizes the claimed row inside the pipeline transaction.
	// Wraps ErrClaimLost when the claim no longer holds.
	MarkCompletedTx(ctx context.Context, tx *sql.Tx, claim *LeadClaim, c *LeadEventCompletion) error

	// FailClaim records a failure on the claimed row. Wraps ErrClaimLost when
	// the claim no longer holds.
	FailClaim(ctx context.Context, claim *LeadClaim, message string, kind FailureKind) error

	// MarkFailed records a failure on a row nobody holds (pending or failed)
	MarkFailed(ctx context.Context, id string, message string, kind FailureKind) error

	// ListRetryable returns pending or failed rows under the ceiling, oldest first
	ListRetryable(ctx context.Context, maxRetries, limit int) ([]*RawLeadEvent, error)

	// ResetStale returns processing rows started before olderThan to pending
	ResetStale(ctx context.Context, olderThan time.Time) (int64, error)

	// ResetForRetry zeroes retry_count, clears errors and sets pending. Completed rows are left alone.
	ResetForRetry(ctx context.Context, id string) error

	GetStats(ctx context.Context, maxRetries int) (*LeadEventStats, error)

	ListFailed(ctx context.Context, req *ListFailedLeadEventsRequest) ([]*RawLeadEvent, int64, error)

	WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
