package domain

import (
	"context"
	"database/sql"
	"time"
)

//go:generate mockgen -destination mocks/mock_opportunity_repository.go -package mocks github.com/leadpipe/leadpipe/internal/domain OpportunityRepository

// StageHistoryReasonLeadIngested is recorded on the origin stage entry
const StageHistoryReasonLeadIngested = "lead_ingested"

type Opportunity struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	ContactID   string    `json:"contact_id"`
	PipelineID  string    `json:"pipeline_id"`
	StageID     string    `json:"stage_id"`
	Title       string    `json:"title"`
	AssigneeID  *string   `json:"assignee_id,omitempty"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StageHistory is one stage move of an opportunity. A nil FromStageID marks its origin.
type StageHistory struct {
	ID            string    `json:"id"`
	OpportunityID string    `json:"opportunity_id"`
	FromStageID   *string   `json:"from_stage_id,omitempty"`
	ToStageID     string    `json:"to_stage_id"`
	ChangedAt     time.Time `json:"changed_at"`
	Reason        string    `json:"reason"`
}

type OpportunityRepository interface {
	CreateTx(ctx context.Context, tx *sql.Tx, opportunity *Opportunity) error
	AddStageHistoryTx(ctx context.Context, tx *sql.Tx, entry *StageHistory) error
}
