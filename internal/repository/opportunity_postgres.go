package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/leadpipe/leadpipe/internal/domain"
)

type OpportunityRepository struct{}

// NewOpportunityRepository creates a new OpportunityRepository
func NewOpportunityRepository() domain.OpportunityRepository {
	return &OpportunityRepository{}
}

func (r *OpportunityRepository) CreateTx(ctx context.Context, tx *sql.Tx, o *domain.Opportunity) error {
	query := `
		INSERT INTO opportunities (
			id, workspace_id, contact_id, pipeline_id, stage_id, title, assignee_id, source, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := tx.ExecContext(ctx, query,
		o.ID, o.WorkspaceID, o.ContactID, o.PipelineID, o.StageID, o.Title,
		o.AssigneeID, o.Source, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create opportunity: %w", err)
	}
	return nil
}

func (r *OpportunityRepository) AddStageHistoryTx(ctx context.Context, tx *sql.Tx, h *domain.StageHistory) error {
	query := `
		INSERT INTO opportunity_stage_history (id, opportunity_id, from_stage_id, to_stage_id, changed_at, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := tx.ExecContext(ctx, query, h.ID, h.OpportunityID, h.FromStageID, h.ToStageID, h.ChangedAt, h.Reason)
	if err != nil {
		return fmt.Errorf("failed to add stage history: %w", err)
	}
	return nil
}
