package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/leadpipe/leadpipe/internal/domain"
)

// AttributionRepository appends lead attribution rows; rows are never updated
type AttributionRepository struct {
	db *sql.DB
}

// NewAttributionRepository creates a new AttributionRepository
func NewAttributionRepository(db *sql.DB) domain.AttributionRepository {
	return &AttributionRepository{db: db}
}

func (r *AttributionRepository) CreateTx(ctx context.Context, tx *sql.Tx, a *domain.LeadAttribution) error {
	query := `
		INSERT INTO lead_attributions (
			id, workspace_id, contact_id, raw_event_id, channel_id, form_id, ad_id, ad_name,
			adset_id, adset_name, campaign_id, campaign_name, platform, is_organic, payload, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	var payload interface{}
	if len(a.Payload) > 0 {
		payload = []byte(a.Payload)
	}

	_, err := tx.ExecContext(ctx, query,
		a.ID, a.WorkspaceID, a.ContactID, a.RawEventID, a.ChannelID, a.FormID,
		a.AdID, a.AdName, a.AdsetID, a.AdsetName, a.CampaignID, a.CampaignName,
		a.Platform, a.IsOrganic, payload, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create lead attribution: %w", err)
	}
	return nil
}

func (r *AttributionRepository) CountByContact(ctx context.Context, contactID string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lead_attributions WHERE contact_id = $1`, contactID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count lead attributions: %w", err)
	}
	return count, nil
}
