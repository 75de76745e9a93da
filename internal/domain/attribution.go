package domain

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

//go:generate mockgen -destination mocks/mock_attribution_repository.go -package mocks github.com/leadpipe/leadpipe/internal/domain AttributionRepository

// LeadAttribution ties a contact to the ad that produced one lead. Append-only.
type LeadAttribution struct {
	ID           string          `json:"id"`
	WorkspaceID  string          `json:"workspace_id"`
	ContactID    string          `json:"contact_id"`
	RawEventID   string          `json:"raw_event_id"`
	ChannelID    string          `json:"channel_id"`
	FormID       *string         `json:"form_id,omitempty"`
	AdID         *string         `json:"ad_id,omitempty"`
	AdName       *string         `json:"ad_name,omitempty"`
	AdsetID      *string         `json:"adset_id,omitempty"`
	AdsetName    *string         `json:"adset_name,omitempty"`
	CampaignID   *string         `json:"campaign_id,omitempty"`
	CampaignName *string         `json:"campaign_name,omitempty"`
	Platform     *string         `json:"platform,omitempty"`
	IsOrganic    bool            `json:"is_organic"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type AttributionRepository interface {
	CreateTx(ctx context.Context, tx *sql.Tx, attribution *LeadAttribution) error
	CountByContact(ctx context.Context, contactID string) (int64, error)
}
