package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination mocks/mock_ingest_route_repository.go -package mocks github.com/leadpipe/leadpipe/internal/domain IngestRouteRepository

// IngestRoute decides where leads of a channel, or of one form of it, land in the CRM.
// A nil FormID makes it the channel-level fallback.
type IngestRoute struct {
	ID          string    `json:"id"`
	OrgID       string    `json:"org_id"`
	ChannelID   string    `json:"channel_id"`
	FormID      *string   `json:"form_id,omitempty"`
	WorkspaceID string    `json:"workspace_id"`
	PipelineID  string    `json:"pipeline_id"`
	StageID     string    `json:"stage_id"`
	AssigneeID  *string   `json:"assignee_id,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Mappings []*FieldMapping `json:"mappings,omitempty"`
}

// IsFormRoute reports whether the route is bound to a specific form
func (r *IngestRoute) IsFormRoute() bool {
	return r.FormID != nil
}

type IngestRouteRepository interface {
	// GetActiveFormRoute returns the active route bound to the registered form
	// with the given external id under the channel
	GetActiveFormRoute(ctx context.Context, channelID, externalFormID string) (*IngestRoute, error)

	// GetActiveChannelRoute returns the oldest active route of the channel with no form
	GetActiveChannelRoute(ctx context.Context, channelID string) (*IngestRoute, error)

	ListMappings(ctx context.Context, routeID string) ([]*StoredFieldMapping, error)
}
