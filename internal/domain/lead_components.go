package domain

import (
	"context"
	"database/sql"

	"github.com/leadpipe/leadpipe/pkg/graphapi"
)

//go:generate mockgen -destination mocks/mock_lead_components.go -package mocks github.com/leadpipe/leadpipe/internal/domain LeadFetcher,RouteResolver,ContactResolver,OpportunityCreator,LeadEventPublisher

// LeadFetcher loads lead detail from the platform on behalf of a channel
type LeadFetcher interface {
	FetchLeadDetail(ctx context.Context, channel *Channel, externalLeadID string) (*graphapi.LeadDetail, error)
}

// RouteResolver picks the active route for a channel and optional form
// and loads its validated field mappings
type RouteResolver interface {
	ResolveRoute(ctx context.Context, channelID, externalFormID string) (*IngestRoute, error)
}

// ContactResolver finds or creates the contact of a lead inside the pipeline transaction
type ContactResolver interface {
	ResolveContactTx(ctx context.Context, tx *sql.Tx, workspaceID string, lead *MappedLead) (*ContactResolution, error)
}

// OpportunityInput carries what the opportunity creator needs
type OpportunityInput struct {
	Route          *IngestRoute
	Contact        *Contact
	Lead           *MappedLead
	ExternalLeadID string
}

type OpportunityCreator interface {
	CreateOpportunityTx(ctx context.Context, tx *sql.Tx, in *OpportunityInput) (*Opportunity, error)
}

// PublishInput describes a committed pipeline run
type PublishInput struct {
	Event       *RawLeadEvent
	Channel     *Channel
	Route       *IngestRoute
	Resolution  *ContactResolution
	Opportunity *Opportunity
}

// LeadEventPublisher writes audit and outbox records after commit
type LeadEventPublisher interface {
	Publish(ctx context.Context, in *PublishInput) error
}
