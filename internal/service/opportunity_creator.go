package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leadpipe/leadpipe/internal/domain"
)

// externalIDTitleLength bounds the lead id used as a last-resort title
const externalIDTitleLength = 12

type OpportunityCreator struct {
	repo  domain.OpportunityRepository
	now   func() time.Time
	newID func() string
}

func NewOpportunityCreator(repo domain.OpportunityRepository) *OpportunityCreator {
	return &OpportunityCreator{
		repo:  repo,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.New().String() },
	}
}

// CreateOpportunityTx opens an opportunity at the route's stage and records
// its origin in the stage history
func (c *OpportunityCreator) CreateOpportunityTx(ctx context.Context, tx *sql.Tx, in *domain.OpportunityInput) (*domain.Opportunity, error) {
	now := c.now()
	opp := &domain.Opportunity{
		ID:          c.newID(),
		WorkspaceID: in.Route.WorkspaceID,
		ContactID:   in.Contact.ID,
		PipelineID:  in.Route.PipelineID,
		StageID:     in.Route.StageID,
		Title:       OpportunityTitle(in.Lead, in.ExternalLeadID),
		AssigneeID:  in.Route.AssigneeID,
		Source:      domain.ContactSourceLeadAds,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := c.repo.CreateTx(ctx, tx, opp); err != nil {
		return nil, err
	}

	entry := &domain.StageHistory{
		ID:            c.newID(),
		OpportunityID: opp.ID,
		FromStageID:   nil,
		ToStageID:     opp.StageID,
		ChangedAt:     now,
		Reason:        domain.StageHistoryReasonLeadIngested,
	}
	if err := c.repo.AddStageHistoryTx(ctx, tx, entry); err != nil {
		return nil, err
	}

	return opp, nil
}

// OpportunityTitle is "Lead: " followed by the full name, the email or a
// prefix of the external lead id, whichever is available first
func OpportunityTitle(lead *domain.MappedLead, externalLeadID string) string {
	name := strings.TrimSpace(lead.FullName)
	if name == "" {
		name = strings.TrimSpace(lead.FirstName + " " + lead.LastName)
	}
	if name != "" {
		return "Lead: " + name
	}
	if lead.Email != "" {
		return "Lead: " + lead.Email
	}
	id := externalLeadID
	if len(id) > externalIDTitleLength {
		id = id[:externalIDTitleLength]
	}
	return "Lead: " + id
}
