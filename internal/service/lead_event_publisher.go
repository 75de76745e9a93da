package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/leadpipe/leadpipe/internal/domain"
)

// LeadEventPublisher records the audit entry and outbox events of a
// committed pipeline run
type LeadEventPublisher struct {
	auditRepo  domain.AuditLogRepository
	outboxRepo domain.OutboxRepository
	now        func() time.Time
	newID      func() string
}

func NewLeadEventPublisher(auditRepo domain.AuditLogRepository, outboxRepo domain.OutboxRepository) *LeadEventPublisher {
	return &LeadEventPublisher{
		auditRepo:  auditRepo,
		outboxRepo: outboxRepo,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      func() string { return uuid.New().String() },
	}
}

type auditMetadata struct {
	MatchedOn     domain.MatchedOn `json:"matched_on"`
	UpdatedFields []string         `json:"updated_fields,omitempty"`
	RouteID       string           `json:"route_id"`
	ChannelID     string           `json:"channel_id"`
	FormID        string           `json:"form_id,omitempty"`
	RawEventID    string           `json:"raw_event_id"`
	OpportunityID string           `json:"opportunity_id"`
}

type contactCreatedPayload struct {
	ContactID   string `json:"contact_id"`
	WorkspaceID string `json:"workspace_id"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Source      string `json:"source"`
	RawEventID  string `json:"raw_event_id"`
}

type opportunityCreatedPayload struct {
	OpportunityID string  `json:"opportunity_id"`
	ContactID     string  `json:"contact_id"`
	WorkspaceID   string  `json:"workspace_id"`
	PipelineID    string  `json:"pipeline_id"`
	StageID       string  `json:"stage_id"`
	AssigneeID    *string `json:"assignee_id,omitempty"`
	Title         string  `json:"title"`
	RawEventID    string  `json:"raw_event_id"`
}

// Publish writes the audit row and the outbox events. Both are attempted;
// the returned error joins whatever failed.
func (p *LeadEventPublisher) Publish(ctx context.Context, in *domain.PublishInput) error {
	now := p.now()
	contact := in.Resolution.Contact

	action := domain.AuditActionContactUpdated
	if in.Resolution.IsNew {
		action = domain.AuditActionContactCreated
	}

	metadata, err := json.Marshal(auditMetadata{
		MatchedOn:     in.Resolution.MatchedOn,
		UpdatedFields: in.Resolution.UpdatedFields,
		RouteID:       in.Route.ID,
		ChannelID:     in.Channel.ID,
		FormID:        in.Event.ExternalFormID(),
		RawEventID:    in.Event.ID,
		OpportunityID: in.Opportunity.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal audit metadata: %w", err)
	}

	var errs []error
	auditErr := p.auditRepo.Create(ctx, &domain.AuditLog{
		ID:          p.newID(),
		OrgID:       in.Event.OrgID,
		WorkspaceID: contact.WorkspaceID,
		Action:      action,
		EntityType:  domain.AggregateContact,
		EntityID:    contact.ID,
		Metadata:    metadata,
		CreatedAt:   now,
	})
	if auditErr != nil {
		errs = append(errs, fmt.Errorf("audit: %w", auditErr))
	}

	events, err := p.outboxEvents(in, now)
	if err != nil {
		errs = append(errs, err)
	} else if err := p.outboxRepo.Enqueue(ctx, events); err != nil {
		errs = append(errs, fmt.Errorf("outbox: %w", err))
	}

	return errors.Join(errs...)
}

func (p *LeadEventPublisher) outboxEvents(in *domain.PublishInput, now time.Time) ([]*domain.OutboxEvent, error) {
	contact := in.Resolution.Contact
	opp := in.Opportunity
	events := make([]*domain.OutboxEvent, 0, 2)

	if in.Resolution.IsNew {
		payload, err := json.Marshal(contactCreatedPayload{
			ContactID:   contact.ID,
			WorkspaceID: contact.WorkspaceID,
			Email:       contact.Email,
			Phone:       contact.Phone,
			Source:      contact.Source,
			RawEventID:  in.Event.ID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal contact payload: %w", err)
		}
		events = append(events, &domain.OutboxEvent{
			ID:            p.newID(),
			WorkspaceID:   contact.WorkspaceID,
			EventType:     domain.OutboxEventContactCreated,
			AggregateType: domain.AggregateContact,
			AggregateID:   contact.ID,
			Payload:       payload,
			CreatedAt:     now,
		})
	}

	payload, err := json.Marshal(opportunityCreatedPayload{
		OpportunityID: opp.ID,
		ContactID:     opp.ContactID,
		WorkspaceID:   opp.WorkspaceID,
		PipelineID:    opp.PipelineID,
		StageID:       opp.StageID,
		AssigneeID:    opp.AssigneeID,
		Title:         opp.Title,
		RawEventID:    in.Event.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal opportunity payload: %w", err)
	}
	events = append(events, &domain.OutboxEvent{
		ID:            p.newID(),
		WorkspaceID:   opp.WorkspaceID,
		EventType:     domain.OutboxEventOpportunityCreated,
		AggregateType: domain.AggregateOpportunity,
		AggregateID:   opp.ID,
		Payload:       payload,
		CreatedAt:     now,
	})

	return events, nil
}
