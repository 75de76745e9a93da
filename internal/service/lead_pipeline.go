package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/leadpipe/leadpipe/config"
	"github.com/leadpipe/leadpipe/internal/domain"
	"github.com/leadpipe/leadpipe/pkg/graphapi"
	"github.com/leadpipe/leadpipe/pkg/logger"
	"github.com/leadpipe/leadpipe/pkg/tracing"
)

const leadPipelineSpanName = "LeadPipeline"

// LeadPipelineServiceConfig holds the collaborators of the pipeline driver
type LeadPipelineServiceConfig struct {
	LeadEventRepo   domain.LeadEventRepository
	ChannelRepo     domain.ChannelRepository
	AttributionRepo domain.AttributionRepository
	Fetcher         domain.LeadFetcher
	Routes          domain.RouteResolver
	Contacts        domain.ContactResolver
	Opportunities   domain.OpportunityCreator
	Publisher       domain.LeadEventPublisher
	Pipeline        config.PipelineConfig
	Logger          logger.Logger
}

// LeadPipelineService implements domain.LeadPipeline
type LeadPipelineService struct {
	eventRepo       domain.LeadEventRepository
	channelRepo     domain.ChannelRepository
	attributionRepo domain.AttributionRepository
	fetcher         domain.LeadFetcher
	routes          domain.RouteResolver
	contacts        domain.ContactResolver
	opportunities   domain.OpportunityCreator
	publisher       domain.LeadEventPublisher
	maxRetries      int
	fetchTimeout    time.Duration
	logger          logger.Logger

	now   func() time.Time
	newID func() string
}

// NewLeadPipelineService creates the pipeline driver
func NewLeadPipelineService(cfg LeadPipelineServiceConfig) (*LeadPipelineService, error) {
	switch {
	case cfg.LeadEventRepo == nil:
		return nil, fmt.Errorf("lead event repository is required")
	case cfg.ChannelRepo == nil:
		return nil, fmt.Errorf("channel repository is required")
	case cfg.AttributionRepo == nil:
		return nil, fmt.Errorf("attribution repository is required")
	case cfg.Fetcher == nil:
		return nil, fmt.Errorf("lead fetcher is required")
	case cfg.Routes == nil:
		return nil, fmt.Errorf("route resolver is required")
	case cfg.Contacts == nil:
		return nil, fmt.Errorf("contact resolver is required")
	case cfg.Opportunities == nil:
		return nil, fmt.Errorf("opportunity creator is required")
	case cfg.Publisher == nil:
		return nil, fmt.Errorf("publisher is required")
	case cfg.Logger == nil:
		return nil, fmt.Errorf("logger is required")
	}

	maxRetries := cfg.Pipeline.MaxRetryAttempts
	if maxRetries <= 0 {
		maxRetries = 3
	}
	fetchTimeout := cfg.Pipeline.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = 30 * time.Second
	}

	return &LeadPipelineService{
		eventRepo:       cfg.LeadEventRepo,
		channelRepo:     cfg.ChannelRepo,
		attributionRepo: cfg.AttributionRepo,
		fetcher:         cfg.Fetcher,
		routes:          cfg.Routes,
		contacts:        cfg.Contacts,
		opportunities:   cfg.Opportunities,
		publisher:       cfg.Publisher,
		maxRetries:      maxRetries,
		fetchTimeout:    fetchTimeout,
		logger:          cfg.Logger,
		now:             func() time.Time { return time.Now().UTC() },
		newID:           func() string { return uuid.New().String() },
	}, nil
}

// ProcessLeadEvent runs one raw event through the pipeline. Once the row is
// claimed the run is not cancelled by ctx: it either completes or is marked
// failed, and a crash leaves it to stale recovery.
func (s *LeadPipelineService) ProcessLeadEvent(ctx context.Context, rawEventID string) (*domain.ProcessResult, error) {
	ctx, span := tracing.StartServiceSpan(ctx, leadPipelineSpanName, "ProcessLeadEvent")
	defer span.End()
	tracing.AddAttribute(ctx, "raw_event_id", rawEventID)

	event, err := s.eventRepo.GetByID(ctx, rawEventID)
	if err != nil {
		tracing.MarkSpanError(ctx, err)
		return nil, err
	}

	log := s.logger.WithFields(map[string]interface{}{
		"raw_event_id":     event.ID,
		"external_lead_id": event.ExternalLeadID,
		"channel_id":       event.ChannelID,
	})

	result := &domain.ProcessResult{RawEventID: event.ID}

	switch {
	case event.Status == domain.LeadEventStatusCompleted:
		return s.skip(ctx, result, "already completed"), nil
	case !event.Status.CanTransitionTo(domain.LeadEventStatusProcessing):
		return s.skip(ctx, result, "already "+string(event.Status)), nil
	case event.RetryCount >= s.maxRetries:
		if err := s.eventRepo.MarkFailed(ctx, event.ID, domain.ExhaustedMessage, domain.FailureKindExhausted); err != nil {
			return nil, err
		}
		log.WithField("retry_count", event.RetryCount).Warn("Lead event reached max retry attempts")
		result.Outcome = domain.ProcessOutcomeFailed
		result.FailedStep = domain.StepClaim
		result.FailureKind = domain.FailureKindExhausted
		result.Error = domain.ExhaustedMessage
		tracing.RecordLeadProcessed(ctx, string(result.Outcome))
		return result, nil
	}

	claim, err := s.eventRepo.ClaimForProcessing(ctx, event.ID, s.maxRetries)
	if err != nil {
		tracing.MarkSpanError(ctx, err)
		return nil, err
	}
	if claim == nil {
		return s.skip(ctx, result, "claimed by another worker"), nil
	}
	event.Status = domain.LeadEventStatusProcessing
	event.RetryCount++
	event.ProcessingStartedAt = &claim.StartedAt

	runCtx := context.WithoutCancel(ctx)
	if err := s.run(runCtx, claim, event, result, log); err != nil {
		s.fail(runCtx, claim, event, result, err, log)
	}

	tracing.RecordLeadProcessed(ctx, string(result.Outcome))
	return result, nil
}

func (s *LeadPipelineService) skip(ctx context.Context, result *domain.ProcessResult, reason string) *domain.ProcessResult {
	result.Outcome = domain.ProcessOutcomeSkipped
	result.SkipReason = reason
	tracing.RecordLeadProcessed(ctx, string(result.Outcome))
	return result
}

func (s *LeadPipelineService) run(ctx context.Context, claim *domain.LeadClaim, event *domain.RawLeadEvent, result *domain.ProcessResult, log logger.Logger) error {
	channel, err := s.loadChannel(ctx, event)
	if err != nil {
		return err
	}

	detail, err := tracing.TraceMethodWithResult(ctx, leadPipelineSpanName, "FetchLead", func(ctx context.Context) (*graphapi.LeadDetail, error) {
		fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
		return s.fetcher.FetchLeadDetail(fetchCtx, channel, event.ExternalLeadID)
	})
	if err != nil {
		return stepError(domain.StepFetch, domain.FailureKindTransient, err)
	}
	fetchedAt := s.now()

	formID := event.ExternalFormID()
	if formID == "" {
		formID = detail.FormID
	}

	route, err := s.routes.ResolveRoute(ctx, channel.ID, formID)
	if err != nil {
		return stepError(domain.StepResolveRoute, domain.FailureKindTransient, err)
	}

	lead := MapFields(detail.FieldData, route.Mappings)
	if lead.IsEmpty() {
		return domain.NewPipelineError(domain.StepMapFields, domain.FailureKindPermanent, domain.ErrEmptyLead)
	}
	fieldData, err := json.Marshal(detail.FieldData)
	if err != nil {
		return domain.NewPipelineError(domain.StepMapFields, domain.FailureKindPermanent, err)
	}

	var (
		resolution  *domain.ContactResolution
		opportunity *domain.Opportunity
	)
	err = tracing.TraceMethod(ctx, leadPipelineSpanName, "Persist", func(ctx context.Context) error {
		return s.eventRepo.WithTransaction(ctx, func(tx *sql.Tx) error {
			var err error
			resolution, err = s.contacts.ResolveContactTx(ctx, tx, route.WorkspaceID, lead)
			if err != nil {
				return fmt.Errorf("failed to resolve contact: %w", err)
			}

			opportunity, err = s.opportunities.CreateOpportunityTx(ctx, tx, &domain.OpportunityInput{
				Route:          route,
				Contact:        resolution.Contact,
				Lead:           lead,
				ExternalLeadID: event.ExternalLeadID,
			})
			if err != nil {
				return fmt.Errorf("failed to create opportunity: %w", err)
			}

			attribution := s.buildAttribution(event, channel, route, resolution.Contact, detail, formID)
			if err := s.attributionRepo.CreateTx(ctx, tx, attribution); err != nil {
				return err
			}

			return s.eventRepo.MarkCompletedTx(ctx, tx, claim, &domain.LeadEventCompletion{
				ContactID:     resolution.Contact.ID,
				OpportunityID: opportunity.ID,
				FieldData:     fieldData,
				FetchedAt:     fetchedAt,
				ProcessedAt:   s.now(),
			})
		})
	})
	if err != nil {
		return stepError(domain.StepPersist, domain.FailureKindTransient, err)
	}

	result.Outcome = domain.ProcessOutcomeCompleted
	result.ContactID = resolution.Contact.ID
	result.OpportunityID = opportunity.ID
	result.IsNewContact = resolution.IsNew
	result.MatchedOn = resolution.MatchedOn

	log.WithFields(map[string]interface{}{
		"contact_id":     resolution.Contact.ID,
		"opportunity_id": opportunity.ID,
		"is_new_contact": resolution.IsNew,
		"matched_on":     string(resolution.MatchedOn),
	}).Info("Lead event processed")

	// committed: audit and outbox failures are only logged
	if err := s.publisher.Publish(ctx, &domain.PublishInput{
		Event:       event,
		Channel:     channel,
		Route:       route,
		Resolution:  resolution,
		Opportunity: opportunity,
	}); err != nil {
		log.WithField("error", err.Error()).Error("Failed to publish lead events")
	}

	return nil
}

func (s *LeadPipelineService) loadChannel(ctx context.Context, event *domain.RawLeadEvent) (*domain.Channel, error) {
	channel, err := s.channelRepo.GetByExternalPageID(ctx, event.ChannelID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewPipelineError(domain.StepLoadChannel, domain.FailureKindConfiguration, err)
		}
		return nil, domain.NewPipelineError(domain.StepLoadChannel, domain.FailureKindTransient, err)
	}
	if !channel.IsActive {
		return nil, domain.NewPipelineError(domain.StepLoadChannel, domain.FailureKindConfiguration, domain.ErrChannelInactive)
	}
	if channel.OrgID != event.OrgID {
		return nil, domain.NewPipelineError(domain.StepLoadChannel, domain.FailureKindConfiguration, domain.ErrChannelOrgMismatch)
	}
	return channel, nil
}

func (s *LeadPipelineService) buildAttribution(
	event *domain.RawLeadEvent,
	channel *domain.Channel,
	route *domain.IngestRoute,
	contact *domain.Contact,
	detail *graphapi.LeadDetail,
	formID string,
) *domain.LeadAttribution {
	firstOf := func(values ...*string) *string {
		for _, v := range values {
			if v != nil && *v != "" {
				return v
			}
		}
		return nil
	}
	ptr := func(v string) *string {
		if v == "" {
			return nil
		}
		return &v
	}

	payload := detail.Raw
	if len(payload) == 0 {
		payload = event.Payload
	}

	return &domain.LeadAttribution{
		ID:           s.newID(),
		WorkspaceID:  route.WorkspaceID,
		ContactID:    contact.ID,
		RawEventID:   event.ID,
		ChannelID:    channel.ID,
		FormID:       ptr(formID),
		AdID:         firstOf(event.AdID, ptr(detail.AdID)),
		AdName:       ptr(detail.AdName),
		AdsetID:      firstOf(event.AdsetID, ptr(detail.AdsetID)),
		AdsetName:    ptr(detail.AdsetName),
		CampaignID:   firstOf(event.CampaignID, ptr(detail.CampaignID)),
		CampaignName: ptr(detail.CampaignName),
		Platform:     ptr(detail.Platform),
		IsOrganic:    detail.IsOrganic,
		Payload:      payload,
		CreatedAt:    s.now(),
	}
}

func (s *LeadPipelineService) fail(ctx context.Context, claim *domain.LeadClaim, event *domain.RawLeadEvent, result *domain.ProcessResult, err error, log logger.Logger) {
	// the row was reset and may be owned by another worker; nothing was committed
	if errors.Is(err, domain.ErrClaimLost) {
		log.WithField("error", err.Error()).Warn("Lead event claim lost before completion")
		result.Outcome = domain.ProcessOutcomeSkipped
		result.SkipReason = "claim lost"
		return
	}

	kind := domain.FailureKindOf(err)
	step := domain.StepPersist
	var pe *domain.PipelineError
	if errors.As(err, &pe) {
		step = pe.Step
	}

	result.Outcome = domain.ProcessOutcomeFailed
	result.FailedStep = step
	result.FailureKind = kind
	result.Error = err.Error()

	log.WithFields(map[string]interface{}{
		"step":         string(step),
		"failure_kind": string(kind),
		"retry_count":  event.RetryCount,
		"error":        err.Error(),
	}).Error("Lead event processing failed")

	if markErr := s.eventRepo.FailClaim(ctx, claim, err.Error(), kind); markErr != nil {
		if errors.Is(markErr, domain.ErrClaimLost) {
			log.Warn("Lead event claim lost before the failure was recorded")
			return
		}
		log.WithField("error", markErr.Error()).Error("Failed to record lead event failure")
	}
}

// stepError keeps the classification of an error a component already
// produced and otherwise tags it with the given step and kind
func stepError(step domain.PipelineStep, kind domain.FailureKind, err error) error {
	var pe *domain.PipelineError
	if errors.As(err, &pe) {
		return err
	}
	return domain.NewPipelineError(step, kind, err)
}
