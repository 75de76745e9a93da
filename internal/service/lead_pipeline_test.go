package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadpipe/leadpipe/config"
	"github.com/leadpipe/leadpipe/internal/domain"
	"github.com/leadpipe/leadpipe/pkg/graphapi"
	"github.com/leadpipe/leadpipe/pkg/logger"
)

type pipelineHarness struct {
	store *memStore
	graph *graphLeads
	svc   *LeadPipelineService
}

func newPipelineHarness(t *testing.T) *pipelineHarness {
	t.Helper()
	store := newMemStore()
	store.channels = []domain.Channel{{
		ID:                   "ch-1",
		OrgID:                "org-1",
		ExternalPageID:       "pg_1",
		AccessTokenEncrypted: encryptedToken(t, "page-token"),
		IsActive:             true,
	}}
	store.forms = []domain.LeadForm{{ID: "form-9", ChannelID: "ch-1", ExternalFormID: "f_9"}}
	store.routes = []domain.IngestRoute{
		{ID: "rt-f9", OrgID: "org-1", ChannelID: "ch-1", FormID: strPtr("form-9"), WorkspaceID: "7", PipelineID: "pl-1", StageID: "3", IsActive: true},
		{ID: "rt-default", OrgID: "org-1", ChannelID: "ch-1", WorkspaceID: "7", PipelineID: "pl-1", StageID: "1", IsActive: true},
	}

	graph := &graphLeads{leads: map[string]*graphapi.LeadDetail{}, errs: map[string]error{}}
	log := logger.NewTestLogger(t)

	svc, err := NewLeadPipelineService(LeadPipelineServiceConfig{
		LeadEventRepo:   memLeadEventRepo{store},
		ChannelRepo:     memChannelRepo{store},
		AttributionRepo: memAttributionRepo{store},
		Fetcher:         NewLeadFetcher(graph, NewCredentialStore(testSecretKey), nil, log),
		Routes:          NewRouteResolver(memChannelRepo{store}, memRouteRepo{store}, log),
		Contacts:        NewContactResolver(memContactRepo{store}, log),
		Opportunities:   NewOpportunityCreator(memOpportunityRepo{store}),
		Publisher:       NewLeadEventPublisher(memAuditRepo{store}, memOutboxRepo{store}),
		Pipeline:        config.PipelineConfig{MaxRetryAttempts: 3, FetchTimeout: 5 * time.Second},
		Logger:          log,
	})
	require.NoError(t, err)

	return &pipelineHarness{store: store, graph: graph, svc: svc}
}

func (h *pipelineHarness) notify(t *testing.T, leadID, formID string, fields map[string]string) string {
	t.Helper()
	h.graph.leads[leadID] = &graphapi.LeadDetail{ID: leadID, FormID: formID, FieldData: fields, AdName: "Spring promo"}
	id, isNew, err := memLeadEventRepo{h.store}.StoreRawEvent(context.Background(), "org-1", &domain.LeadNotification{
		ExternalLeadID: leadID,
		ChannelID:      "pg_1",
		FormID:         formID,
		AdID:           "ad-1",
	})
	require.NoError(t, err)
	require.True(t, isNew)
	return id
}

func TestLeadPipelineService_ProcessLeadEvent_NewLead(t *testing.T) {
	h := newPipelineHarness(t)
	id := h.notify(t, "lg_001", "f_9", map[string]string{"email": "a@x.com", "full_name": "Ana Silva"})

	result, err := h.svc.ProcessLeadEvent(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.ProcessOutcomeCompleted, result.Outcome)
	assert.True(t, result.IsNewContact)
	assert.Equal(t, domain.MatchedOnNone, result.MatchedOn)

	require.Len(t, h.store.contacts, 1)
	contact := h.store.contacts[0]
	assert.Equal(t, "7", contact.WorkspaceID)
	assert.Equal(t, "a@x.com", contact.Email)
	assert.Equal(t, "Ana", contact.FirstName)
	assert.Equal(t, "Silva", contact.LastName)

	require.Len(t, h.store.opportunities, 1)
	opp := h.store.opportunities[0]
	assert.Equal(t, "Lead: Ana Silva", opp.Title)
	assert.Equal(t, "3", opp.StageID)
	assert.Equal(t, contact.ID, opp.ContactID)

	require.Len(t, h.store.history, 1)
	assert.Nil(t, h.store.history[0].FromStageID)

	require.Len(t, h.store.attributions, 1)
	attribution := h.store.attributions[0]
	assert.Equal(t, id, attribution.RawEventID)
	assert.Equal(t, "ch-1", attribution.ChannelID)
	require.NotNil(t, attribution.AdID)
	assert.Equal(t, "ad-1", *attribution.AdID)
	require.NotNil(t, attribution.AdName)
	assert.Equal(t, "Spring promo", *attribution.AdName)

	event := h.store.event(id)
	assert.Equal(t, domain.LeadEventStatusCompleted, event.Status)
	assert.Equal(t, 1, event.RetryCount)
	require.NotNil(t, event.ContactID)
	assert.Equal(t, contact.ID, *event.ContactID)
	require.NotNil(t, event.OpportunityID)
	assert.Equal(t, opp.ID, *event.OpportunityID)
	assert.NotNil(t, event.FetchedAt)
	assert.NotNil(t, event.ProcessedAt)
	assert.Nil(t, event.ErrorMessage)
	assert.JSONEq(t, `{"email":"a@x.com","full_name":"Ana Silva"}`, string(event.FieldData))

	require.Len(t, h.store.audits, 1)
	assert.Equal(t, domain.AuditActionContactCreated, h.store.audits[0].Action)
	require.Len(t, h.store.outbox, 2)
	assert.Equal(t, domain.OutboxEventContactCreated, h.store.outbox[0].EventType)
	assert.Equal(t, domain.OutboxEventOpportunityCreated, h.store.outbox[1].EventType)
}

func TestLeadPipelineService_ProcessLeadEvent_SameEmailReusesContact(t *testing.T) {
	h := newPipelineHarness(t)
	ctx := context.Background()

	first := h.notify(t, "lg_001", "f_9", map[string]string{"email": "a@x.com", "full_name": "Ana Silva"})
	_, err := h.svc.ProcessLeadEvent(ctx, first)
	require.NoError(t, err)

	second := h.notify(t, "lg_002", "f_9", map[string]string{
		"email":        "A@X.com",
		"phone_number": "+55 (11) 99999-0000",
		"company_name": "Acme",
	})
	result, err := h.svc.ProcessLeadEvent(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, domain.ProcessOutcomeCompleted, result.Outcome)
	assert.False(t, result.IsNewContact)
	assert.Equal(t, domain.MatchedOnEmail, result.MatchedOn)

	require.Len(t, h.store.contacts, 1)
	contact := h.store.contacts[0]
	assert.Equal(t, result.ContactID, contact.ID)
	assert.Equal(t, "a@x.com", contact.Email)
	assert.Equal(t, "+5511999990000", contact.Phone)
	assert.Equal(t, "Acme", contact.Company)
	assert.Equal(t, "Ana", contact.FirstName)

	count, err := memAttributionRepo{h.store}.CountByContact(ctx, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Len(t, h.store.opportunities, 2)

	require.Len(t, h.store.audits, 2)
	assert.Equal(t, domain.AuditActionContactUpdated, h.store.audits[1].Action)
	// second run only announces the opportunity
	require.Len(t, h.store.outbox, 3)
	assert.Equal(t, domain.OutboxEventOpportunityCreated, h.store.outbox[2].EventType)
}

func TestLeadPipelineService_ProcessLeadEvent_UnusualEmailStillDeduplicates(t *testing.T) {
	for _, email := range []string{"ana@localhost", "ana@x"} {
		t.Run(email, func(t *testing.T) {
			h := newPipelineHarness(t)
			ctx := context.Background()

			first := h.notify(t, "lg_101", "f_9", map[string]string{"email": email, "full_name": "Ana Silva"})
			result, err := h.svc.ProcessLeadEvent(ctx, first)
			require.NoError(t, err)
			assert.True(t, result.IsNewContact)

			second := h.notify(t, "lg_102", "f_9", map[string]string{"email": email, "phone_number": "+55 11 98888-0000"})
			result, err = h.svc.ProcessLeadEvent(ctx, second)
			require.NoError(t, err)
			assert.Equal(t, domain.ProcessOutcomeCompleted, result.Outcome)
			assert.False(t, result.IsNewContact)
			assert.Equal(t, domain.MatchedOnEmail, result.MatchedOn)

			require.Len(t, h.store.contacts, 1)
			assert.Equal(t, email, h.store.contacts[0].Email)
			assert.Equal(t, "+5511988880000", h.store.contacts[0].Phone)
		})
	}
}

func TestLeadPipelineService_ProcessLeadEvent_Idempotent(t *testing.T) {
	h := newPipelineHarness(t)
	ctx := context.Background()
	id := h.notify(t, "lg_001", "f_9", map[string]string{"email": "a@x.com"})

	_, err := h.svc.ProcessLeadEvent(ctx, id)
	require.NoError(t, err)

	again, isNew, err := memLeadEventRepo{h.store}.StoreRawEvent(ctx, "org-1", &domain.LeadNotification{ExternalLeadID: "lg_001", ChannelID: "pg_1"})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, id, again)

	result, err := h.svc.ProcessLeadEvent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.ProcessOutcomeSkipped, result.Outcome)
	assert.Equal(t, "already completed", result.SkipReason)
	assert.Equal(t, 1, h.graph.calls)
	assert.Len(t, h.store.contacts, 1)
	assert.Len(t, h.store.opportunities, 1)
}

func TestLeadPipelineService_ProcessLeadEvent_Routing(t *testing.T) {
	t.Run("unregistered form falls back to channel route", func(t *testing.T) {
		h := newPipelineHarness(t)
		id := h.notify(t, "lg_010", "f_other", map[string]string{"email": "b@x.com"})

		result, err := h.svc.ProcessLeadEvent(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, domain.ProcessOutcomeCompleted, result.Outcome)
		require.Len(t, h.store.opportunities, 1)
		assert.Equal(t, "1", h.store.opportunities[0].StageID)
		assert.Equal(t, "Lead: b@x.com", h.store.opportunities[0].Title)
	})

	t.Run("form id taken from lead detail when notification has none", func(t *testing.T) {
		h := newPipelineHarness(t)
		id := h.notify(t, "lg_011", "", map[string]string{"email": "c@x.com"})
		h.graph.leads["lg_011"].FormID = "f_9"

		_, err := h.svc.ProcessLeadEvent(context.Background(), id)
		require.NoError(t, err)
		require.Len(t, h.store.opportunities, 1)
		assert.Equal(t, "3", h.store.opportunities[0].StageID)
		require.NotNil(t, h.store.attributions[0].FormID)
		assert.Equal(t, "f_9", *h.store.attributions[0].FormID)
	})

	t.Run("custom mapping on the route", func(t *testing.T) {
		h := newPipelineHarness(t)
		h.store.mappings["rt-f9"] = []*domain.StoredFieldMapping{
			{ID: "m1", RouteID: "rt-f9", SourceField: "empresa", TargetField: "company", Transform: strPtr("uppercase")},
		}
		id := h.notify(t, "lg_012", "f_9", map[string]string{"email": "d@x.com", "empresa": "acme"})

		_, err := h.svc.ProcessLeadEvent(context.Background(), id)
		require.NoError(t, err)
		require.Len(t, h.store.contacts, 1)
		assert.Equal(t, "ACME", h.store.contacts[0].Company)
	})
}

func TestLeadPipelineService_ProcessLeadEvent_Failures(t *testing.T) {
	ctx := context.Background()

	assertFailed := func(t *testing.T, h *pipelineHarness, id string, result *domain.ProcessResult, step domain.PipelineStep, kind domain.FailureKind) {
		t.Helper()
		assert.Equal(t, domain.ProcessOutcomeFailed, result.Outcome)
		assert.Equal(t, step, result.FailedStep)
		assert.Equal(t, kind, result.FailureKind)
		event := h.store.event(id)
		assert.Equal(t, domain.LeadEventStatusFailed, event.Status)
		require.NotNil(t, event.FailureKind)
		assert.Equal(t, kind, *event.FailureKind)
		require.NotNil(t, event.ErrorMessage)
		assert.Equal(t, result.Error, *event.ErrorMessage)
		assert.Nil(t, event.ProcessingStartedAt)
		assert.Empty(t, h.store.contacts)
		assert.Empty(t, h.store.opportunities)
	}

	t.Run("no route is a configuration failure", func(t *testing.T) {
		h := newPipelineHarness(t)
		h.store.routes = nil
		id := h.notify(t, "lg_020", "f_9", map[string]string{"email": "a@x.com"})

		result, err := h.svc.ProcessLeadEvent(ctx, id)
		require.NoError(t, err)
		assertFailed(t, h, id, result, domain.StepResolveRoute, domain.FailureKindConfiguration)
		assert.Contains(t, result.Error, domain.ErrRouteNotFound.Error())
	})

	t.Run("inactive channel is a configuration failure", func(t *testing.T) {
		h := newPipelineHarness(t)
		h.store.channels[0].IsActive = false
		id := h.notify(t, "lg_021", "f_9", map[string]string{"email": "a@x.com"})

		result, err := h.svc.ProcessLeadEvent(ctx, id)
		require.NoError(t, err)
		assertFailed(t, h, id, result, domain.StepLoadChannel, domain.FailureKindConfiguration)
		assert.Equal(t, 0, h.graph.calls)
	})

	t.Run("channel of another org is a configuration failure", func(t *testing.T) {
		h := newPipelineHarness(t)
		h.store.channels[0].OrgID = "org-2"
		id := h.notify(t, "lg_022", "f_9", map[string]string{"email": "a@x.com"})

		result, err := h.svc.ProcessLeadEvent(ctx, id)
		require.NoError(t, err)
		assertFailed(t, h, id, result, domain.StepLoadChannel, domain.FailureKindConfiguration)
		assert.Contains(t, result.Error, domain.ErrChannelOrgMismatch.Error())
	})

	t.Run("upstream 5xx is transient and retried later", func(t *testing.T) {
		h := newPipelineHarness(t)
		id := h.notify(t, "lg_023", "f_9", map[string]string{"email": "a@x.com"})
		h.graph.errs["lg_023"] = &graphapi.APIError{StatusCode: 503, Message: "unavailable"}

		result, err := h.svc.ProcessLeadEvent(ctx, id)
		require.NoError(t, err)
		assertFailed(t, h, id, result, domain.StepFetch, domain.FailureKindTransient)
		assert.Equal(t, 1, h.store.event(id).RetryCount)

		delete(h.graph.errs, "lg_023")
		result, err = h.svc.ProcessLeadEvent(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.ProcessOutcomeCompleted, result.Outcome)
		assert.Equal(t, 2, h.store.event(id).RetryCount)
	})

	t.Run("lead rejected by the platform is permanent", func(t *testing.T) {
		h := newPipelineHarness(t)
		id := h.notify(t, "lg_024", "f_9", nil)
		delete(h.graph.leads, "lg_024")

		result, err := h.svc.ProcessLeadEvent(ctx, id)
		require.NoError(t, err)
		assertFailed(t, h, id, result, domain.StepFetch, domain.FailureKindPermanent)
	})

	t.Run("lead without contact attributes is permanent", func(t *testing.T) {
		h := newPipelineHarness(t)
		id := h.notify(t, "lg_025", "f_9", map[string]string{"city": "Lisbon"})

		result, err := h.svc.ProcessLeadEvent(ctx, id)
		require.NoError(t, err)
		assertFailed(t, h, id, result, domain.StepMapFields, domain.FailureKindPermanent)
	})

	t.Run("persist failure rolls back CRM writes", func(t *testing.T) {
		h := newPipelineHarness(t)
		h.store.attributionErr = errors.New("connection reset")
		id := h.notify(t, "lg_026", "f_9", map[string]string{"email": "a@x.com"})

		result, err := h.svc.ProcessLeadEvent(ctx, id)
		require.NoError(t, err)
		assertFailed(t, h, id, result, domain.StepPersist, domain.FailureKindTransient)
		assert.Empty(t, h.store.attributions)
		assert.Empty(t, h.store.audits)
	})
}

func TestLeadPipelineService_ProcessLeadEvent_Guards(t *testing.T) {
	ctx := context.Background()

	t.Run("retry ceiling marks exhausted without fetching", func(t *testing.T) {
		h := newPipelineHarness(t)
		id := h.notify(t, "lg_030", "f_9", map[string]string{"email": "a@x.com"})
		event := h.store.event(id)
		event.Status = domain.LeadEventStatusFailed
		event.RetryCount = 3
		h.store.putEvent(event)

		result, err := h.svc.ProcessLeadEvent(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.ProcessOutcomeFailed, result.Outcome)
		assert.Equal(t, domain.FailureKindExhausted, result.FailureKind)
		assert.Equal(t, 0, h.graph.calls)

		stored := h.store.event(id)
		assert.Equal(t, domain.LeadEventStatusFailed, stored.Status)
		require.NotNil(t, stored.ErrorMessage)
		assert.Equal(t, domain.ExhaustedMessage, *stored.ErrorMessage)
		assert.Equal(t, 3, stored.RetryCount)

		pending, err := memLeadEventRepo{h.store}.ListRetryable(ctx, 3, 10)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("row in flight is skipped", func(t *testing.T) {
		h := newPipelineHarness(t)
		id := h.notify(t, "lg_031", "f_9", map[string]string{"email": "a@x.com"})
		event := h.store.event(id)
		event.Status = domain.LeadEventStatusProcessing
		h.store.putEvent(event)

		result, err := h.svc.ProcessLeadEvent(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.ProcessOutcomeSkipped, result.Outcome)
		assert.Equal(t, "already processing", result.SkipReason)
		assert.Equal(t, 0, h.graph.calls)
	})

	t.Run("unknown row is an error", func(t *testing.T) {
		h := newPipelineHarness(t)
		_, err := h.svc.ProcessLeadEvent(ctx, "missing")
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("publish failure does not fail the run", func(t *testing.T) {
		h := newPipelineHarness(t)
		h.store.auditErr = errors.New("audit store down")
		id := h.notify(t, "lg_032", "f_9", map[string]string{"email": "a@x.com"})

		result, err := h.svc.ProcessLeadEvent(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.ProcessOutcomeCompleted, result.Outcome)
		assert.Equal(t, domain.LeadEventStatusCompleted, h.store.event(id).Status)
		assert.Len(t, h.store.contacts, 1)
		assert.Len(t, h.store.outbox, 2)
	})

	t.Run("cancelled caller context does not abort a claimed run", func(t *testing.T) {
		h := newPipelineHarness(t)
		id := h.notify(t, "lg_033", "f_9", map[string]string{"email": "a@x.com"})

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		result, err := h.svc.ProcessLeadEvent(cctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.ProcessOutcomeCompleted, result.Outcome)
	})
}

func TestLeadPipelineService_ProcessLeadEvent_ClaimLost(t *testing.T) {
	ctx := context.Background()

	// reclaim simulates stale recovery followed by another worker's claim
	reclaim := func(t *testing.T, h *pipelineHarness, id string) func(string) {
		return func(string) {
			repo := memLeadEventRepo{h.store}
			n, err := repo.ResetStale(ctx, h.store.now().Add(time.Hour))
			require.NoError(t, err)
			require.Equal(t, int64(1), n)
			claim, err := repo.ClaimForProcessing(ctx, id, 3)
			require.NoError(t, err)
			require.NotNil(t, claim)
		}
	}

	t.Run("completion is refused and nothing is written", func(t *testing.T) {
		h := newPipelineHarness(t)
		id := h.notify(t, "lg_040", "f_9", map[string]string{"email": "a@x.com"})
		h.graph.onFetch = reclaim(t, h, id)

		result, err := h.svc.ProcessLeadEvent(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.ProcessOutcomeSkipped, result.Outcome)
		assert.Equal(t, "claim lost", result.SkipReason)

		assert.Empty(t, h.store.contacts)
		assert.Empty(t, h.store.opportunities)
		assert.Empty(t, h.store.attributions)
		assert.Empty(t, h.store.outbox)

		stored := h.store.event(id)
		assert.Equal(t, domain.LeadEventStatusProcessing, stored.Status)
		assert.Equal(t, 2, stored.RetryCount)
	})

	t.Run("failure is not recorded over the new owner", func(t *testing.T) {
		h := newPipelineHarness(t)
		id := h.notify(t, "lg_041", "f_9", map[string]string{"email": "a@x.com"})
		h.graph.errs["lg_041"] = &graphapi.APIError{StatusCode: 500, Message: "unavailable"}
		h.graph.onFetch = reclaim(t, h, id)

		result, err := h.svc.ProcessLeadEvent(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.ProcessOutcomeFailed, result.Outcome)

		stored := h.store.event(id)
		assert.Equal(t, domain.LeadEventStatusProcessing, stored.Status)
		assert.NotNil(t, stored.ProcessingStartedAt)
		assert.Nil(t, stored.FailureKind)
	})
}

func TestNewLeadPipelineService_RequiresCollaborators(t *testing.T) {
	_, err := NewLeadPipelineService(LeadPipelineServiceConfig{Logger: logger.NewTestLogger(t)})
	assert.Error(t, err)
}
