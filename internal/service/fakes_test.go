package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leadpipe/leadpipe/internal/domain"
	"github.com/leadpipe/leadpipe/pkg/graphapi"
)

// memStore is an in-memory stand-in for the database used by the pipeline
// scenario tests. WithTransaction restores a snapshot when fn fails.
type memStore struct {
	mu sync.Mutex

	now    func() time.Time
	claims int

	events        map[string]domain.RawLeadEvent
	channels      []domain.Channel
	forms         []domain.LeadForm
	routes        []domain.IngestRoute
	mappings      map[string][]*domain.StoredFieldMapping
	contacts      []domain.Contact
	opportunities []domain.Opportunity
	history       []domain.StageHistory
	attributions  []domain.LeadAttribution
	audits        []domain.AuditLog
	outbox        []domain.OutboxEvent

	auditErr       error
	outboxErr      error
	attributionErr error
}

func newMemStore() *memStore {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &memStore{
		now:      func() time.Time { return clock },
		events:   map[string]domain.RawLeadEvent{},
		mappings: map[string][]*domain.StoredFieldMapping{},
	}
}

type memSnapshot struct {
	events        map[string]domain.RawLeadEvent
	contacts      []domain.Contact
	opportunities []domain.Opportunity
	history       []domain.StageHistory
	attributions  []domain.LeadAttribution
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := make(map[string]domain.RawLeadEvent, len(s.events))
	for k, v := range s.events {
		events[k] = v
	}
	return memSnapshot{
		events:        events,
		contacts:      append([]domain.Contact(nil), s.contacts...),
		opportunities: append([]domain.Opportunity(nil), s.opportunities...),
		history:       append([]domain.StageHistory(nil), s.history...),
		attributions:  append([]domain.LeadAttribution(nil), s.attributions...),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = snap.events
	s.contacts = snap.contacts
	s.opportunities = snap.opportunities
	s.history = snap.history
	s.attributions = snap.attributions
}

func (s *memStore) event(id string) domain.RawLeadEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[id]
}

func (s *memStore) putEvent(e domain.RawLeadEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[e.ID] = e
}

// lead event store

type memLeadEventRepo struct{ *memStore }

func (r memLeadEventRepo) StoreRawEvent(ctx context.Context, orgID string, n *domain.LeadNotification) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.ExternalLeadID == n.ExternalLeadID {
			return e.ID, false, nil
		}
	}
	e := domain.NewRawLeadEvent(uuid.New().String(), orgID, n, r.now().Add(time.Duration(len(r.events))*time.Second))
	r.events[e.ID] = *e
	return e.ID, true, nil
}

func (r memLeadEventRepo) GetByID(ctx context.Context, id string) (*domain.RawLeadEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, &domain.ErrNotFound{Entity: "raw lead event", ID: id}
	}
	return &e, nil
}

// ClaimForProcessing stamps each claim a millisecond apart so a reclaimed row
// never carries an earlier claim's stamp
func (r memLeadEventRepo) ClaimForProcessing(ctx context.Context, id string, maxRetries int) (*domain.LeadClaim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || !e.Status.CanTransitionTo(domain.LeadEventStatusProcessing) || e.RetryCount >= maxRetries {
		return nil, nil
	}
	r.claims++
	startedAt := r.now().Add(time.Duration(r.claims) * time.Millisecond)
	e.Status = domain.LeadEventStatusProcessing
	e.ProcessingStartedAt = &startedAt
	e.RetryCount++
	r.events[id] = e
	return &domain.LeadClaim{RawEventID: id, StartedAt: startedAt}, nil
}

func (r memLeadEventRepo) MarkCompletedTx(ctx context.Context, tx *sql.Tx, claim *domain.LeadClaim, c *domain.LeadEventCompletion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := claim.RawEventID
	e, ok := r.events[id]
	if !ok || !claim.Holds(&e) {
		return fmt.Errorf("%w: %s", domain.ErrClaimLost, id)
	}
	e.Status = domain.LeadEventStatusCompleted
	e.ContactID = &c.ContactID
	e.OpportunityID = &c.OpportunityID
	e.FieldData = c.FieldData
	e.FetchedAt = &c.FetchedAt
	e.ProcessedAt = &c.ProcessedAt
	e.ErrorMessage = nil
	e.FailureKind = nil
	e.ProcessingStartedAt = nil
	r.events[id] = e
	return nil
}

func (r memLeadEventRepo) FailClaim(ctx context.Context, claim *domain.LeadClaim, message string, kind domain.FailureKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[claim.RawEventID]
	if !ok || !claim.Holds(&e) {
		return fmt.Errorf("%w: %s", domain.ErrClaimLost, claim.RawEventID)
	}
	e.Status = domain.LeadEventStatusFailed
	e.ErrorMessage = &message
	e.FailureKind = &kind
	e.ProcessingStartedAt = nil
	r.events[e.ID] = e
	return nil
}

func (r memLeadEventRepo) MarkFailed(ctx context.Context, id string, message string, kind domain.FailureKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || !e.Status.IsRetryable() {
		return nil
	}
	e.Status = domain.LeadEventStatusFailed
	e.ErrorMessage = &message
	e.FailureKind = &kind
	e.ProcessingStartedAt = nil
	r.events[id] = e
	return nil
}

func (r memLeadEventRepo) ListRetryable(ctx context.Context, maxRetries, limit int) ([]*domain.RawLeadEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.RawLeadEvent
	for _, e := range r.events {
		if e.Status.IsRetryable() && e.RetryCount < maxRetries {
			e := e
			out = append(out, &e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memLeadEventRepo) ResetStale(ctx context.Context, olderThan time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, e := range r.events {
		if e.Status == domain.LeadEventStatusProcessing && e.ProcessingStartedAt != nil && e.ProcessingStartedAt.Before(olderThan) {
			msg := domain.StaleResetMessage
			e.Status = domain.LeadEventStatusPending
			e.ProcessingStartedAt = nil
			e.ErrorMessage = &msg
			r.events[id] = e
			n++
		}
	}
	return n, nil
}

func (r memLeadEventRepo) ResetForRetry(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return &domain.ErrNotFound{Entity: "raw lead event", ID: id}
	}
	if !e.Status.IsRetryable() {
		return fmt.Errorf("%w: %s", domain.ErrLeadEventNotRetried, id)
	}
	e.Status = domain.LeadEventStatusPending
	e.RetryCount = 0
	e.ErrorMessage = nil
	e.FailureKind = nil
	e.ProcessingStartedAt = nil
	r.events[id] = e
	return nil
}

func (r memLeadEventRepo) GetStats(ctx context.Context, maxRetries int) (*domain.LeadEventStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &domain.LeadEventStats{}
	for _, e := range r.events {
		switch e.Status {
		case domain.LeadEventStatusPending:
			stats.Pending++
		case domain.LeadEventStatusProcessing:
			stats.Processing++
		case domain.LeadEventStatusCompleted:
			stats.Completed++
		case domain.LeadEventStatusFailed:
			stats.Failed++
			if e.RetryCount >= maxRetries {
				stats.Exhausted++
			}
		}
	}
	return stats, nil
}

func (r memLeadEventRepo) ListFailed(ctx context.Context, req *domain.ListFailedLeadEventsRequest) ([]*domain.RawLeadEvent, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.RawLeadEvent
	for _, e := range r.events {
		if e.Status != domain.LeadEventStatusFailed {
			continue
		}
		if req.FailureKind != "" && (e.FailureKind == nil || *e.FailureKind != req.FailureKind) {
			continue
		}
		e := e
		out = append(out, &e)
	}
	total := int64(len(out))
	if req.Offset >= len(out) {
		return nil, total, nil
	}
	out = out[req.Offset:]
	if len(out) > req.Limit {
		out = out[:req.Limit]
	}
	return out, total, nil
}

func (r memLeadEventRepo) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	snap := r.snapshot()
	if err := fn(nil); err != nil {
		r.restore(snap)
		return err
	}
	return nil
}

// channels, forms and routes

type memChannelRepo struct{ *memStore }

func (r memChannelRepo) GetByID(ctx context.Context, id string) (*domain.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.channels {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, &domain.ErrNotFound{Entity: "channel", ID: id}
}

func (r memChannelRepo) GetByExternalPageID(ctx context.Context, externalPageID string) (*domain.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.channels {
		if c.ExternalPageID == externalPageID {
			return &c, nil
		}
	}
	return nil, &domain.ErrNotFound{Entity: "channel", ID: externalPageID}
}

func (r memChannelRepo) GetForm(ctx context.Context, channelID, externalFormID string) (*domain.LeadForm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.forms {
		if f.ChannelID == channelID && f.ExternalFormID == externalFormID {
			return &f, nil
		}
	}
	return nil, &domain.ErrNotFound{Entity: "lead form", ID: externalFormID}
}

type memRouteRepo struct{ *memStore }

func (r memRouteRepo) GetActiveFormRoute(ctx context.Context, channelID, externalFormID string) (*domain.IngestRoute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.forms {
		if f.ChannelID != channelID || f.ExternalFormID != externalFormID {
			continue
		}
		for _, rt := range r.routes {
			if rt.IsActive && rt.ChannelID == channelID && rt.FormID != nil && *rt.FormID == f.ID {
				return &rt, nil
			}
		}
	}
	return nil, &domain.ErrNotFound{Entity: "ingest route", ID: externalFormID}
}

func (r memRouteRepo) GetActiveChannelRoute(ctx context.Context, channelID string) (*domain.IngestRoute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rt := range r.routes {
		if rt.IsActive && rt.ChannelID == channelID && rt.FormID == nil {
			return &rt, nil
		}
	}
	return nil, &domain.ErrNotFound{Entity: "ingest route", ID: channelID}
}

func (r memRouteRepo) ListMappings(ctx context.Context, routeID string) ([]*domain.StoredFieldMapping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mappings[routeID], nil
}

// CRM records

type memContactRepo struct{ *memStore }

func (r memContactRepo) LockIdentityTx(ctx context.Context, tx *sql.Tx, workspaceID, key string) error {
	return nil
}

func (r memContactRepo) FindByEmailTx(ctx context.Context, tx *sql.Tx, workspaceID, email string) (*domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.contacts {
		if c.WorkspaceID == workspaceID && strings.ToLower(c.Email) == email {
			return &c, nil
		}
	}
	return nil, &domain.ErrNotFound{Entity: "contact", ID: email}
}

func (r memContactRepo) FindByPhoneTx(ctx context.Context, tx *sql.Tx, workspaceID, phone string) (*domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.contacts {
		if c.WorkspaceID == workspaceID && c.Phone != "" && domain.NormalizePhone(c.Phone) == phone {
			return &c, nil
		}
	}
	return nil, &domain.ErrNotFound{Entity: "contact", ID: phone}
}

func (r memContactRepo) CreateTx(ctx context.Context, tx *sql.Tx, contact *domain.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contacts = append(r.contacts, *contact)
	return nil
}

func (r memContactRepo) UpdateFieldsTx(ctx context.Context, tx *sql.Tx, contact *domain.Contact, columns []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.contacts {
		if r.contacts[i].ID == contact.ID {
			r.contacts[i] = *contact
			return nil
		}
	}
	return &domain.ErrNotFound{Entity: "contact", ID: contact.ID}
}

type memOpportunityRepo struct{ *memStore }

func (r memOpportunityRepo) CreateTx(ctx context.Context, tx *sql.Tx, opportunity *domain.Opportunity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opportunities = append(r.opportunities, *opportunity)
	return nil
}

func (r memOpportunityRepo) AddStageHistoryTx(ctx context.Context, tx *sql.Tx, entry *domain.StageHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, *entry)
	return nil
}

type memAttributionRepo struct{ *memStore }

func (r memAttributionRepo) CreateTx(ctx context.Context, tx *sql.Tx, a *domain.LeadAttribution) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.attributionErr != nil {
		return r.attributionErr
	}
	r.attributions = append(r.attributions, *a)
	return nil
}

func (r memAttributionRepo) CountByContact(ctx context.Context, contactID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, a := range r.attributions {
		if a.ContactID == contactID {
			n++
		}
	}
	return n, nil
}

type memAuditRepo struct{ *memStore }

func (r memAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.auditErr != nil {
		return r.auditErr
	}
	r.audits = append(r.audits, *entry)
	return nil
}

type memOutboxRepo struct{ *memStore }

func (r memOutboxRepo) Enqueue(ctx context.Context, events []*domain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.outboxErr != nil {
		return r.outboxErr
	}
	for _, e := range events {
		r.outbox = append(r.outbox, *e)
	}
	return nil
}

// graphLeads serves lead detail by lead id
type graphLeads struct {
	mu    sync.Mutex
	leads map[string]*graphapi.LeadDetail
	errs  map[string]error
	calls int

	// onFetch runs before the response is chosen
	onFetch func(leadID string)
}

func (g *graphLeads) FetchLeadDetail(ctx context.Context, leadID, accessToken string) (*graphapi.LeadDetail, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.onFetch != nil {
		g.onFetch(leadID)
	}
	if err, ok := g.errs[leadID]; ok {
		return nil, err
	}
	detail, ok := g.leads[leadID]
	if !ok {
		return nil, &graphapi.APIError{StatusCode: 404, Message: "lead not found"}
	}
	return detail, nil
}
