package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadpipe/leadpipe/internal/domain"
	"github.com/leadpipe/leadpipe/internal/domain/mocks"
)

func publishInput(isNew bool) *domain.PublishInput {
	matched := domain.MatchedOnEmail
	if isNew {
		matched = domain.MatchedOnNone
	}
	return &domain.PublishInput{
		Event:   &domain.RawLeadEvent{ID: "evt-1", OrgID: "org_1", FormID: strPtr("f_9")},
		Channel: &domain.Channel{ID: "ch-1"},
		Route:   &domain.IngestRoute{ID: "rt-1"},
		Resolution: &domain.ContactResolution{
			Contact:   &domain.Contact{ID: "c-1", WorkspaceID: "ws-7", Email: "a@x.com", Source: domain.ContactSourceLeadAds},
			IsNew:     isNew,
			MatchedOn: matched,
		},
		Opportunity: &domain.Opportunity{ID: "o-1", WorkspaceID: "ws-7", ContactID: "c-1", StageID: "st-3", Title: "Lead: Ana Silva"},
	}
}

func TestLeadEventPublisher_Publish(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*LeadEventPublisher, *mocks.MockAuditLogRepository, *mocks.MockOutboxRepository) {
		ctrl := gomock.NewController(t)
		auditRepo := mocks.NewMockAuditLogRepository(ctrl)
		outboxRepo := mocks.NewMockOutboxRepository(ctrl)
		p := NewLeadEventPublisher(auditRepo, outboxRepo)
		p.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
		return p, auditRepo, outboxRepo
	}

	t.Run("new contact", func(t *testing.T) {
		p, auditRepo, outboxRepo := setup(t)

		auditRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, entry *domain.AuditLog) error {
			assert.Equal(t, domain.AuditActionContactCreated, entry.Action)
			assert.Equal(t, "org_1", entry.OrgID)
			assert.Equal(t, "ws-7", entry.WorkspaceID)
			assert.Equal(t, "c-1", entry.EntityID)
			assert.JSONEq(t, `{"matched_on":"none","route_id":"rt-1","channel_id":"ch-1","form_id":"f_9","raw_event_id":"evt-1","opportunity_id":"o-1"}`,
				string(entry.Metadata))
			return nil
		})
		outboxRepo.EXPECT().Enqueue(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, events []*domain.OutboxEvent) error {
			require.Len(t, events, 2)
			assert.Equal(t, domain.OutboxEventContactCreated, events[0].EventType)
			assert.Equal(t, "c-1", events[0].AggregateID)
			assert.Equal(t, domain.OutboxEventOpportunityCreated, events[1].EventType)
			assert.Equal(t, "o-1", events[1].AggregateID)
			assert.Contains(t, string(events[1].Payload), `"title":"Lead: Ana Silva"`)
			return nil
		})

		require.NoError(t, p.Publish(ctx, publishInput(true)))
	})

	t.Run("matched contact only emits opportunity", func(t *testing.T) {
		p, auditRepo, outboxRepo := setup(t)

		auditRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, entry *domain.AuditLog) error {
			assert.Equal(t, domain.AuditActionContactUpdated, entry.Action)
			assert.Contains(t, string(entry.Metadata), `"matched_on":"email"`)
			return nil
		})
		outboxRepo.EXPECT().Enqueue(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, events []*domain.OutboxEvent) error {
			require.Len(t, events, 1)
			assert.Equal(t, domain.OutboxEventOpportunityCreated, events[0].EventType)
			return nil
		})

		require.NoError(t, p.Publish(ctx, publishInput(false)))
	})

	t.Run("audit failure still enqueues", func(t *testing.T) {
		p, auditRepo, outboxRepo := setup(t)

		auditRepo.EXPECT().Create(ctx, gomock.Any()).Return(errors.New("audit down"))
		outboxRepo.EXPECT().Enqueue(ctx, gomock.Any()).Return(nil)

		err := p.Publish(ctx, publishInput(true))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "audit down")
	})
}
