package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadpipe/leadpipe/internal/domain"
	"github.com/leadpipe/leadpipe/internal/domain/mocks"
	"github.com/leadpipe/leadpipe/pkg/logger"
)

const retryEventID = "3f2b9a52-6a7c-4f0e-9a43-0c1d2e3f4a5b"

func TestLeadEventService(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*LeadEventService, *mocks.MockLeadEventRepository, *mocks.MockLeadRetrier) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockLeadEventRepository(ctrl)
		retrier := mocks.NewMockLeadRetrier(ctrl)
		return NewLeadEventService(repo, retrier, 3, logger.NewTestLogger(t)), repo, retrier
	}

	t.Run("GetStats passes the retry ceiling", func(t *testing.T) {
		svc, repo, _ := setup(t)
		repo.EXPECT().GetStats(ctx, 3).Return(&domain.LeadEventStats{Pending: 2, Exhausted: 1}, nil)

		stats, err := svc.GetStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.Pending)
		assert.Equal(t, int64(1), stats.Exhausted)
	})

	t.Run("GetStats error", func(t *testing.T) {
		svc, repo, _ := setup(t)
		repo.EXPECT().GetStats(ctx, 3).Return(nil, errors.New("db down"))

		_, err := svc.GetStats(ctx)
		assert.Error(t, err)
	})

	t.Run("ListFailed applies defaults", func(t *testing.T) {
		svc, repo, _ := setup(t)
		repo.EXPECT().ListFailed(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, req *domain.ListFailedLeadEventsRequest) ([]*domain.RawLeadEvent, int64, error) {
				assert.Equal(t, 50, req.Limit)
				return nil, 0, nil
			})

		resp, err := svc.ListFailed(ctx, &domain.ListFailedLeadEventsRequest{})
		require.NoError(t, err)
		assert.NotNil(t, resp.Events)
		assert.Equal(t, int64(0), resp.TotalCount)
	})

	t.Run("ListFailed rejects a bad kind", func(t *testing.T) {
		svc, _, _ := setup(t)
		_, err := svc.ListFailed(ctx, &domain.ListFailedLeadEventsRequest{FailureKind: "bogus"})
		var verr domain.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("Retry delegates to the retrier", func(t *testing.T) {
		svc, _, retrier := setup(t)
		retrier.EXPECT().RetryNow(ctx, retryEventID).Return(&domain.ProcessResult{
			RawEventID: retryEventID,
			Outcome:    domain.ProcessOutcomeCompleted,
		}, nil)

		result, err := svc.Retry(ctx, retryEventID)
		require.NoError(t, err)
		assert.Equal(t, domain.ProcessOutcomeCompleted, result.Outcome)
	})

	t.Run("Retry validates the id", func(t *testing.T) {
		svc, _, _ := setup(t)
		_, err := svc.Retry(ctx, "not-a-uuid")
		var verr domain.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("Retry of a completed row fails", func(t *testing.T) {
		svc, _, retrier := setup(t)
		retrier.EXPECT().RetryNow(ctx, retryEventID).Return(nil, domain.ErrLeadEventNotRetried)

		_, err := svc.Retry(ctx, retryEventID)
		assert.ErrorIs(t, err, domain.ErrLeadEventNotRetried)
	})
}
