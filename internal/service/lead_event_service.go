package service

import (
	"context"
	"fmt"

	"github.com/leadpipe/leadpipe/internal/domain"
	"github.com/leadpipe/leadpipe/pkg/logger"
)

// LeadEventService backs the operator endpoints and leadctl
type LeadEventService struct {
	repo       domain.LeadEventRepository
	retrier    domain.LeadRetrier
	maxRetries int
	logger     logger.Logger
}

func NewLeadEventService(repo domain.LeadEventRepository, retrier domain.LeadRetrier, maxRetries int, logger logger.Logger) *LeadEventService {
	return &LeadEventService{
		repo:       repo,
		retrier:    retrier,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

func (s *LeadEventService) GetStats(ctx context.Context) (*domain.LeadEventStats, error) {
	stats, err := s.repo.GetStats(ctx, s.maxRetries)
	if err != nil {
		s.logger.WithField("error", err.Error()).Error("Failed to get lead event stats")
		return nil, err
	}
	return stats, nil
}

func (s *LeadEventService) ListFailed(ctx context.Context, req *domain.ListFailedLeadEventsRequest) (*domain.ListFailedLeadEventsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	events, total, err := s.repo.ListFailed(ctx, req)
	if err != nil {
		s.logger.WithField("error", err.Error()).Error("Failed to list failed lead events")
		return nil, err
	}
	if events == nil {
		events = []*domain.RawLeadEvent{}
	}

	return &domain.ListFailedLeadEventsResponse{
		Events:     events,
		TotalCount: total,
	}, nil
}

// Retry resets the row's retry budget and runs the pipeline once
func (s *LeadEventService) Retry(ctx context.Context, rawEventID string) (*domain.ProcessResult, error) {
	req := &domain.RetryLeadEventRequest{ID: rawEventID}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.retrier == nil {
		return nil, fmt.Errorf("lead retrier is not configured")
	}

	result, err := s.retrier.RetryNow(ctx, rawEventID)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"raw_event_id": rawEventID,
			"error":        err.Error(),
		}).Warn("Manual lead retry failed")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"raw_event_id": rawEventID,
		"outcome":      string(result.Outcome),
	}).Info("Manual lead retry finished")
	return result, nil
}
