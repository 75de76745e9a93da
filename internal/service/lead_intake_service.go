package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/leadpipe/leadpipe/internal/domain"
	"github.com/leadpipe/leadpipe/pkg/logger"
	"github.com/leadpipe/leadpipe/pkg/tracing"
)

// LeadIntakeService stores webhook notifications as raw events and hands
// new ones to the dispatcher
type LeadIntakeService struct {
	eventRepo   domain.LeadEventRepository
	channelRepo domain.ChannelRepository
	logger      logger.Logger

	mu         sync.RWMutex
	dispatcher domain.LeadDispatcher
}

func NewLeadIntakeService(eventRepo domain.LeadEventRepository, channelRepo domain.ChannelRepository, logger logger.Logger) *LeadIntakeService {
	return &LeadIntakeService{
		eventRepo:   eventRepo,
		channelRepo: channelRepo,
		logger:      logger,
	}
}

// SetDispatcher wires the worker once it exists. Without one, stored events
// wait for the next scheduler batch.
func (s *LeadIntakeService) SetDispatcher(d domain.LeadDispatcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatcher = d
}

// Ingest stores each notification once. Invalid notifications and unknown
// pages are counted as skipped; a store failure aborts with an error so the
// platform redelivers.
func (s *LeadIntakeService) Ingest(ctx context.Context, notifications []*domain.LeadNotification) (*domain.IngestSummary, error) {
	ctx, span := tracing.StartServiceSpan(ctx, "LeadIntakeService", "Ingest")
	defer span.End()

	summary := &domain.IngestSummary{
		Received: len(notifications),
		EventIDs: []string{},
	}

	for _, n := range notifications {
		if err := n.Validate(); err != nil {
			s.logger.WithField("error", err.Error()).Warn("Skipping invalid lead notification")
			summary.Skipped++
			continue
		}

		log := s.logger.WithFields(map[string]interface{}{
			"external_lead_id": n.ExternalLeadID,
			"channel_id":       n.ChannelID,
		})

		channel, err := s.channelRepo.GetByExternalPageID(ctx, n.ChannelID)
		if err != nil {
			if domain.IsNotFound(err) {
				log.Warn("Skipping lead notification for unknown page")
				summary.Skipped++
				continue
			}
			tracing.MarkSpanError(ctx, err)
			return summary, fmt.Errorf("failed to look up channel: %w", err)
		}

		id, isNew, err := s.eventRepo.StoreRawEvent(ctx, channel.OrgID, n)
		if err != nil {
			tracing.MarkSpanError(ctx, err)
			return summary, err
		}
		tracing.RecordLeadReceived(ctx, isNew)
		summary.EventIDs = append(summary.EventIDs, id)

		if !isNew {
			log.WithField("raw_event_id", id).Debug("Duplicate lead notification")
			summary.Duplicate++
			continue
		}
		summary.Stored++

		log = log.WithField("raw_event_id", id)
		log.Info("Lead notification stored")
		if !s.dispatch(id) {
			log.Debug("Dispatch queue unavailable, leaving event to the scheduler")
		}
	}

	return summary, nil
}

func (s *LeadIntakeService) dispatch(id string) bool {
	s.mu.RLock()
	d := s.dispatcher
	s.mu.RUnlock()
	if d == nil {
		return false
	}
	return d.Dispatch(id)
}
