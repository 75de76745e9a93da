package service

import (
	"context"
	"fmt"

	"github.com/leadpipe/leadpipe/internal/domain"
	"github.com/leadpipe/leadpipe/pkg/logger"
)

// RouteResolver picks the ingest route of a lead: the active route of its
// registered form first, then the channel-level fallback
type RouteResolver struct {
	channelRepo domain.ChannelRepository
	routeRepo   domain.IngestRouteRepository
	logger      logger.Logger
}

func NewRouteResolver(channelRepo domain.ChannelRepository, routeRepo domain.IngestRouteRepository, logger logger.Logger) *RouteResolver {
	return &RouteResolver{
		channelRepo: channelRepo,
		routeRepo:   routeRepo,
		logger:      logger,
	}
}

// ResolveRoute returns the route with validated mappings. Failures are
// *domain.PipelineError: configuration when nothing matches or a mapping is
// invalid, transient when the store fails.
func (r *RouteResolver) ResolveRoute(ctx context.Context, channelID, externalFormID string) (*domain.IngestRoute, error) {
	route, err := r.findRoute(ctx, channelID, externalFormID)
	if err != nil {
		return nil, err
	}

	stored, err := r.routeRepo.ListMappings(ctx, route.ID)
	if err != nil {
		return nil, domain.NewPipelineError(domain.StepResolveRoute, domain.FailureKindTransient,
			fmt.Errorf("failed to load field mappings: %w", err))
	}

	mappings := make([]*domain.FieldMapping, 0, len(stored))
	for _, s := range stored {
		m, err := s.Validate()
		if err != nil {
			return nil, domain.NewPipelineError(domain.StepResolveRoute, domain.FailureKindConfiguration,
				fmt.Errorf("route %s: %w", route.ID, err))
		}
		mappings = append(mappings, m)
	}
	route.Mappings = mappings

	return route, nil
}

func (r *RouteResolver) findRoute(ctx context.Context, channelID, externalFormID string) (*domain.IngestRoute, error) {
	if externalFormID != "" {
		route, err := r.findFormRoute(ctx, channelID, externalFormID)
		if err != nil || route != nil {
			return route, err
		}
	}

	route, err := r.routeRepo.GetActiveChannelRoute(ctx, channelID)
	if domain.IsNotFound(err) {
		return nil, domain.NewPipelineError(domain.StepResolveRoute, domain.FailureKindConfiguration,
			fmt.Errorf("%w %s", domain.ErrRouteNotFound, channelID))
	}
	if err != nil {
		return nil, domain.NewPipelineError(domain.StepResolveRoute, domain.FailureKindTransient, err)
	}
	return route, nil
}

// findFormRoute returns nil, nil when the form is unregistered or has no active route
func (r *RouteResolver) findFormRoute(ctx context.Context, channelID, externalFormID string) (*domain.IngestRoute, error) {
	if _, err := r.channelRepo.GetForm(ctx, channelID, externalFormID); err != nil {
		if domain.IsNotFound(err) {
			r.logger.WithFields(map[string]interface{}{
				"channel_id": channelID,
				"form_id":    externalFormID,
			}).Debug("Form not registered, falling back to channel route")
			return nil, nil
		}
		return nil, domain.NewPipelineError(domain.StepResolveRoute, domain.FailureKindTransient, err)
	}

	route, err := r.routeRepo.GetActiveFormRoute(ctx, channelID, externalFormID)
	if domain.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewPipelineError(domain.StepResolveRoute, domain.FailureKindTransient, err)
	}
	return route, nil
}
