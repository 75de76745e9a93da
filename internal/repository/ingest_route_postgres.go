package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/leadpipe/leadpipe/internal/domain"
)

const ingestRouteColumns = `r.id, r.org_id, r.channel_id, r.form_id, r.workspace_id, r.pipeline_id,
	r.stage_id, r.assignee_id, r.is_active, r.created_at, r.updated_at`

// IngestRouteRepository reads routing configuration. Routes are managed elsewhere.
type IngestRouteRepository struct {
	db *sql.DB
}

// NewIngestRouteRepository creates a new IngestRouteRepository
func NewIngestRouteRepository(db *sql.DB) domain.IngestRouteRepository {
	return &IngestRouteRepository{db: db}
}

func (r *IngestRouteRepository) GetActiveFormRoute(ctx context.Context, channelID, externalFormID string) (*domain.IngestRoute, error) {
	query := `
		SELECT ` + ingestRouteColumns + `
		FROM ingest_routes r
		JOIN lead_forms f ON f.id = r.form_id AND f.channel_id = r.channel_id
		WHERE r.channel_id = $1 AND f.external_form_id = $2 AND r.is_active = TRUE
		ORDER BY r.created_at ASC
		LIMIT 1
	`
	route, err := scanIngestRoute(r.db.QueryRowContext(ctx, query, channelID, externalFormID))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrNotFound{Entity: "form route", ID: externalFormID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get form route: %w", err)
	}
	return route, nil
}

func (r *IngestRouteRepository) GetActiveChannelRoute(ctx context.Context, channelID string) (*domain.IngestRoute, error) {
	query := `
		SELECT ` + ingestRouteColumns + `
		FROM ingest_routes r
		WHERE r.channel_id = $1 AND r.form_id IS NULL AND r.is_active = TRUE
		ORDER BY r.created_at ASC
		LIMIT 1
	`
	route, err := scanIngestRoute(r.db.QueryRowContext(ctx, query, channelID))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrNotFound{Entity: "channel route", ID: channelID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get channel route: %w", err)
	}
	return route, nil
}

// ListMappings returns the raw mapping rows; validation is up to the caller
func (r *IngestRouteRepository) ListMappings(ctx context.Context, routeID string) ([]*domain.StoredFieldMapping, error) {
	query := `
		SELECT id, route_id, source_field, target_field, transform
		FROM ingest_field_mappings
		WHERE route_id = $1
		ORDER BY source_field ASC
	`
	rows, err := r.db.QueryContext(ctx, query, routeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query field mappings: %w", err)
	}
	defer rows.Close()

	mappings := make([]*domain.StoredFieldMapping, 0)
	for rows.Next() {
		var (
			m         domain.StoredFieldMapping
			transform sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.RouteID, &m.SourceField, &m.TargetField, &transform); err != nil {
			return nil, fmt.Errorf("failed to scan field mapping: %w", err)
		}
		m.Transform = nullStringPtr(transform)
		mappings = append(mappings, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return mappings, nil
}

func scanIngestRoute(scanner rowScanner) (*domain.IngestRoute, error) {
	var (
		route      domain.IngestRoute
		formID     sql.NullString
		assigneeID sql.NullString
	)
	err := scanner.Scan(
		&route.ID, &route.OrgID, &route.ChannelID, &formID, &route.WorkspaceID,
		&route.PipelineID, &route.StageID, &assigneeID, &route.IsActive,
		&route.CreatedAt, &route.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	route.FormID = nullStringPtr(formID)
	route.AssigneeID = nullStringPtr(assigneeID)
	return &route, nil
}
