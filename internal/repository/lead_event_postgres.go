package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/leadpipe/leadpipe/internal/domain"
)

// pgUniqueViolation is the SQLSTATE of a unique constraint violation
const pgUniqueViolation = "23505"

// psql is a Squirrel StatementBuilder configured for PostgreSQL
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var leadEventColumns = []string{
	"id", "external_lead_id", "org_id", "channel_id", "form_id", "ad_id", "adset_id",
	"campaign_id", "payload", "field_data", "status", "retry_count",
	"processing_started_at", "error_message", "failure_kind", "contact_id",
	"opportunity_id", "created_at", "updated_at", "fetched_at", "processed_at",
}

const leadEventSelect = `
	SELECT id, external_lead_id, org_id, channel_id, form_id, ad_id, adset_id,
	       campaign_id, payload, field_data, status, retry_count,
	       processing_started_at, error_message, failure_kind, contact_id,
	       opportunity_id, created_at, updated_at, fetched_at, processed_at
	FROM raw_lead_events`

// LeadEventRepository implements domain.LeadEventRepository on raw_lead_events
type LeadEventRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewLeadEventRepository creates a new LeadEventRepository
func NewLeadEventRepository(db *sql.DB) domain.LeadEventRepository {
	return &LeadEventRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithTransaction executes fn inside a transaction, committing when it returns nil
func (r *LeadEventRepository) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// no-op once committed
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *LeadEventRepository) findIDByExternalLeadID(ctx context.Context, externalLeadID string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM raw_lead_events WHERE external_lead_id = $1`,
		externalLeadID,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return "", &domain.ErrNotFound{Entity: "raw lead event", ID: externalLeadID}
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up raw lead event: %w", err)
	}
	return id, nil
}

// StoreRawEvent records a notification once per external lead id
func (r *LeadEventRepository) StoreRawEvent(ctx context.Context, orgID string, n *domain.LeadNotification) (string, bool, error) {
	id, err := r.findIDByExternalLeadID(ctx, n.ExternalLeadID)
	if err == nil {
		return id, false, nil
	}
	if !domain.IsNotFound(err) {
		return "", false, err
	}

	event := domain.NewRawLeadEvent(uuid.New().String(), orgID, n, r.now())

	query := `
		INSERT INTO raw_lead_events (
			id, external_lead_id, org_id, channel_id, form_id, ad_id, adset_id,
			campaign_id, payload, status, retry_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.ExternalLeadID, event.OrgID, event.ChannelID,
		event.FormID, event.AdID, event.AdsetID, event.CampaignID,
		[]byte(event.Payload), event.Status, 0, event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			// lost the insert race; the winner's row is the event
			existingID, lookupErr := r.findIDByExternalLeadID(ctx, n.ExternalLeadID)
			if lookupErr != nil {
				return "", false, lookupErr
			}
			return existingID, false, nil
		}
		return "", false, fmt.Errorf("failed to insert raw lead event: %w", err)
	}

	return event.ID, true, nil
}

// GetByID retrieves a raw lead event
func (r *LeadEventRepository) GetByID(ctx context.Context, id string) (*domain.RawLeadEvent, error) {
	row := r.db.QueryRowContext(ctx, leadEventSelect+` WHERE id = $1`, id)

	event, err := scanRawLeadEvent(row)
	if err == sql.ErrNoRows {
		return nil, &domain.ErrNotFound{Entity: "raw lead event", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get raw lead event: %w", err)
	}
	return event, nil
}

// ClaimForProcessing is the compare-and-set that gives one worker ownership of a row.
// The returned stamp is read back from the row so later guards compare equal.
func (r *LeadEventRepository) ClaimForProcessing(ctx context.Context, id string, maxRetries int) (*domain.LeadClaim, error) {
	query := `
		UPDATE raw_lead_events
		SET status = 'processing', processing_started_at = $2, retry_count = retry_count + 1, updated_at = $2
		WHERE id = $1 AND status IN ('pending', 'failed') AND retry_count < $3
		RETURNING processing_started_at
	`

	claim := &domain.LeadClaim{RawEventID: id}
	err := r.db.QueryRowContext(ctx, query, id, r.now(), maxRetries).Scan(&claim.StartedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim raw lead event: %w", err)
	}

	return claim, nil
}

// MarkCompletedTx only completes rows this claim still owns
func (r *LeadEventRepository) MarkCompletedTx(ctx context.Context, tx *sql.Tx, claim *domain.LeadClaim, c *domain.LeadEventCompletion) error {
	query := `
		UPDATE raw_lead_events
		SET status = 'completed', contact_id = $3, opportunity_id = $4, field_data = $5,
		    fetched_at = $6, processed_at = $7, error_message = NULL, failure_kind = NULL,
		    processing_started_at = NULL, updated_at = $7
		WHERE id = $1 AND status = 'processing' AND processing_started_at = $2
	`

	var fieldData interface{}
	if len(c.FieldData) > 0 {
		fieldData = []byte(c.FieldData)
	}

	result, err := tx.ExecContext(ctx, query, claim.RawEventID, claim.StartedAt,
		c.ContactID, c.OpportunityID, fieldData, c.FetchedAt, c.ProcessedAt)
	if err != nil {
		return fmt.Errorf("failed to mark raw lead event completed: %w", err)
	}

	return claimResult(result, claim)
}

// FailClaim records a failure on a row this claim still owns
func (r *LeadEventRepository) FailClaim(ctx context.Context, claim *domain.LeadClaim, message string, kind domain.FailureKind) error {
	query := `
		UPDATE raw_lead_events
		SET status = 'failed', error_message = $3, failure_kind = $4,
		    processing_started_at = NULL, updated_at = $5
		WHERE id = $1 AND status = 'processing' AND processing_started_at = $2
	`

	result, err := r.db.ExecContext(ctx, query, claim.RawEventID, claim.StartedAt, message, string(kind), r.now())
	if err != nil {
		return fmt.Errorf("failed to mark raw lead event failed: %w", err)
	}

	return claimResult(result, claim)
}

func claimResult(result sql.Result, claim *domain.LeadClaim) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrClaimLost, claim.RawEventID)
	}
	return nil
}

// MarkFailed records a failure on an unclaimed row. Processing rows belong to
// their claim and completed rows are never downgraded.
func (r *LeadEventRepository) MarkFailed(ctx context.Context, id string, message string, kind domain.FailureKind) error {
	query := `
		UPDATE raw_lead_events
		SET status = 'failed', error_message = $2, failure_kind = $3,
		    processing_started_at = NULL, updated_at = $4
		WHERE id = $1 AND status IN ('pending', 'failed')
	`

	_, err := r.db.ExecContext(ctx, query, id, message, string(kind), r.now())
	if err != nil {
		return fmt.Errorf("failed to mark raw lead event failed: %w", err)
	}

	return nil
}

// ListRetryable returns pending and failed rows below the retry ceiling, oldest first
func (r *LeadEventRepository) ListRetryable(ctx context.Context, maxRetries, limit int) ([]*domain.RawLeadEvent, error) {
	query := leadEventSelect + `
		WHERE status IN ('pending', 'failed') AND retry_count < $1
		ORDER BY created_at ASC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, maxRetries, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query retryable lead events: %w", err)
	}
	defer rows.Close()

	return scanRawLeadEvents(rows)
}

// ResetStale hands abandoned processing rows back to the scheduler, keeping retry_count
func (r *LeadEventRepository) ResetStale(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `
		UPDATE raw_lead_events
		SET status = 'pending', processing_started_at = NULL, error_message = $2, updated_at = $3
		WHERE status = 'processing' AND processing_started_at < $1
	`

	result, err := r.db.ExecContext(ctx, query, olderThan, domain.StaleResetMessage, r.now())
	if err != nil {
		return 0, fmt.Errorf("failed to reset stale lead events: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// ResetForRetry gives a pending or failed row a fresh retry budget
func (r *LeadEventRepository) ResetForRetry(ctx context.Context, id string) error {
	query := `
		UPDATE raw_lead_events
		SET status = 'pending', retry_count = 0, error_message = NULL, failure_kind = NULL,
		    processing_started_at = NULL, updated_at = $2
		WHERE id = $1 AND status IN ('pending', 'failed')
	`

	result, err := r.db.ExecContext(ctx, query, id, r.now())
	if err != nil {
		return fmt.Errorf("failed to reset raw lead event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		var exists bool
		err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM raw_lead_events WHERE id = $1)`, id).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check raw lead event: %w", err)
		}
		if !exists {
			return &domain.ErrNotFound{Entity: "raw lead event", ID: id}
		}
		return fmt.Errorf("%w: %s", domain.ErrLeadEventNotRetried, id)
	}

	return nil
}

// GetStats counts rows by status; exhausted are failed rows at the ceiling
func (r *LeadEventRepository) GetStats(ctx context.Context, maxRetries int) (*domain.LeadEventStats, error) {
	query, args, err := psql.
		Select(
			"COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0)",
			"COALESCE(SUM(CASE WHEN status = 'processing' THEN 1 ELSE 0 END), 0)",
			"COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0)",
			"COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0)",
		).
		Column(sq.Expr("COALESCE(SUM(CASE WHEN status = 'failed' AND retry_count >= ? THEN 1 ELSE 0 END), 0)", maxRetries)).
		From("raw_lead_events").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var stats domain.LeadEventStats
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&stats.Pending, &stats.Processing, &stats.Completed, &stats.Failed, &stats.Exhausted,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get lead event stats: %w", err)
	}

	return &stats, nil
}

// ListFailed pages through failed rows, most recently updated first
func (r *LeadEventRepository) ListFailed(ctx context.Context, req *domain.ListFailedLeadEventsRequest) ([]*domain.RawLeadEvent, int64, error) {
	where := sq.And{sq.Eq{"status": string(domain.LeadEventStatusFailed)}}
	if req.FailureKind != "" {
		where = append(where, sq.Eq{"failure_kind": string(req.FailureKind)})
	}

	countQuery, countArgs, err := psql.Select("COUNT(*)").From("raw_lead_events").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count failed lead events: %w", err)
	}

	query, args, err := psql.
		Select(leadEventColumns...).
		From("raw_lead_events").
		Where(where).
		OrderBy("updated_at DESC").
		Limit(uint64(req.Limit)).
		Offset(uint64(req.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query failed lead events: %w", err)
	}
	defer rows.Close()

	events, err := scanRawLeadEvents(rows)
	if err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRawLeadEvents(rows *sql.Rows) ([]*domain.RawLeadEvent, error) {
	events := make([]*domain.RawLeadEvent, 0)
	for rows.Next() {
		event, err := scanRawLeadEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan raw lead event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return events, nil
}

func scanRawLeadEvent(scanner rowScanner) (*domain.RawLeadEvent, error) {
	var (
		event               domain.RawLeadEvent
		formID              sql.NullString
		adID                sql.NullString
		adsetID             sql.NullString
		campaignID          sql.NullString
		payload             []byte
		fieldData           []byte
		processingStartedAt sql.NullTime
		errorMessage        sql.NullString
		failureKind         sql.NullString
		contactID           sql.NullString
		opportunityID       sql.NullString
		fetchedAt           sql.NullTime
		processedAt         sql.NullTime
	)

	err := scanner.Scan(
		&event.ID, &event.ExternalLeadID, &event.OrgID, &event.ChannelID,
		&formID, &adID, &adsetID, &campaignID, &payload, &fieldData,
		&event.Status, &event.RetryCount, &processingStartedAt, &errorMessage,
		&failureKind, &contactID, &opportunityID, &event.CreatedAt, &event.UpdatedAt,
		&fetchedAt, &processedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := event.Status.Validate(); err != nil {
		return nil, err
	}

	event.FormID = nullStringPtr(formID)
	event.AdID = nullStringPtr(adID)
	event.AdsetID = nullStringPtr(adsetID)
	event.CampaignID = nullStringPtr(campaignID)
	event.ErrorMessage = nullStringPtr(errorMessage)
	event.ContactID = nullStringPtr(contactID)
	event.OpportunityID = nullStringPtr(opportunityID)
	event.ProcessingStartedAt = nullTimePtr(processingStartedAt)
	event.FetchedAt = nullTimePtr(fetchedAt)
	event.ProcessedAt = nullTimePtr(processedAt)
	if failureKind.Valid {
		kind := domain.FailureKind(failureKind.String)
		event.FailureKind = &kind
	}
	if len(payload) > 0 {
		event.Payload = payload
	}
	if len(fieldData) > 0 {
		event.FieldData = fieldData
	}

	return &event, nil
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullTimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

// nullIfEmpty stores empty strings as NULL
func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
