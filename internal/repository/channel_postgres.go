package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/leadpipe/leadpipe/internal/domain"
)

const channelSelect = `
	SELECT id, org_id, external_page_id, name, access_token_encrypted, is_active, created_at, updated_at
	FROM channels`

// ChannelRepository reads connected platform pages and their registered forms
type ChannelRepository struct {
	db *sql.DB
}

// NewChannelRepository creates a new ChannelRepository
func NewChannelRepository(db *sql.DB) domain.ChannelRepository {
	return &ChannelRepository{db: db}
}

func (r *ChannelRepository) GetByID(ctx context.Context, id string) (*domain.Channel, error) {
	row := r.db.QueryRowContext(ctx, channelSelect+` WHERE id = $1`, id)
	channel, err := scanChannel(row)
	if err == sql.ErrNoRows {
		return nil, &domain.ErrNotFound{Entity: "channel", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}
	return channel, nil
}

// GetByExternalPageID looks a channel up by the platform page id carried in notifications
func (r *ChannelRepository) GetByExternalPageID(ctx context.Context, externalPageID string) (*domain.Channel, error) {
	row := r.db.QueryRowContext(ctx, channelSelect+` WHERE external_page_id = $1`, externalPageID)
	channel, err := scanChannel(row)
	if err == sql.ErrNoRows {
		return nil, &domain.ErrNotFound{Entity: "channel", ID: externalPageID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get channel by page id: %w", err)
	}
	return channel, nil
}

func (r *ChannelRepository) GetForm(ctx context.Context, channelID, externalFormID string) (*domain.LeadForm, error) {
	query := `
		SELECT id, channel_id, external_form_id, name, created_at
		FROM lead_forms
		WHERE channel_id = $1 AND external_form_id = $2
	`

	var (
		form domain.LeadForm
		name sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, channelID, externalFormID).Scan(
		&form.ID, &form.ChannelID, &form.ExternalFormID, &name, &form.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &domain.ErrNotFound{Entity: "lead form", ID: externalFormID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lead form: %w", err)
	}
	form.Name = name.String
	return &form, nil
}

func scanChannel(scanner rowScanner) (*domain.Channel, error) {
	var (
		channel domain.Channel
		name    sql.NullString
		token   sql.NullString
	)
	err := scanner.Scan(
		&channel.ID, &channel.OrgID, &channel.ExternalPageID, &name, &token,
		&channel.IsActive, &channel.CreatedAt, &channel.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	channel.Name = name.String
	channel.AccessTokenEncrypted = token.String
	return &channel, nil
}
