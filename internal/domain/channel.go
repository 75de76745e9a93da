package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/leadpipe/leadpipe/pkg/crypto"
)

//go:generate mockgen -destination mocks/mock_channel_repository.go -package mocks github.com/leadpipe/leadpipe/internal/domain ChannelRepository

// Channel is a connected platform page. Managed by the connection flow, read-only here.
type Channel struct {
	ID                   string    `json:"id"`
	OrgID                string    `json:"org_id"`
	ExternalPageID       string    `json:"external_page_id"`
	Name                 string    `json:"name"`
	AccessTokenEncrypted string    `json:"-"`
	IsActive             bool      `json:"is_active"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// DecryptAccessToken returns the page access token in clear text
func (c *Channel) DecryptAccessToken(secretKey string) (string, error) {
	if c.AccessTokenEncrypted == "" {
		return "", ErrMissingAccessToken
	}
	token, err := crypto.DecryptFromHexString(c.AccessTokenEncrypted, secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt access token: %w", err)
	}
	return token, nil
}

// LeadForm is a platform lead form registered under a channel
type LeadForm struct {
	ID             string    `json:"id"`
	ChannelID      string    `json:"channel_id"`
	ExternalFormID string    `json:"external_form_id"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"created_at"`
}

type ChannelRepository interface {
	GetByID(ctx context.Context, id string) (*Channel, error)
	GetByExternalPageID(ctx context.Context, externalPageID string) (*Channel, error)
	GetForm(ctx context.Context, channelID, externalFormID string) (*LeadForm, error)
}
