package domain

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

//go:generate mockgen -destination mocks/mock_contact_repository.go -package mocks github.com/leadpipe/leadpipe/internal/domain ContactRepository

// ContactSourceLeadAds marks records created by lead ingestion
const ContactSourceLeadAds = "lead_ads"

// Contact is a CRM person. Empty strings are stored as NULL.
type Contact struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	FirstName   string    `json:"first_name,omitempty"`
	LastName    string    `json:"last_name,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Company     string    `json:"company,omitempty"`
	Position    string    `json:"position,omitempty"`
	Source      string    `json:"source,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FullName joins first and last name
func (c *Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// FillEmpty copies lead attributes into fields that are still empty and
// returns the column names that changed. Existing values always win.
func (c *Contact) FillEmpty(lead *MappedLead) []string {
	var changed []string
	fill := func(dst *string, value, column string) {
		if *dst == "" && value != "" {
			*dst = value
			changed = append(changed, column)
		}
	}
	fill(&c.FirstName, lead.FirstName, "first_name")
	fill(&c.LastName, lead.LastName, "last_name")
	fill(&c.Email, lead.Email, "email")
	fill(&c.Phone, lead.Phone, "phone")
	fill(&c.Company, lead.Company, "company")
	fill(&c.Position, lead.Position, "position")
	return changed
}

// NewContactFromLead builds a new contact for a workspace
func NewContactFromLead(id, workspaceID string, lead *MappedLead, now time.Time) *Contact {
	return &Contact{
		ID:          id,
		WorkspaceID: workspaceID,
		FirstName:   lead.FirstName,
		LastName:    lead.LastName,
		Email:       lead.Email,
		Phone:       lead.Phone,
		Company:     lead.Company,
		Position:    lead.Position,
		Source:      ContactSourceLeadAds,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// MatchedOn tells how a lead was linked to a contact
type MatchedOn string

const (
	MatchedOnEmail MatchedOn = "email"
	MatchedOnPhone MatchedOn = "phone"
	MatchedOnNone  MatchedOn = "none"
)

// ContactResolution is the outcome of resolving a lead into a contact
type ContactResolution struct {
	Contact       *Contact
	IsNew         bool
	MatchedOn     MatchedOn
	UpdatedFields []string
}

// DedupKeys returns the identity keys used to look a lead up: the lowercased
// email and the normalized phone, either possibly empty. Any stored email is
// a key, so a contact is always found again by the address it was saved with.
func DedupKeys(lead *MappedLead) (email, phone string) {
	email = strings.ToLower(strings.TrimSpace(lead.Email))
	phone = NormalizePhone(lead.Phone)
	return email, phone
}

type ContactRepository interface {
	// LockIdentityTx takes a transaction-scoped advisory lock on the identity key
	LockIdentityTx(ctx context.Context, tx *sql.Tx, workspaceID, key string) error

	FindByEmailTx(ctx context.Context, tx *sql.Tx, workspaceID, email string) (*Contact, error)
	FindByPhoneTx(ctx context.Context, tx *sql.Tx, workspaceID, phone string) (*Contact, error)
	CreateTx(ctx context.Context, tx *sql.Tx, contact *Contact) error

	// UpdateFieldsTx writes only the named columns of contact
	UpdateFieldsTx(ctx context.Context, tx *sql.Tx, contact *Contact, columns []string) error
}
