package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/leadpipe/leadpipe/internal/domain"
)

const contactSelect = `
	SELECT id, workspace_id, first_name, last_name, email, phone, company, position, source, created_at, updated_at
	FROM contacts`

// ContactRepository holds the contact queries the lead pipeline runs inside its transaction
type ContactRepository struct{}

// NewContactRepository creates a new ContactRepository
func NewContactRepository() domain.ContactRepository {
	return &ContactRepository{}
}

// LockIdentityTx serializes resolution of one identity key within a workspace
// until the transaction ends
func (r *ContactRepository) LockIdentityTx(ctx context.Context, tx *sql.Tx, workspaceID, key string) error {
	_, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, workspaceID+":"+key)
	if err != nil {
		return fmt.Errorf("failed to lock contact identity: %w", err)
	}
	return nil
}

func (r *ContactRepository) FindByEmailTx(ctx context.Context, tx *sql.Tx, workspaceID, email string) (*domain.Contact, error) {
	query := contactSelect + `
		WHERE workspace_id = $1 AND lower(email) = $2
		ORDER BY created_at ASC
		LIMIT 1
	`
	return r.findOne(ctx, tx, query, workspaceID, email)
}

// FindByPhoneTx compares digits and '+' only
func (r *ContactRepository) FindByPhoneTx(ctx context.Context, tx *sql.Tx, workspaceID, phone string) (*domain.Contact, error) {
	query := contactSelect + `
		WHERE workspace_id = $1 AND regexp_replace(phone, '[^0-9+]', '', 'g') = $2
		ORDER BY created_at ASC
		LIMIT 1
	`
	return r.findOne(ctx, tx, query, workspaceID, phone)
}

func (r *ContactRepository) findOne(ctx context.Context, tx *sql.Tx, query, workspaceID, key string) (*domain.Contact, error) {
	contact, err := scanContact(tx.QueryRowContext(ctx, query, workspaceID, key))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrNotFound{Entity: "contact", ID: key}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}
	return contact, nil
}

func (r *ContactRepository) CreateTx(ctx context.Context, tx *sql.Tx, c *domain.Contact) error {
	query := `
		INSERT INTO contacts (
			id, workspace_id, first_name, last_name, email, phone, company, position, source, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := tx.ExecContext(ctx, query,
		c.ID, c.WorkspaceID,
		nullIfEmpty(c.FirstName), nullIfEmpty(c.LastName), nullIfEmpty(c.Email),
		nullIfEmpty(c.Phone), nullIfEmpty(c.Company), nullIfEmpty(c.Position),
		nullIfEmpty(c.Source), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

func (r *ContactRepository) UpdateFieldsTx(ctx context.Context, tx *sql.Tx, c *domain.Contact, columns []string) error {
	if len(columns) == 0 {
		return nil
	}

	update := psql.Update("contacts")
	for _, column := range columns {
		value, ok := contactColumnValue(c, column)
		if !ok {
			return fmt.Errorf("unknown contact column: %s", column)
		}
		update = update.Set(column, nullIfEmpty(value))
	}

	query, args, err := update.
		Set("updated_at", c.UpdatedAt).
		Where("id = ? AND workspace_id = ?", c.ID, c.WorkspaceID).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "contact", ID: c.ID}
	}

	return nil
}

func contactColumnValue(c *domain.Contact, column string) (string, bool) {
	switch column {
	case "first_name":
		return c.FirstName, true
	case "last_name":
		return c.LastName, true
	case "email":
		return c.Email, true
	case "phone":
		return c.Phone, true
	case "company":
		return c.Company, true
	case "position":
		return c.Position, true
	}
	return "", false
}

func scanContact(scanner rowScanner) (*domain.Contact, error) {
	var (
		c                                 domain.Contact
		firstName, lastName, email, phone sql.NullString
		company, position, source         sql.NullString
	)
	err := scanner.Scan(
		&c.ID, &c.WorkspaceID, &firstName, &lastName, &email, &phone,
		&company, &position, &source, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.FirstName = firstName.String
	c.LastName = lastName.String
	c.Email = email.String
	c.Phone = phone.String
	c.Company = company.String
	c.Position = position.String
	c.Source = source.String
	return &c, nil
}
