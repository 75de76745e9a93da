package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/leadpipe/leadpipe/internal/domain"
	"github.com/leadpipe/leadpipe/pkg/logger"
)

// ContactResolver links a mapped lead to an existing contact of the workspace,
// matching on email then phone, or creates one
type ContactResolver struct {
	repo   domain.ContactRepository
	logger logger.Logger
	now    func() time.Time
	newID  func() string
}

func NewContactResolver(repo domain.ContactRepository, logger logger.Logger) *ContactResolver {
	return &ContactResolver{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.New().String() },
	}
}

// ResolveContactTx must run inside the pipeline transaction. The identity
// locks it takes are released at commit or rollback.
func (r *ContactResolver) ResolveContactTx(ctx context.Context, tx *sql.Tx, workspaceID string, lead *domain.MappedLead) (*domain.ContactResolution, error) {
	email, phone := domain.DedupKeys(lead)

	// email before phone, always
	if email != "" {
		if err := r.repo.LockIdentityTx(ctx, tx, workspaceID, "email:"+email); err != nil {
			return nil, err
		}
	}
	if phone != "" {
		if err := r.repo.LockIdentityTx(ctx, tx, workspaceID, "phone:"+phone); err != nil {
			return nil, err
		}
	}

	existing, matchedOn, err := r.findExisting(ctx, tx, workspaceID, email, phone)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		updated := existing.FillEmpty(lead)
		if len(updated) > 0 {
			existing.UpdatedAt = r.now()
			if err := r.repo.UpdateFieldsTx(ctx, tx, existing, updated); err != nil {
				return nil, fmt.Errorf("failed to merge lead into contact: %w", err)
			}
		}
		return &domain.ContactResolution{
			Contact:       existing,
			IsNew:         false,
			MatchedOn:     matchedOn,
			UpdatedFields: updated,
		}, nil
	}

	contact := domain.NewContactFromLead(r.newID(), workspaceID, lead, r.now())
	if email != "" {
		contact.Email = email
	}
	if err := r.repo.CreateTx(ctx, tx, contact); err != nil {
		return nil, err
	}

	return &domain.ContactResolution{
		Contact:   contact,
		IsNew:     true,
		MatchedOn: domain.MatchedOnNone,
	}, nil
}

func (r *ContactResolver) findExisting(ctx context.Context, tx *sql.Tx, workspaceID, email, phone string) (*domain.Contact, domain.MatchedOn, error) {
	if email != "" {
		c, err := r.repo.FindByEmailTx(ctx, tx, workspaceID, email)
		if err == nil {
			return c, domain.MatchedOnEmail, nil
		}
		if !domain.IsNotFound(err) {
			return nil, "", err
		}
	}

	if phone != "" {
		c, err := r.repo.FindByPhoneTx(ctx, tx, workspaceID, phone)
		if err == nil {
			return c, domain.MatchedOnPhone, nil
		}
		if !domain.IsNotFound(err) {
			return nil, "", err
		}
	}

	return nil, domain.MatchedOnNone, nil
}
