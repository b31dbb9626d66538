package repository

import (
	"context"
	"database/sql"
	"errors"

	"gig-roster-api/core/database"
	"gig-roster-api/core/logger"
	"gig-roster-api/modules/contact/entity"

	"github.com/google/uuid"
)

type ContactRepositoryInterface interface {
	CreateContact(ctx context.Context, contact *entity.Contact) error
	GetContactByID(ctx context.Context, id uuid.UUID) (*entity.Contact, error)
	GetContactsByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Contact, error)
	SearchContacts(ctx context.Context, ownerID uuid.UUID, query string) ([]entity.Contact, error)
	UpdateContact(ctx context.Context, contact *entity.Contact) error
	DeleteContact(ctx context.Context, id uuid.UUID) error
	IsContactInUse(ctx context.Context, id uuid.UUID) (bool, error)
}

type ContactRepository struct {
	db database.IDatabase
}

func NewContactRepository(db database.IDatabase) *ContactRepository {
	return &ContactRepository{db: db}
}

const contactColumns = `id, owner_id, name, email, phone, instrument, notes, created_at, updated_at`

func (r *ContactRepository) CreateContact(ctx context.Context, contact *entity.Contact) error {
	query := `
		INSERT INTO contacts (owner_id, name, email, phone, instrument, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		contact.OwnerID, contact.Name, contact.Email, contact.Phone, contact.Instrument, contact.Notes,
	).Scan(&contact.ID, &contact.CreatedAt, &contact.UpdatedAt)
	if err != nil {
		logger.Error("ContactRepository:CreateContact:Error", "error", err)
		return err
	}
	return nil
}

func (r *ContactRepository) GetContactByID(ctx context.Context, id uuid.UUID) (*entity.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`

	var contact entity.Contact
	if err := r.db.GetContext(ctx, &contact, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("ContactRepository:GetContactByID:Error", "error", err)
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepository) GetContactsByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE owner_id = $1 ORDER BY name ASC`

	var contacts []entity.Contact
	if err := r.db.SelectContext(ctx, &contacts, query, ownerID); err != nil {
		logger.Error("ContactRepository:GetContactsByOwner:Error", "error", err)
		return nil, err
	}
	return contacts, nil
}

func (r *ContactRepository) SearchContacts(ctx context.Context, ownerID uuid.UUID, search string) ([]entity.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE owner_id = $1 AND (name ILIKE $2 OR email ILIKE $2 OR instrument ILIKE $2)
		ORDER BY name ASC
	`
	var contacts []entity.Contact
	if err := r.db.SelectContext(ctx, &contacts, query, ownerID, "%"+search+"%"); err != nil {
		logger.Error("ContactRepository:SearchContacts:Error", "error", err)
		return nil, err
	}
	return contacts, nil
}

func (r *ContactRepository) UpdateContact(ctx context.Context, contact *entity.Contact) error {
	query := `
		UPDATE contacts SET
			name = $1, email = $2, phone = $3, instrument = $4, notes = $5,
			updated_at = NOW()
		WHERE id = $6
	`
	if err := r.db.ExecContext(ctx, query,
		contact.Name, contact.Email, contact.Phone, contact.Instrument, contact.Notes, contact.ID,
	); err != nil {
		logger.Error("ContactRepository:UpdateContact:Error", "error", err)
		return err
	}
	return nil
}

func (r *ContactRepository) DeleteContact(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM contacts WHERE id = $1`
	if err := r.db.ExecContext(ctx, query, id); err != nil {
		logger.Error("ContactRepository:DeleteContact:Error", "error", err)
		return err
	}
	return nil
}

// IsContactInUse reports whether any lineup slot still references the
// contact.
func (r *ContactRepository) IsContactInUse(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM gig_roles WHERE contact_id = $1)`

	var inUse bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&inUse); err != nil {
		logger.Error("ContactRepository:IsContactInUse:Error", "error", err)
		return false, err
	}
	return inUse, nil
}
