package repository

import (
	"context"
	"time"

	"gig-roster-api/core/database"
	"gig-roster-api/core/logger"
	"gig-roster-api/modules/gig/entity"

	"github.com/google/uuid"
)

// InvitationRepository owns the invite-state writes on gig_roles plus the
// append-only status history. Role reads go through the gig repository.
type InvitationRepositoryInterface interface {
	MarkInvited(ctx context.Context, roleID uuid.UUID, method string, eventID *string, tokenHash *string, expiresAt *time.Time, actor uuid.UUID) error
	ClearInvite(ctx context.Context, roleID uuid.UUID) error
	UpdateRoleStatus(ctx context.Context, roleID uuid.UUID, status entity.InvitationStatus, actor *uuid.UUID) error
	InsertStatusHistory(ctx context.Context, entry *entity.StatusHistoryEntry) error
	GetStatusHistory(ctx context.Context, roleID uuid.UUID) ([]entity.StatusHistoryEntry, error)
}

type InvitationRepository struct {
	db database.IDatabase
}

func NewInvitationRepository(db database.IDatabase) *InvitationRepository {
	return &InvitationRepository{db: db}
}

func (r *InvitationRepository) MarkInvited(ctx context.Context, roleID uuid.UUID, method string, eventID *string, tokenHash *string, expiresAt *time.Time, actor uuid.UUID) error {
	query := `
		UPDATE gig_roles SET
			invitation_status = 'invited',
			invitation_method = $1,
			calendar_event_id = $2,
			invite_token_hash = $3,
			invite_expires_at = $4,
			status_changed_at = NOW(),
			status_changed_by = $5,
			updated_at = NOW()
		WHERE id = $6
	`
	if err := r.db.ExecContext(ctx, query, method, eventID, tokenHash, expiresAt, actor, roleID); err != nil {
		logger.Error("InvitationRepository:MarkInvited:Error", "error", err)
		return err
	}
	return nil
}

func (r *InvitationRepository) ClearInvite(ctx context.Context, roleID uuid.UUID) error {
	query := `
		UPDATE gig_roles SET
			invitation_method = NULL,
			calendar_event_id = NULL,
			invite_token_hash = NULL,
			invite_expires_at = NULL,
			updated_at = NOW()
		WHERE id = $1
	`
	if err := r.db.ExecContext(ctx, query, roleID); err != nil {
		logger.Error("InvitationRepository:ClearInvite:Error", "error", err)
		return err
	}
	return nil
}

func (r *InvitationRepository) UpdateRoleStatus(ctx context.Context, roleID uuid.UUID, status entity.InvitationStatus, actor *uuid.UUID) error {
	query := `
		UPDATE gig_roles SET
			invitation_status = $1,
			status_changed_at = NOW(),
			status_changed_by = $2,
			updated_at = NOW()
		WHERE id = $3
	`
	if err := r.db.ExecContext(ctx, query, status, actor, roleID); err != nil {
		logger.Error("InvitationRepository:UpdateRoleStatus:Error", "error", err)
		return err
	}
	return nil
}

func (r *InvitationRepository) InsertStatusHistory(ctx context.Context, entry *entity.StatusHistoryEntry) error {
	query := `
		INSERT INTO role_status_history (role_id, old_status, new_status, changed_by, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		entry.RoleID, entry.OldStatus, entry.NewStatus, entry.ChangedBy, entry.Note,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		logger.Error("InvitationRepository:InsertStatusHistory:Error", "error", err)
		return err
	}
	return nil
}

func (r *InvitationRepository) GetStatusHistory(ctx context.Context, roleID uuid.UUID) ([]entity.StatusHistoryEntry, error) {
	query := `
		SELECT id, role_id, old_status, new_status, changed_by, note, created_at
		FROM role_status_history
		WHERE role_id = $1
		ORDER BY created_at ASC
	`
	var entries []entity.StatusHistoryEntry
	if err := r.db.SelectContext(ctx, &entries, query, roleID); err != nil {
		logger.Error("InvitationRepository:GetStatusHistory:Error", "error", err)
		return nil, err
	}
	return entries, nil
}
