package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"gig-roster-api/core/database"
	"gig-roster-api/core/logger"
	"gig-roster-api/modules/gig/entity"

	"github.com/google/uuid"
)

type GigRepositoryInterface interface {
	CreateGig(ctx context.Context, gig *entity.Gig) (*entity.Gig, error)
	GetGigByID(ctx context.Context, id uuid.UUID) (*entity.Gig, error)
	GetGigsByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Gig, error)
	UpdateGig(ctx context.Context, gig *entity.Gig) error
	UpdateGigFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	DeleteGig(ctx context.Context, id uuid.UUID) error
	GetGigsForUserOnDate(ctx context.Context, userID uuid.UUID, date string) ([]entity.Gig, error)
	GetGigByPublicSlug(ctx context.Context, slug string) (*entity.Gig, error)
	GetExternalGigsByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Gig, error)

	CreateRole(ctx context.Context, role *entity.GigRole) (*entity.GigRole, error)
	GetRoleByID(ctx context.Context, id uuid.UUID) (*entity.GigRole, error)
	GetRolesByGigID(ctx context.Context, gigID uuid.UUID) ([]entity.GigRole, error)
	DeleteRole(ctx context.Context, id uuid.UUID) error
	IsLineupMember(ctx context.Context, gigID uuid.UUID, userID uuid.UUID) (bool, error)
}

type GigRepository struct {
	db database.IDatabase
}

func NewGigRepository(db database.IDatabase) *GigRepository {
	return &GigRepository{db: db}
}

const gigColumns = `
	g.id, g.owner_id, g.organization_id, g.title, g.venue_name, g.venue_address,
	g.gig_date, g.call_time, g.start_time, g.on_stage_time, g.end_time,
	g.dress_code, g.parking_info, g.notes, g.schedule_text,
	g.is_public, g.public_slug,
	g.is_external, g.external_event_id, g.external_provider, g.external_url,
	g.created_at, g.updated_at,
	o.name AS organization_name, u.name AS owner_name
`

const gigJoins = `
	FROM gigs g
	LEFT JOIN organizations o ON o.id = g.organization_id
	LEFT JOIN users u ON u.id = g.owner_id
`

const roleColumns = `
	r.id, r.gig_id, r.role_name, r.musician_id, r.contact_id,
	r.invitation_status, r.invitation_method, r.calendar_event_id,
	r.invite_token_hash, r.invite_expires_at,
	r.status_changed_at, r.status_changed_by,
	r.created_at, r.updated_at,
	mu.name AS musician_name, mu.email AS musician_email,
	c.name AS contact_name, c.email AS contact_email
`

const roleJoins = `
	FROM gig_roles r
	LEFT JOIN users mu ON mu.id = r.musician_id
	LEFT JOIN contacts c ON c.id = r.contact_id
`

func (r *GigRepository) CreateGig(ctx context.Context, gig *entity.Gig) (*entity.Gig, error) {
	query := `
		INSERT INTO gigs (
			owner_id, organization_id, title, venue_name, venue_address,
			gig_date, call_time, start_time, on_stage_time, end_time,
			dress_code, parking_info, notes, schedule_text,
			is_public, public_slug,
			is_external, external_event_id, external_provider, external_url
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		gig.OwnerID, gig.OrganizationID, gig.Title, gig.VenueName, gig.VenueAddress,
		gig.Date, gig.CallTime, gig.StartTime, gig.OnStageTime, gig.EndTime,
		gig.DressCode, gig.ParkingInfo, gig.Notes, gig.ScheduleText,
		gig.IsPublic, gig.PublicSlug,
		gig.IsExternal, gig.ExternalEventID, gig.ExternalProvider, gig.ExternalURL,
	).Scan(&gig.ID, &gig.CreatedAt, &gig.UpdatedAt)
	if err != nil {
		logger.Error("GigRepository:CreateGig:Error", "error", err)
		return nil, err
	}
	return gig, nil
}

func (r *GigRepository) GetGigByID(ctx context.Context, id uuid.UUID) (*entity.Gig, error) {
	query := `SELECT ` + gigColumns + gigJoins + ` WHERE g.id = $1`

	var gig entity.Gig
	if err := r.db.GetContext(ctx, &gig, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("GigRepository:GetGigByID:Error", "error", err)
		return nil, err
	}
	return &gig, nil
}

func (r *GigRepository) GetGigsByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Gig, error) {
	query := `SELECT ` + gigColumns + gigJoins + `
		WHERE g.owner_id = $1
		ORDER BY g.gig_date DESC, g.created_at DESC
	`
	var gigs []entity.Gig
	if err := r.db.SelectContext(ctx, &gigs, query, ownerID); err != nil {
		logger.Error("GigRepository:GetGigsByOwner:Error", "error", err)
		return nil, err
	}
	return gigs, nil
}

func (r *GigRepository) UpdateGig(ctx context.Context, gig *entity.Gig) error {
	query := `
		UPDATE gigs SET
			title = $1, venue_name = $2, venue_address = $3,
			gig_date = $4, call_time = $5, start_time = $6, on_stage_time = $7, end_time = $8,
			dress_code = $9, parking_info = $10, notes = $11, schedule_text = $12,
			is_public = $13, public_slug = $14,
			updated_at = NOW()
		WHERE id = $15
	`
	err := r.db.ExecContext(ctx, query,
		gig.Title, gig.VenueName, gig.VenueAddress,
		gig.Date, gig.CallTime, gig.StartTime, gig.OnStageTime, gig.EndTime,
		gig.DressCode, gig.ParkingInfo, gig.Notes, gig.ScheduleText,
		gig.IsPublic, gig.PublicSlug,
		gig.ID,
	)
	if err != nil {
		logger.Error("GigRepository:UpdateGig:Error", "error", err)
	}
	return err
}

// UpdateGigFields writes only the given columns. Callers are responsible for
// restricting the keys to the remote-controlled comparison set.
func (r *GigRepository) UpdateGigFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	setClauses := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+1)
	i := 1
	for col, val := range fields {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}
	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE gigs SET %s WHERE id = $%d", strings.Join(setClauses, ", "), i)
	if err := r.db.ExecContext(ctx, query, args...); err != nil {
		logger.Error("GigRepository:UpdateGigFields:Error", "error", err)
		return err
	}
	return nil
}

func (r *GigRepository) DeleteGig(ctx context.Context, id uuid.UUID) error {
	if err := r.db.ExecContext(ctx, `DELETE FROM gigs WHERE id = $1`, id); err != nil {
		logger.Error("GigRepository:DeleteGig:Error", "error", err)
		return err
	}
	return nil
}

// GetGigsForUserOnDate returns the user's own gigs plus gigs they hold a
// lineup slot on, for one calendar date.
func (r *GigRepository) GetGigsForUserOnDate(ctx context.Context, userID uuid.UUID, date string) ([]entity.Gig, error) {
	query := `SELECT DISTINCT ` + gigColumns + gigJoins + `
		LEFT JOIN gig_roles gr ON gr.gig_id = g.id
		WHERE g.gig_date = $1 AND (g.owner_id = $2 OR gr.musician_id = $2)
		ORDER BY g.start_time NULLS FIRST
	`
	var gigs []entity.Gig
	if err := r.db.SelectContext(ctx, &gigs, query, date, userID); err != nil {
		logger.Error("GigRepository:GetGigsForUserOnDate:Error", "error", err)
		return nil, err
	}
	return gigs, nil
}

func (r *GigRepository) GetGigByPublicSlug(ctx context.Context, slug string) (*entity.Gig, error) {
	query := `SELECT ` + gigColumns + gigJoins + ` WHERE g.public_slug = $1 AND g.is_public = TRUE`

	var gig entity.Gig
	if err := r.db.GetContext(ctx, &gig, query, slug); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("GigRepository:GetGigByPublicSlug:Error", "error", err)
		return nil, err
	}
	return &gig, nil
}

func (r *GigRepository) GetExternalGigsByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Gig, error) {
	query := `SELECT ` + gigColumns + gigJoins + `
		WHERE g.owner_id = $1 AND g.is_external = TRUE AND g.gig_date >= CURRENT_DATE::text
		ORDER BY g.gig_date ASC
	`
	var gigs []entity.Gig
	if err := r.db.SelectContext(ctx, &gigs, query, ownerID); err != nil {
		logger.Error("GigRepository:GetExternalGigsByOwner:Error", "error", err)
		return nil, err
	}
	return gigs, nil
}

func (r *GigRepository) CreateRole(ctx context.Context, role *entity.GigRole) (*entity.GigRole, error) {
	if role.InvitationStatus == "" {
		role.InvitationStatus = entity.InvitationStatusPending
	}

	query := `
		INSERT INTO gig_roles (gig_id, role_name, musician_id, contact_id, invitation_status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		role.GigID, role.RoleName, role.MusicianID, role.ContactID, role.InvitationStatus,
	).Scan(&role.ID, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		logger.Error("GigRepository:CreateRole:Error", "error", err)
		return nil, err
	}
	return role, nil
}

func (r *GigRepository) GetRoleByID(ctx context.Context, id uuid.UUID) (*entity.GigRole, error) {
	query := `SELECT ` + roleColumns + roleJoins + ` WHERE r.id = $1`

	var role entity.GigRole
	if err := r.db.GetContext(ctx, &role, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("GigRepository:GetRoleByID:Error", "error", err)
		return nil, err
	}
	return &role, nil
}

func (r *GigRepository) GetRolesByGigID(ctx context.Context, gigID uuid.UUID) ([]entity.GigRole, error) {
	query := `SELECT ` + roleColumns + roleJoins + `
		WHERE r.gig_id = $1
		ORDER BY r.created_at ASC
	`
	var roles []entity.GigRole
	if err := r.db.SelectContext(ctx, &roles, query, gigID); err != nil {
		logger.Error("GigRepository:GetRolesByGigID:Error", "error", err)
		return nil, err
	}
	return roles, nil
}

func (r *GigRepository) DeleteRole(ctx context.Context, id uuid.UUID) error {
	if err := r.db.ExecContext(ctx, `DELETE FROM gig_roles WHERE id = $1`, id); err != nil {
		logger.Error("GigRepository:DeleteRole:Error", "error", err)
		return err
	}
	return nil
}

func (r *GigRepository) IsLineupMember(ctx context.Context, gigID uuid.UUID, userID uuid.UUID) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM gig_roles WHERE gig_id = $1 AND musician_id = $2`
	if err := r.db.GetContext(ctx, &count, query, gigID, userID); err != nil {
		logger.Error("GigRepository:IsLineupMember:Error", "error", err)
		return false, err
	}
	return count > 0, nil
}
