package repository

import (
	"context"
	"database/sql"
	"time"

	"gig-roster-api/core/database"
	"gig-roster-api/core/logger"
	"gig-roster-api/modules/calendar/entity"

	"github.com/google/uuid"
)

type CalendarRepository interface {
	// Calendar connections
	CreateConnection(ctx context.Context, conn *entity.CalendarConnection) (*entity.CalendarConnection, error)
	GetConnectionByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) (*entity.CalendarConnection, error)
	GetConnectionsByUserID(ctx context.Context, userID uuid.UUID) ([]entity.CalendarConnection, error)
	UpdateConnection(ctx context.Context, conn *entity.CalendarConnection) error
	UpdateConnectionTokens(ctx context.Context, id uuid.UUID, accessToken string, expiresAt time.Time) error
	TouchLastSynced(ctx context.Context, id uuid.UUID) error
	DeleteConnection(ctx context.Context, userID uuid.UUID, provider string) error

	// Watch channels
	CreateWatch(ctx context.Context, watch *entity.WatchRegistration) (*entity.WatchRegistration, error)
	GetWatchByChannelID(ctx context.Context, channelID string) (*entity.WatchRegistration, error)
	GetWatchByRoleID(ctx context.Context, roleID uuid.UUID) (*entity.WatchRegistration, error)
	DeleteWatch(ctx context.Context, id uuid.UUID) error
	GetExpiredWatches(ctx context.Context, cutoff time.Time) ([]entity.WatchRegistration, error)
}

type calendarRepository struct {
	db database.IDatabase
}

func NewCalendarRepository(db database.IDatabase) CalendarRepository {
	return &calendarRepository{db: db}
}

const connectionColumns = `
	id, user_id, provider, access_token, refresh_token, token_expires_at,
	calendar_email, has_write_access, invites_enabled, sync_enabled,
	last_synced_at, is_active, created_at, updated_at
`

func (r *calendarRepository) CreateConnection(ctx context.Context, conn *entity.CalendarConnection) (*entity.CalendarConnection, error) {
	query := `
		INSERT INTO calendar_connections (
			user_id, provider, access_token, refresh_token, token_expires_at,
			calendar_email, has_write_access, invites_enabled, sync_enabled, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		conn.UserID, conn.Provider, conn.AccessToken, conn.RefreshToken, conn.TokenExpiresAt,
		conn.CalendarEmail, conn.HasWriteAccess, conn.InvitesEnabled, conn.SyncEnabled, conn.IsActive,
	).Scan(&conn.ID, &conn.CreatedAt, &conn.UpdatedAt)
	if err != nil {
		logger.Error("CalendarRepository:CreateConnection:Error", "error", err)
		return nil, err
	}
	return conn, nil
}

func (r *calendarRepository) GetConnectionByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) (*entity.CalendarConnection, error) {
	query := `SELECT ` + connectionColumns + `
		FROM calendar_connections
		WHERE user_id = $1 AND provider = $2 AND is_active = TRUE
	`
	var conn entity.CalendarConnection
	if err := r.db.GetContext(ctx, &conn, query, userID, provider); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CalendarRepository:GetConnectionByUserAndProvider:Error", "error", err)
		return nil, err
	}
	return &conn, nil
}

func (r *calendarRepository) GetConnectionsByUserID(ctx context.Context, userID uuid.UUID) ([]entity.CalendarConnection, error) {
	query := `SELECT ` + connectionColumns + `
		FROM calendar_connections
		WHERE user_id = $1
		ORDER BY created_at ASC
	`
	var conns []entity.CalendarConnection
	if err := r.db.SelectContext(ctx, &conns, query, userID); err != nil {
		logger.Error("CalendarRepository:GetConnectionsByUserID:Error", "error", err)
		return nil, err
	}
	return conns, nil
}

func (r *calendarRepository) UpdateConnection(ctx context.Context, conn *entity.CalendarConnection) error {
	query := `
		UPDATE calendar_connections SET
			access_token = $1, refresh_token = $2, token_expires_at = $3,
			calendar_email = $4, has_write_access = $5, invites_enabled = $6,
			sync_enabled = $7, is_active = $8, updated_at = NOW()
		WHERE id = $9
	`
	err := r.db.ExecContext(ctx, query,
		conn.AccessToken, conn.RefreshToken, conn.TokenExpiresAt,
		conn.CalendarEmail, conn.HasWriteAccess, conn.InvitesEnabled,
		conn.SyncEnabled, conn.IsActive, conn.ID,
	)
	if err != nil {
		logger.Error("CalendarRepository:UpdateConnection:Error", "error", err)
	}
	return err
}

func (r *calendarRepository) UpdateConnectionTokens(ctx context.Context, id uuid.UUID, accessToken string, expiresAt time.Time) error {
	query := `
		UPDATE calendar_connections
		SET access_token = $1, token_expires_at = $2, updated_at = NOW()
		WHERE id = $3
	`
	if err := r.db.ExecContext(ctx, query, accessToken, expiresAt, id); err != nil {
		logger.Error("CalendarRepository:UpdateConnectionTokens:Error", "error", err)
		return err
	}
	return nil
}

func (r *calendarRepository) TouchLastSynced(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE calendar_connections SET last_synced_at = NOW(), updated_at = NOW() WHERE id = $1`
	if err := r.db.ExecContext(ctx, query, id); err != nil {
		logger.Error("CalendarRepository:TouchLastSynced:Error", "error", err)
		return err
	}
	return nil
}

func (r *calendarRepository) DeleteConnection(ctx context.Context, userID uuid.UUID, provider string) error {
	query := `DELETE FROM calendar_connections WHERE user_id = $1 AND provider = $2`
	if err := r.db.ExecContext(ctx, query, userID, provider); err != nil {
		logger.Error("CalendarRepository:DeleteConnection:Error", "error", err)
		return err
	}
	return nil
}

func (r *calendarRepository) CreateWatch(ctx context.Context, watch *entity.WatchRegistration) (*entity.WatchRegistration, error) {
	query := `
		INSERT INTO watch_registrations (role_id, user_id, event_id, channel_id, resource_id, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		watch.RoleID, watch.UserID, watch.EventID, watch.ChannelID, watch.ResourceID, watch.ExpiresAt,
	).Scan(&watch.ID, &watch.CreatedAt, &watch.UpdatedAt)
	if err != nil {
		logger.Error("CalendarRepository:CreateWatch:Error", "error", err)
		return nil, err
	}
	return watch, nil
}

func (r *calendarRepository) GetWatchByChannelID(ctx context.Context, channelID string) (*entity.WatchRegistration, error) {
	query := `SELECT * FROM watch_registrations WHERE channel_id = $1`

	var watch entity.WatchRegistration
	if err := r.db.GetContext(ctx, &watch, query, channelID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CalendarRepository:GetWatchByChannelID:Error", "error", err)
		return nil, err
	}
	return &watch, nil
}

func (r *calendarRepository) GetWatchByRoleID(ctx context.Context, roleID uuid.UUID) (*entity.WatchRegistration, error) {
	query := `SELECT * FROM watch_registrations WHERE role_id = $1`

	var watch entity.WatchRegistration
	if err := r.db.GetContext(ctx, &watch, query, roleID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CalendarRepository:GetWatchByRoleID:Error", "error", err)
		return nil, err
	}
	return &watch, nil
}

func (r *calendarRepository) DeleteWatch(ctx context.Context, id uuid.UUID) error {
	if err := r.db.ExecContext(ctx, `DELETE FROM watch_registrations WHERE id = $1`, id); err != nil {
		logger.Error("CalendarRepository:DeleteWatch:Error", "error", err)
		return err
	}
	return nil
}

func (r *calendarRepository) GetExpiredWatches(ctx context.Context, cutoff time.Time) ([]entity.WatchRegistration, error) {
	query := `SELECT * FROM watch_registrations WHERE expires_at < $1`

	var watches []entity.WatchRegistration
	if err := r.db.SelectContext(ctx, &watches, query, cutoff); err != nil {
		logger.Error("CalendarRepository:GetExpiredWatches:Error", "error", err)
		return nil, err
	}
	return watches, nil
}
