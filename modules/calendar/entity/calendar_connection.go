package entity

import (
	"time"

	"gig-roster-api/core/entity"

	"github.com/google/uuid"
)

// CalendarConnection stores a user's calendar provider connection.
// HasWriteAccess reflects the OAuth scopes granted at connect time; event
// creation and watch registration require it.
type CalendarConnection struct {
	entity.BaseEntity
	UserID         uuid.UUID  `db:"user_id" json:"user_id"`
	Provider       string     `db:"provider" json:"provider"` // "google"
	AccessToken    string     `db:"access_token" json:"-"`
	RefreshToken   string     `db:"refresh_token" json:"-"`
	TokenExpiresAt time.Time  `db:"token_expires_at" json:"token_expires_at"`
	CalendarEmail  string     `db:"calendar_email" json:"calendar_email"`
	HasWriteAccess bool       `db:"has_write_access" json:"has_write_access"`
	InvitesEnabled bool       `db:"invites_enabled" json:"invites_enabled"`
	SyncEnabled    bool       `db:"sync_enabled" json:"sync_enabled"`
	LastSyncedAt   *time.Time `db:"last_synced_at" json:"last_synced_at"`
	IsActive       bool       `db:"is_active" json:"is_active"`
}

func (CalendarConnection) TableName() string {
	return "calendar_connections"
}

// CanSendInvites reports whether calendar invitations may go out through
// this connection.
func (c *CalendarConnection) CanSendInvites() bool {
	return c.IsActive && c.HasWriteAccess && c.InvitesEnabled
}
