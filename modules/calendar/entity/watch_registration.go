package entity

import (
	"time"

	"gig-roster-api/core/entity"

	"github.com/google/uuid"
)

// WatchRegistration is one push-notification channel registered with the
// provider for a single invite event. ChannelID is our token; ResourceID is
// assigned by the provider and required to stop the channel.
type WatchRegistration struct {
	entity.BaseEntity
	RoleID     uuid.UUID `db:"role_id" json:"role_id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	EventID    string    `db:"event_id" json:"event_id"`
	ChannelID  string    `db:"channel_id" json:"channel_id"`
	ResourceID string    `db:"resource_id" json:"resource_id"`
	ExpiresAt  time.Time `db:"expires_at" json:"expires_at"`
}

func (WatchRegistration) TableName() string {
	return "watch_registrations"
}
