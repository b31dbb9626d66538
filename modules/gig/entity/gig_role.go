package entity

import (
	"time"

	"gig-roster-api/core/entity"

	"github.com/google/uuid"
)

type InvitationStatus string

const (
	InvitationStatusPending   InvitationStatus = "pending"
	InvitationStatusInvited   InvitationStatus = "invited"
	InvitationStatusAccepted  InvitationStatus = "accepted"
	InvitationStatusDeclined  InvitationStatus = "declined"
	InvitationStatusTentative InvitationStatus = "tentative"
	InvitationStatusNeedsSub  InvitationStatus = "needs_sub"
	InvitationStatusReplaced  InvitationStatus = "replaced"
)

// Valid reports whether s belongs to the closed status set.
func (s InvitationStatus) Valid() bool {
	switch s {
	case InvitationStatusPending, InvitationStatusInvited, InvitationStatusAccepted,
		InvitationStatusDeclined, InvitationStatusTentative, InvitationStatusNeedsSub,
		InvitationStatusReplaced:
		return true
	}
	return false
}

// Invitation methods
const (
	InviteMethodCalendar = "calendar"
	InviteMethodEmail    = "email"
)

// GigRole is one lineup slot on a gig, assigned to a registered musician or
// a plain contact. CalendarEventID is set only after a successful remote
// invite.
type GigRole struct {
	entity.BaseEntity
	GigID            uuid.UUID        `db:"gig_id" json:"gig_id"`
	RoleName         string           `db:"role_name" json:"role_name"`
	MusicianID       *uuid.UUID       `db:"musician_id" json:"musician_id"`
	ContactID        *uuid.UUID       `db:"contact_id" json:"contact_id"`
	InvitationStatus InvitationStatus `db:"invitation_status" json:"invitation_status"`
	InvitationMethod *string          `db:"invitation_method" json:"invitation_method"`
	CalendarEventID  *string          `db:"calendar_event_id" json:"calendar_event_id"`
	InviteTokenHash  *string          `db:"invite_token_hash" json:"-"`
	InviteExpiresAt  *time.Time       `db:"invite_expires_at" json:"invite_expires_at"`
	StatusChangedAt  *time.Time       `db:"status_changed_at" json:"status_changed_at"`
	StatusChangedBy  *uuid.UUID       `db:"status_changed_by" json:"status_changed_by"`

	// Joined, not columns.
	MusicianName  *string `db:"musician_name" json:"musician_name,omitempty"`
	MusicianEmail *string `db:"musician_email" json:"musician_email,omitempty"`
	ContactName   *string `db:"contact_name" json:"contact_name,omitempty"`
	ContactEmail  *string `db:"contact_email" json:"contact_email,omitempty"`
}

func (GigRole) TableName() string {
	return "gig_roles"
}

// RecipientEmail resolves the invite address for the slot: a linked contact
// wins over the account profile.
func (r *GigRole) RecipientEmail() string {
	if r.ContactEmail != nil && *r.ContactEmail != "" {
		return *r.ContactEmail
	}
	if r.MusicianEmail != nil && *r.MusicianEmail != "" {
		return *r.MusicianEmail
	}
	return ""
}

// RecipientName resolves the display name for the slot.
func (r *GigRole) RecipientName() string {
	if r.ContactName != nil && *r.ContactName != "" {
		return *r.ContactName
	}
	if r.MusicianName != nil && *r.MusicianName != "" {
		return *r.MusicianName
	}
	return ""
}
