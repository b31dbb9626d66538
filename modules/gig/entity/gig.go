package entity

import (
	"gig-roster-api/core/entity"

	"github.com/google/uuid"
)

// Gig is a single scheduled booking with its own schedule, venue and lineup.
// Times are stored as HH:MM strings and the date as YYYY-MM-DD; the
// calendar module converts them to absolute timestamps when talking to a
// provider.
type Gig struct {
	entity.BaseEntity
	OwnerID        uuid.UUID  `db:"owner_id" json:"owner_id"`
	OrganizationID *uuid.UUID `db:"organization_id" json:"organization_id"`
	Title          string     `db:"title" json:"title"`
	VenueName      *string    `db:"venue_name" json:"venue_name"`
	VenueAddress   *string    `db:"venue_address" json:"venue_address"`
	Date           string     `db:"gig_date" json:"date"`
	CallTime       *string    `db:"call_time" json:"call_time"`
	StartTime      *string    `db:"start_time" json:"start_time"`
	OnStageTime    *string    `db:"on_stage_time" json:"on_stage_time"`
	EndTime        *string    `db:"end_time" json:"end_time"`
	DressCode      *string    `db:"dress_code" json:"dress_code"`
	ParkingInfo    *string    `db:"parking_info" json:"parking_info"`
	Notes          *string    `db:"notes" json:"notes"`
	ScheduleText   *string    `db:"schedule_text" json:"schedule_text"`
	IsPublic       bool       `db:"is_public" json:"is_public"`
	PublicSlug     *string    `db:"public_slug" json:"public_slug"`

	// External-origin fields. IsExternal implies ExternalEventID is set.
	IsExternal       bool    `db:"is_external" json:"is_external"`
	ExternalEventID  *string `db:"external_event_id" json:"external_event_id"`
	ExternalProvider *string `db:"external_provider" json:"external_provider"`
	ExternalURL      *string `db:"external_url" json:"external_url"`

	// Joined, not columns.
	OrganizationName *string `db:"organization_name" json:"organization_name,omitempty"`
	OwnerName        *string `db:"owner_name" json:"owner_name,omitempty"`
}

func (Gig) TableName() string {
	return "gigs"
}
