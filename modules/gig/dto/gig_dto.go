package dto

import (
	"time"

	"gig-roster-api/modules/gig/entity"
)

// ===================== Request DTOs =====================

// CreateGigRequest for creating a new gig
type CreateGigRequest struct {
	Title          string  `json:"title" validate:"required"`
	OrganizationID *string `json:"organization_id"`
	VenueName      *string `json:"venue_name"`
	VenueAddress   *string `json:"venue_address"`
	Date           string  `json:"date" validate:"required"` // YYYY-MM-DD
	CallTime       *string `json:"call_time"`                // HH:MM
	StartTime      *string `json:"start_time"`
	OnStageTime    *string `json:"on_stage_time"`
	EndTime        *string `json:"end_time"`
	DressCode      *string `json:"dress_code"`
	ParkingInfo    *string `json:"parking_info"`
	Notes          *string `json:"notes"`
	ScheduleText   *string `json:"schedule_text"`
	IsPublic       bool    `json:"is_public"`
}

// UpdateGigRequest for updating gig details
type UpdateGigRequest struct {
	Title        *string `json:"title"`
	VenueName    *string `json:"venue_name"`
	VenueAddress *string `json:"venue_address"`
	Date         *string `json:"date"`
	CallTime     *string `json:"call_time"`
	StartTime    *string `json:"start_time"`
	OnStageTime  *string `json:"on_stage_time"`
	EndTime      *string `json:"end_time"`
	DressCode    *string `json:"dress_code"`
	ParkingInfo  *string `json:"parking_info"`
	Notes        *string `json:"notes"`
	ScheduleText *string `json:"schedule_text"`
	IsPublic     *bool   `json:"is_public"`
}

// AddRoleRequest for adding a lineup slot to a gig
type AddRoleRequest struct {
	RoleName   string  `json:"role_name" validate:"required"`
	MusicianID *string `json:"musician_id"`
	ContactID  *string `json:"contact_id"`
}

// ===================== Response DTOs =====================

// GigResponse for gig details
type GigResponse struct {
	ID               string         `json:"id"`
	OwnerID          string         `json:"owner_id"`
	OwnerName        string         `json:"owner_name,omitempty"`
	OrganizationID   string         `json:"organization_id,omitempty"`
	OrganizationName string         `json:"organization_name,omitempty"`
	Title            string         `json:"title"`
	VenueName        *string        `json:"venue_name,omitempty"`
	VenueAddress     *string        `json:"venue_address,omitempty"`
	Date             string         `json:"date"`
	CallTime         *string        `json:"call_time,omitempty"`
	StartTime        *string        `json:"start_time,omitempty"`
	OnStageTime      *string        `json:"on_stage_time,omitempty"`
	EndTime          *string        `json:"end_time,omitempty"`
	DressCode        *string        `json:"dress_code,omitempty"`
	ParkingInfo      *string        `json:"parking_info,omitempty"`
	Notes            *string        `json:"notes,omitempty"`
	ScheduleText     *string        `json:"schedule_text,omitempty"`
	IsPublic         bool           `json:"is_public"`
	PublicSlug       *string        `json:"public_slug,omitempty"`
	IsExternal       bool           `json:"is_external"`
	ExternalProvider *string        `json:"external_provider,omitempty"`
	ExternalURL      *string        `json:"external_url,omitempty"`
	Roles            []RoleResponse `json:"roles,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// RoleResponse for a single lineup slot
type RoleResponse struct {
	ID               string     `json:"id"`
	GigID            string     `json:"gig_id"`
	RoleName         string     `json:"role_name"`
	MusicianID       *string    `json:"musician_id,omitempty"`
	ContactID        *string    `json:"contact_id,omitempty"`
	RecipientName    string     `json:"recipient_name,omitempty"`
	RecipientEmail   string     `json:"recipient_email,omitempty"`
	InvitationStatus string     `json:"invitation_status"`
	InvitationMethod *string    `json:"invitation_method,omitempty"`
	CalendarEventID  *string    `json:"calendar_event_id,omitempty"`
	StatusChangedAt  *time.Time `json:"status_changed_at,omitempty"`
}

// ConflictResponse reports schedule overlaps for a gig's date
type ConflictResponse struct {
	HasConflicts bool           `json:"has_conflicts"`
	Conflicts    []ConflictItem `json:"conflicts"`
}

// ConflictItem is one overlapping booking or calendar event
type ConflictItem struct {
	Source    string `json:"source"` // "gig" or "calendar"
	ID        string `json:"id,omitempty"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}

// ===================== Mapper Functions =====================

// ToGigResponse maps entity to DTO
func ToGigResponse(g *entity.Gig, roles []entity.GigRole) *GigResponse {
	resp := &GigResponse{
		ID:               g.ID.String(),
		OwnerID:          g.OwnerID.String(),
		Title:            g.Title,
		VenueName:        g.VenueName,
		VenueAddress:     g.VenueAddress,
		Date:             g.Date,
		CallTime:         g.CallTime,
		StartTime:        g.StartTime,
		OnStageTime:      g.OnStageTime,
		EndTime:          g.EndTime,
		DressCode:        g.DressCode,
		ParkingInfo:      g.ParkingInfo,
		Notes:            g.Notes,
		ScheduleText:     g.ScheduleText,
		IsPublic:         g.IsPublic,
		PublicSlug:       g.PublicSlug,
		IsExternal:       g.IsExternal,
		ExternalProvider: g.ExternalProvider,
		ExternalURL:      g.ExternalURL,
		CreatedAt:        g.CreatedAt,
		UpdatedAt:        g.UpdatedAt,
	}
	if g.OrganizationID != nil {
		resp.OrganizationID = g.OrganizationID.String()
	}
	if g.OrganizationName != nil {
		resp.OrganizationName = *g.OrganizationName
	}
	if g.OwnerName != nil {
		resp.OwnerName = *g.OwnerName
	}
	for i := range roles {
		resp.Roles = append(resp.Roles, *ToRoleResponse(&roles[i]))
	}
	return resp
}

// ToRoleResponse maps entity to DTO
func ToRoleResponse(r *entity.GigRole) *RoleResponse {
	resp := &RoleResponse{
		ID:               r.ID.String(),
		GigID:            r.GigID.String(),
		RoleName:         r.RoleName,
		RecipientName:    r.RecipientName(),
		RecipientEmail:   r.RecipientEmail(),
		InvitationStatus: string(r.InvitationStatus),
		InvitationMethod: r.InvitationMethod,
		CalendarEventID:  r.CalendarEventID,
		StatusChangedAt:  r.StatusChangedAt,
	}
	if r.MusicianID != nil {
		id := r.MusicianID.String()
		resp.MusicianID = &id
	}
	if r.ContactID != nil {
		id := r.ContactID.String()
		resp.ContactID = &id
	}
	return resp
}
