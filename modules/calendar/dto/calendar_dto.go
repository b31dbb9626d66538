package dto

// ===================== Provider Wire Types =====================

// EventTime is the Google Calendar start/end shape. Timed events carry
// DateTime (RFC3339); all-day events carry Date (YYYY-MM-DD).
type EventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// Attendee is one invitee on a provider event
type Attendee struct {
	Email          string `json:"email"`
	ResponseStatus string `json:"responseStatus,omitempty"`
	Self           bool   `json:"self,omitempty"`
}

// GoogleEvent is the provider event representation we read back
type GoogleEvent struct {
	ID          string     `json:"id"`
	Status      string     `json:"status,omitempty"`
	Summary     string     `json:"summary,omitempty"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	HTMLLink    string     `json:"htmlLink,omitempty"`
	Start       *EventTime `json:"start,omitempty"`
	End         *EventTime `json:"end,omitempty"`
	Attendees   []Attendee `json:"attendees,omitempty"`
	Organizer   *struct {
		Email string `json:"email"`
		Self  bool   `json:"self,omitempty"`
	} `json:"organizer,omitempty"`
	Updated string `json:"updated,omitempty"`
}

// GoogleEventInput is the payload for event create and patch calls
type GoogleEventInput struct {
	Summary     string     `json:"summary,omitempty"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	Start       *EventTime `json:"start,omitempty"`
	End         *EventTime `json:"end,omitempty"`
	Attendees   []Attendee `json:"attendees,omitempty"`
}

// WatchRequest registers a push channel for an event's changes
type WatchRequest struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Address string `json:"address"`
}

// WatchResponse is the provider's channel registration reply.
// Expiration is epoch milliseconds as a string.
type WatchResponse struct {
	ResourceID string `json:"resourceId"`
	Expiration string `json:"expiration"`
}

// ===================== Request DTOs =====================

// ConnectGoogleRequest saves tokens obtained by the OAuth front channel
type ConnectGoogleRequest struct {
	AccessToken   string   `json:"access_token" validate:"required"`
	RefreshToken  string   `json:"refresh_token" validate:"required"`
	ExpiresAt     string   `json:"expires_at"` // RFC3339
	Email         string   `json:"email" validate:"required"`
	GrantedScopes []string `json:"granted_scopes"`
}

// UpdateConnectionSettingsRequest toggles per-connection behavior
type UpdateConnectionSettingsRequest struct {
	InvitesEnabled *bool `json:"invites_enabled"`
	SyncEnabled    *bool `json:"sync_enabled"`
}

// ===================== Response DTOs =====================

// CalendarConnectionResponse for connection listing
type CalendarConnectionResponse struct {
	ID             string  `json:"id"`
	Provider       string  `json:"provider"`
	CalendarEmail  string  `json:"calendar_email"`
	HasWriteAccess bool    `json:"has_write_access"`
	InvitesEnabled bool    `json:"invites_enabled"`
	SyncEnabled    bool    `json:"sync_enabled"`
	LastSyncedAt   *string `json:"last_synced_at,omitempty"`
	IsActive       bool    `json:"is_active"`
	ConnectedAt    string  `json:"connected_at"`
}

// DriftChange is one field that differs between the stored gig and the live
// remote event
type DriftChange struct {
	Field  string  `json:"field"`
	Local  *string `json:"local"`
	Remote *string `json:"remote"`
}

// DriftResult reports the outcome of reconciling one gig against its remote
// event
type DriftResult struct {
	HasChanges bool          `json:"has_changes"`
	Applied    bool          `json:"applied"`
	Changes    []DriftChange `json:"changes"`
}

// RefreshResult summarizes one sync pass against the provider
type RefreshResult struct {
	Checked  int      `json:"checked"`
	Drifted  int      `json:"drifted"`
	Applied  int      `json:"applied"`
	Imported int      `json:"imported"`
	Failures []string `json:"failures,omitempty"`
}
