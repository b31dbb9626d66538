package dto

import (
	"time"

	gigdto "gig-roster-api/modules/gig/dto"
)

// ===================== Request DTOs =====================

// SendInvitesRequest dispatches invitations for a gig's lineup.
// EmailOverrides supplies addresses for roles whose contact or account has
// none, keyed by role id.
type SendInvitesRequest struct {
	EmailOverrides map[string]string `json:"email_overrides"`
}

// RespondRequest is a musician's self-service answer to an invitation
type RespondRequest struct {
	Status string  `json:"status" validate:"required"` // accepted | declined | tentative | needs_sub
	Note   *string `json:"note"`
}

// SetStatusRequest is a manager's direct status override
type SetStatusRequest struct {
	Status string  `json:"status" validate:"required"`
	Note   *string `json:"note"`
}

// BulkAcceptRequest marks many roles accepted in one call
type BulkAcceptRequest struct {
	RoleIDs []string `json:"role_ids" validate:"required"`
}

// RedeemRequest answers an email magic-link invitation
type RedeemRequest struct {
	Token  string  `json:"token" validate:"required"`
	Status string  `json:"status" validate:"required"`
	Note   *string `json:"note"`
}

// ===================== Response DTOs =====================

// InviteResult is the per-recipient outcome of one dispatch batch entry
type InviteResult struct {
	RoleID   string `json:"role_id"`
	RoleName string `json:"role_name"`
	Success  bool   `json:"success"`
	Method   string `json:"method,omitempty"` // calendar | email
	EventID  string `json:"event_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

// SendInvitesResponse aggregates a dispatch batch
type SendInvitesResponse struct {
	Sent    int            `json:"sent"`
	Failed  int            `json:"failed"`
	Results []InviteResult `json:"results"`
}

// BulkAcceptResponse aggregates a bulk status change
type BulkAcceptResponse struct {
	Updated int      `json:"updated"`
	Failed  []string `json:"failed,omitempty"`
}

// HistoryEntryResponse is one audit row for a role
type HistoryEntryResponse struct {
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	ChangedBy *string   `json:"changed_by,omitempty"`
	Note      *string   `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// InvitePreviewResponse is what a magic-link holder sees before answering
type InvitePreviewResponse struct {
	Role *gigdto.RoleResponse `json:"role"`
	Gig  *gigdto.GigResponse  `json:"gig"`
}
