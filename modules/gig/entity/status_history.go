package entity

import (
	"time"

	"github.com/google/uuid"
)

// StatusHistoryEntry is an append-only audit row for a role transition.
// Never mutated or deleted by normal operation.
type StatusHistoryEntry struct {
	ID        uuid.UUID        `db:"id" json:"id"`
	RoleID    uuid.UUID        `db:"role_id" json:"role_id"`
	OldStatus InvitationStatus `db:"old_status" json:"old_status"`
	NewStatus InvitationStatus `db:"new_status" json:"new_status"`
	ChangedBy *uuid.UUID       `db:"changed_by" json:"changed_by"`
	Note      *string          `db:"note" json:"note"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

func (StatusHistoryEntry) TableName() string {
	return "role_status_history"
}
