package entity

import (
	"gig-roster-api/core/entity"

	"github.com/google/uuid"
)

// Contact is an address-book entry owned by a bandleader. Contacts can fill
// lineup slots without having an account; invitations then go out by email.
type Contact struct {
	entity.BaseEntity
	OwnerID    uuid.UUID `db:"owner_id" json:"owner_id"`
	Name       string    `db:"name" json:"name"`
	Email      *string   `db:"email" json:"email"`
	Phone      *string   `db:"phone" json:"phone"`
	Instrument *string   `db:"instrument" json:"instrument"`
	Notes      *string   `db:"notes" json:"notes"`
}

func (Contact) TableName() string {
	return "contacts"
}
