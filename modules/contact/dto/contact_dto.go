package dto

import (
	"time"

	"gig-roster-api/modules/contact/entity"
)

// ===================== Request DTOs =====================

type CreateContactRequest struct {
	Name       string  `json:"name" validate:"required"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Instrument *string `json:"instrument"`
	Notes      *string `json:"notes"`
}

type UpdateContactRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Instrument *string `json:"instrument"`
	Notes      *string `json:"notes"`
}

// ===================== Response DTOs =====================

type ContactResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      *string   `json:"email"`
	Phone      *string   `json:"phone"`
	Instrument *string   `json:"instrument"`
	Notes      *string   `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func ToContactResponse(c *entity.Contact) *ContactResponse {
	return &ContactResponse{
		ID:         c.ID.String(),
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		Instrument: c.Instrument,
		Notes:      c.Notes,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
