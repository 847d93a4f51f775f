package dto

import (
	"time"

	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
)

// CreateClientRequest payload.
type CreateClientRequest struct {
	UserID       string  `json:"user_id"`
	Company      *string `json:"company"`
	ContactEmail string  `json:"contact_email"`
}

// CreateTechnicianRequest payload.
type CreateTechnicianRequest struct {
	UserID       string                        `json:"user_id"`
	Name         string                        `json:"name"`
	Specialty    string                        `json:"specialty"`
	Availability domain.TechnicianAvailability `json:"availability"`
}

// ClientSummary representation.
type ClientSummary struct {
	UserID       string    `json:"user_id"`
	Name         string    `json:"name,omitempty"`
	Company      *string   `json:"company,omitempty"`
	ContactEmail string    `json:"contact_email"`
	CreatedAt    time.Time `json:"created_at"`
}

// TechnicianSummary representation.
type TechnicianSummary struct {
	UserID       string                        `json:"user_id"`
	Name         string                        `json:"name"`
	Specialty    string                        `json:"specialty"`
	Availability domain.TechnicianAvailability `json:"availability"`
	CreatedAt    time.Time                     `json:"created_at"`
}
