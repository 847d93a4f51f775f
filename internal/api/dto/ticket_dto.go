package dto

import (
	"time"

	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	CategoryID  int64                 `json:"category_id"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	TechnicianUserID string `json:"technician_user_id"`
}

// UpdateTicketStatusRequest payload.
type UpdateTicketStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// TicketResponse is the full ticket representation with hydrated relations.
type TicketResponse struct {
	ID          int64                 `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	Client      *ClientSummary        `json:"client,omitempty"`
	Technician  *TechnicianSummary    `json:"technician,omitempty"`
	Category    *CategoryResponse     `json:"category,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}
