package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "LOW"
	TicketPriorityMedium   TicketPriority = "MEDIUM"
	TicketPriorityHigh     TicketPriority = "HIGH"
	TicketPriorityCritical TicketPriority = "CRITICAL"
)

// Ticket is the aggregate for support requests. ClientUserID and CategoryID
// are set at creation and never change; TechnicianUserID stays nil until an
// admin assigns the ticket.
type Ticket struct {
	ID               int64
	Title            string
	Description      string
	Status           TicketStatus
	Priority         TicketPriority
	ClientUserID     string
	CategoryID       int64
	TechnicianUserID *string
	Client           *ClientProfile
	Technician       *TechnicianProfile
	Category         *Category
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AssignedTo reports whether the ticket is currently assigned to the given
// technician user id.
func (t *Ticket) AssignedTo(userID string) bool {
	return t.TechnicianUserID != nil && *t.TechnicianUserID == userID
}

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// ValidPriority reports whether p is one of the known priorities.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}
