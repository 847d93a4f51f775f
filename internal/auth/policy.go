package auth

import "github.com/helpdesk-kit/helpdesk-service/internal/domain"

// Authorization over tickets is expressed as pure predicates over
// (principal, ticket) so they can be tested without transport or storage.

// CanViewTicket reports whether the principal may read the ticket. Admins see
// everything, clients their own tickets, technicians the tickets assigned to
// them.
func CanViewTicket(p Principal, ticket *domain.Ticket) bool {
	switch p.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleClient:
		return ticket.ClientUserID == p.ID
	case domain.RoleTechnician:
		return ticket.AssignedTo(p.ID)
	}
	return false
}

// CanChangeStatus reports whether the principal may move the ticket through
// its lifecycle. Only the assigned technician or an admin qualifies; a client
// never does.
func CanChangeStatus(p Principal, ticket *domain.Ticket) bool {
	switch p.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleTechnician:
		return ticket.AssignedTo(p.ID)
	}
	return false
}
