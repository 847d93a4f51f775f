package auth

import "github.com/helpdesk-kit/helpdesk-service/internal/domain"

// Principal represents the authenticated caller: an id plus a role. The
// engine trusts this input; credential verification happens before a
// Principal exists.
type Principal struct {
	ID   string
	Role domain.UserRole
	User *domain.User
}

// IsAdmin reports whether the principal carries the ADMIN role.
func (p Principal) IsAdmin() bool {
	return p.Role == domain.RoleAdmin
}
