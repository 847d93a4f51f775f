package domain

import "time"

// ClientProfile binds a CLIENT user to the helpdesk. Existence of the profile
// is what entitles that user to open tickets.
type ClientProfile struct {
	UserID       string
	Company      *string
	ContactEmail string
	User         *User
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
