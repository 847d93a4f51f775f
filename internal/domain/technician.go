package domain

import "time"

// TechnicianAvailability enumerates duty states for technicians.
type TechnicianAvailability string

const (
	TechnicianAvailable TechnicianAvailability = "AVAILABLE"
	TechnicianBusy      TechnicianAvailability = "BUSY"
	TechnicianOff       TechnicianAvailability = "OFF"
)

// TechnicianProfile binds a TECHNICIAN user to the helpdesk. A ticket can only
// be assigned to users that have one.
type TechnicianProfile struct {
	UserID       string
	Name         string
	Specialty    string
	Availability TechnicianAvailability
	User         *User
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
