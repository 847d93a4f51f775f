package domain

import "time"

// Category is a named classification referenced by tickets. Names are unique.
type Category struct {
	ID          int64
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
