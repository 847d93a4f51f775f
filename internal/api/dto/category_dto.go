package dto

import "time"

// CreateCategoryRequest payload.
type CreateCategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// UpdateCategoryRequest payload.
type UpdateCategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// CategoryResponse representation.
type CategoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
