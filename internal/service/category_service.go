package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
	"github.com/helpdesk-kit/helpdesk-service/internal/repository"
	apperrors "github.com/helpdesk-kit/helpdesk-service/pkg/util"
)

// CategoryService manages the category directory.
type CategoryService struct {
	categories repository.CategoryRepository
}

// CategoryInput describes category creation/update payload.
type CategoryInput struct {
	Name        string
	Description *string
}

// NewCategoryService constructs the service.
func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// Create adds a category; names are unique.
func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewInvalidArgument("category name required", nil)
	}
	if _, err := s.categories.GetByName(ctx, name); err == nil {
		return nil, apperrors.NewPreconditionFailed("category name already exists", map[string]any{"name": name})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	category := &domain.Category{Name: name, Description: input.Description}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// Get resolves a category by id.
func (s *CategoryService) Get(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// List returns all categories.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

// Update renames or re-describes a category, keeping names unique.
func (s *CategoryService) Update(ctx context.Context, id int64, input CategoryInput) (*domain.Category, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" && name != category.Name {
		if existing, err := s.categories.GetByName(ctx, name); err == nil && existing.ID != id {
			return nil, apperrors.NewPreconditionFailed("category name already exists", map[string]any{"name": name})
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
		category.Name = name
	}
	if input.Description != nil {
		category.Description = input.Description
	}

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// Delete removes a category.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("category", map[string]any{"category_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}
