package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
	"github.com/helpdesk-kit/helpdesk-service/internal/repository"
	apperrors "github.com/helpdesk-kit/helpdesk-service/pkg/util"
)

// ProfileService manages the client and technician profiles that entitle
// users to role-specific ticket operations.
type ProfileService struct {
	users       repository.UserRepository
	clients     repository.ClientRepository
	technicians repository.TechnicianRepository
}

// ProfileDependencies bundles repositories for the profile service.
type ProfileDependencies struct {
	UserRepo       repository.UserRepository
	ClientRepo     repository.ClientRepository
	TechnicianRepo repository.TechnicianRepository
}

// ClientProfileInput describes client profile creation payload.
type ClientProfileInput struct {
	UserID       string
	Company      *string
	ContactEmail string
}

// TechnicianProfileInput describes technician profile creation payload.
type TechnicianProfileInput struct {
	UserID       string
	Name         string
	Specialty    string
	Availability domain.TechnicianAvailability
}

// NewProfileService constructs the service.
func NewProfileService(deps ProfileDependencies) *ProfileService {
	return &ProfileService{
		users:       deps.UserRepo,
		clients:     deps.ClientRepo,
		technicians: deps.TechnicianRepo,
	}
}

// CreateClientProfile binds a client profile to an existing user. A user can
// carry at most one profile; the contact email defaults to the user's email.
func (s *ProfileService) CreateClientProfile(ctx context.Context, input ClientProfileInput) (*domain.ClientProfile, error) {
	user, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": input.UserID})
		}
		return nil, apperrors.MapError(err)
	}

	if _, err := s.clients.GetByUserID(ctx, input.UserID); err == nil {
		return nil, apperrors.NewPreconditionFailed("client profile already exists", map[string]any{"user_id": input.UserID})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	contactEmail := input.ContactEmail
	if contactEmail == "" {
		contactEmail = user.Email
	}

	client := &domain.ClientProfile{
		UserID:       user.ID,
		Company:      input.Company,
		ContactEmail: contactEmail,
		User:         user,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, apperrors.MapError(err)
	}
	return client, nil
}

// GetClientByUserID resolves a client profile.
func (s *ProfileService) GetClientByUserID(ctx context.Context, userID string) (*domain.ClientProfile, error) {
	client, err := s.clients.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("client profile", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	return client, nil
}

// ListClients returns all client profiles.
func (s *ProfileService) ListClients(ctx context.Context) ([]domain.ClientProfile, error) {
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return clients, nil
}

// CreateTechnicianProfile binds a technician profile to an existing user.
func (s *ProfileService) CreateTechnicianProfile(ctx context.Context, input TechnicianProfileInput) (*domain.TechnicianProfile, error) {
	user, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": input.UserID})
		}
		return nil, apperrors.MapError(err)
	}

	if _, err := s.technicians.GetByUserID(ctx, input.UserID); err == nil {
		return nil, apperrors.NewPreconditionFailed("technician profile already exists", map[string]any{"user_id": input.UserID})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	name := input.Name
	if name == "" {
		name = user.Name
	}
	availability := input.Availability
	if availability == "" {
		availability = domain.TechnicianAvailable
	}

	technician := &domain.TechnicianProfile{
		UserID:       user.ID,
		Name:         name,
		Specialty:    input.Specialty,
		Availability: availability,
		User:         user,
	}
	if err := s.technicians.Create(ctx, technician); err != nil {
		return nil, apperrors.MapError(err)
	}
	return technician, nil
}

// GetTechnicianByUserID resolves a technician profile.
func (s *ProfileService) GetTechnicianByUserID(ctx context.Context, userID string) (*domain.TechnicianProfile, error) {
	technician, err := s.technicians.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("technician profile", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	return technician, nil
}

// ListTechnicians returns all technician profiles.
func (s *ProfileService) ListTechnicians(ctx context.Context) ([]domain.TechnicianProfile, error) {
	technicians, err := s.technicians.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return technicians, nil
}
