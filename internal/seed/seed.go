package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/helpdesk-kit/helpdesk-service/internal/auth"
	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
	"github.com/helpdesk-kit/helpdesk-service/internal/repository"
)

// Dependencies lists the repositories the seeder writes through.
type Dependencies struct {
	Users       repository.UserRepository
	Clients     repository.ClientRepository
	Technicians repository.TechnicianRepository
	Categories  repository.CategoryRepository
	BcryptCost  int
}

type seeder struct {
	deps   Dependencies
	logger *zap.Logger
}

// Run creates the baseline admin, technician and client accounts plus the
// default categories. Every step checks for an existing record first, so
// running it repeatedly is safe.
func Run(ctx context.Context, deps Dependencies, logger *zap.Logger) error {
	s := &seeder{deps: deps, logger: logger}

	if _, err := s.ensureUser(ctx, "Admin Principal", "admin@helpdesk.com", "Admin123*", domain.RoleAdmin); err != nil {
		return err
	}

	techUser, err := s.ensureUser(ctx, "Tecnico Soporte 1", "tech1@helpdesk.com", "Tech123*", domain.RoleTechnician)
	if err != nil {
		return err
	}
	if err := s.ensureTechnicianProfile(ctx, techUser, "Redes y Servidores"); err != nil {
		return err
	}

	clientUser, err := s.ensureUser(ctx, "Cliente Demo", "client1@empresa.com", "Client123*", domain.RoleClient)
	if err != nil {
		return err
	}
	if err := s.ensureClientProfile(ctx, clientUser, "Empresa Demo S.A.S.", "soporte@empresademo.com"); err != nil {
		return err
	}

	categories := []struct {
		name        string
		description string
	}{
		{"Hardware", "Problemas de equipos fisicos"},
		{"Software", "Errores de aplicaciones o sistema operativo"},
		{"Red", "Conectividad, internet, VPN, etc."},
	}
	for _, c := range categories {
		if err := s.ensureCategory(ctx, c.name, c.description); err != nil {
			return err
		}
	}

	logger.Info("seed completed")
	return nil
}

func (s *seeder) ensureUser(ctx context.Context, name, email, password string, role domain.UserRole) (*domain.User, error) {
	user, err := s.deps.Users.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.deps.BcryptCost)
	if err != nil {
		return nil, err
	}
	user = &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.deps.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("seed user created", zap.String("email", email), zap.String("role", string(role)))
	return user, nil
}

func (s *seeder) ensureTechnicianProfile(ctx context.Context, user *domain.User, specialty string) error {
	if _, err := s.deps.Technicians.GetByUserID(ctx, user.ID); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	profile := &domain.TechnicianProfile{
		UserID:       user.ID,
		Name:         user.Name,
		Specialty:    specialty,
		Availability: domain.TechnicianAvailable,
	}
	if err := s.deps.Technicians.Create(ctx, profile); err != nil {
		return err
	}
	s.logger.Info("seed technician profile created", zap.String("user_id", user.ID))
	return nil
}

func (s *seeder) ensureClientProfile(ctx context.Context, user *domain.User, company, contactEmail string) error {
	if _, err := s.deps.Clients.GetByUserID(ctx, user.ID); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	profile := &domain.ClientProfile{
		UserID:       user.ID,
		Company:      &company,
		ContactEmail: contactEmail,
	}
	if err := s.deps.Clients.Create(ctx, profile); err != nil {
		return err
	}
	s.logger.Info("seed client profile created", zap.String("user_id", user.ID))
	return nil
}

func (s *seeder) ensureCategory(ctx context.Context, name, description string) error {
	if _, err := s.deps.Categories.GetByName(ctx, name); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	category := &domain.Category{Name: name, Description: &description}
	if err := s.deps.Categories.Create(ctx, category); err != nil {
		return err
	}
	s.logger.Info("seed category created", zap.String("name", name))
	return nil
}
