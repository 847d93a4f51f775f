package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
)

// TechnicianRepository encapsulates technician profile persistence.
type TechnicianRepository interface {
	Create(ctx context.Context, technician *domain.TechnicianProfile) error
	GetByUserID(ctx context.Context, userID string) (*domain.TechnicianProfile, error)
	List(ctx context.Context) ([]domain.TechnicianProfile, error)
}

type technicianRepository struct {
	pool *pgxpool.Pool
}

// NewTechnicianRepository instantiates the repository.
func NewTechnicianRepository(pool *pgxpool.Pool) TechnicianRepository {
	return &technicianRepository{pool: pool}
}

func (r *technicianRepository) Create(ctx context.Context, technician *domain.TechnicianProfile) error {
	const query = `
        INSERT INTO technicians (user_id, name, specialty, availability)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		technician.UserID,
		technician.Name,
		technician.Specialty,
		technician.Availability,
	).Scan(&technician.CreatedAt, &technician.UpdatedAt)
}

func (r *technicianRepository) GetByUserID(ctx context.Context, userID string) (*domain.TechnicianProfile, error) {
	const query = `
        SELECT t.user_id, t.name, t.specialty, t.availability, t.created_at, t.updated_at,
               u.id, u.name, u.email, u.password_hash, u.role, u.is_active, u.created_at, u.updated_at
        FROM technicians t
        JOIN users u ON u.id = t.user_id
        WHERE t.user_id=$1`

	return scanTechnician(r.pool.QueryRow(ctx, query, userID))
}

func (r *technicianRepository) List(ctx context.Context) ([]domain.TechnicianProfile, error) {
	const query = `
        SELECT t.user_id, t.name, t.specialty, t.availability, t.created_at, t.updated_at,
               u.id, u.name, u.email, u.password_hash, u.role, u.is_active, u.created_at, u.updated_at
        FROM technicians t
        JOIN users u ON u.id = t.user_id
        ORDER BY t.created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TechnicianProfile
	for rows.Next() {
		technician, err := scanTechnician(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *technician)
	}
	return result, rows.Err()
}

func scanTechnician(row pgx.Row) (*domain.TechnicianProfile, error) {
	var (
		technician domain.TechnicianProfile
		user       domain.User
	)
	if err := row.Scan(
		&technician.UserID,
		&technician.Name,
		&technician.Specialty,
		&technician.Availability,
		&technician.CreatedAt,
		&technician.UpdatedAt,
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	technician.User = &user
	return &technician, nil
}
