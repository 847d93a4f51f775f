package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
)

// ClientRepository encapsulates client profile persistence.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.ClientProfile) error
	GetByUserID(ctx context.Context, userID string) (*domain.ClientProfile, error)
	List(ctx context.Context) ([]domain.ClientProfile, error)
}

type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository instantiates the repository.
func NewClientRepository(pool *pgxpool.Pool) ClientRepository {
	return &clientRepository{pool: pool}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.ClientProfile) error {
	const query = `
        INSERT INTO clients (user_id, company, contact_email)
        VALUES ($1, $2, $3)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		client.UserID,
		client.Company,
		client.ContactEmail,
	).Scan(&client.CreatedAt, &client.UpdatedAt)
}

func (r *clientRepository) GetByUserID(ctx context.Context, userID string) (*domain.ClientProfile, error) {
	const query = `
        SELECT c.user_id, c.company, c.contact_email, c.created_at, c.updated_at,
               u.id, u.name, u.email, u.password_hash, u.role, u.is_active, u.created_at, u.updated_at
        FROM clients c
        JOIN users u ON u.id = c.user_id
        WHERE c.user_id=$1`

	return scanClient(r.pool.QueryRow(ctx, query, userID))
}

func (r *clientRepository) List(ctx context.Context) ([]domain.ClientProfile, error) {
	const query = `
        SELECT c.user_id, c.company, c.contact_email, c.created_at, c.updated_at,
               u.id, u.name, u.email, u.password_hash, u.role, u.is_active, u.created_at, u.updated_at
        FROM clients c
        JOIN users u ON u.id = c.user_id
        ORDER BY c.created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ClientProfile
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *client)
	}
	return result, rows.Err()
}

func scanClient(row pgx.Row) (*domain.ClientProfile, error) {
	var (
		client domain.ClientProfile
		user   domain.User
	)
	if err := row.Scan(
		&client.UserID,
		&client.Company,
		&client.ContactEmail,
		&client.CreatedAt,
		&client.UpdatedAt,
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
	client.User = &user
	return &client, nil
}
