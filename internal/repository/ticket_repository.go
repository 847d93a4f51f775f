package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
)

// TicketFilter captures ticket listing parameters. Role scoping is expressed
// through ClientUserID / TechnicianUserID; status and priority are optional.
type TicketFilter struct {
	ClientUserID     *string
	TechnicianUserID *string
	Status           *domain.TicketStatus
	Priority         *domain.TicketPriority
	Limit            int
	Offset           int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	CountByTechnicianAndStatus(ctx context.Context, technicianUserID string, status domain.TicketStatus) (int, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, status, priority, client_user_id, category_id, technician_user_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.ClientUserID,
		ticket.CategoryID,
		ticket.TechnicianUserID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, status=$3, priority=$4,
            technician_user_id=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.TechnicianUserID,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const ticketSelect = `
        SELECT tk.id, tk.title, tk.description, tk.status, tk.priority,
               tk.client_user_id, tk.category_id, tk.technician_user_id,
               tk.created_at, tk.updated_at,
               c.company, c.contact_email, cu.name, cu.email,
               t.name, t.specialty, t.availability,
               cat.name, cat.description
        FROM tickets tk
        JOIN clients c ON c.user_id = tk.client_user_id
        JOIN users cu ON cu.id = tk.client_user_id
        LEFT JOIN technicians t ON t.user_id = tk.technician_user_id
        JOIN categories cat ON cat.id = tk.category_id`

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	query := ticketSelect + ` WHERE tk.id=$1`
	return scanTicket(r.pool.QueryRow(ctx, query, id))
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ClientUserID != nil {
		args = append(args, *filter.ClientUserID)
		clauses = append(clauses, fmt.Sprintf("tk.client_user_id=$%d", len(args)))
	}
	if filter.TechnicianUserID != nil {
		args = append(args, *filter.TechnicianUserID)
		clauses = append(clauses, fmt.Sprintf("tk.technician_user_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("tk.status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("tk.priority=$%d", len(args)))
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY tk.created_at DESC", ticketSelect, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) CountByTechnicianAndStatus(ctx context.Context, technicianUserID string, status domain.TicketStatus) (int, error) {
	const query = `
        SELECT COUNT(*) FROM tickets
        WHERE technician_user_id=$1 AND status=$2`
	var count int
	if err := r.pool.QueryRow(ctx, query, technicianUserID, status).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket           domain.Ticket
		clientCompany    *string
		clientEmail      string
		clientName       string
		clientUserEmail  string
		techName         *string
		techSpecialty    *string
		techAvailability *domain.TechnicianAvailability
		categoryName     string
		categoryDesc     *string
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.ClientUserID,
		&ticket.CategoryID,
		&ticket.TechnicianUserID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&clientCompany,
		&clientEmail,
		&clientName,
		&clientUserEmail,
		&techName,
		&techSpecialty,
		&techAvailability,
		&categoryName,
		&categoryDesc,
	); err != nil {
		return nil, err
	}

	ticket.Client = &domain.ClientProfile{
		UserID:       ticket.ClientUserID,
		Company:      clientCompany,
		ContactEmail: clientEmail,
		User: &domain.User{
			ID:    ticket.ClientUserID,
			Name:  clientName,
			Email: clientUserEmail,
			Role:  domain.RoleClient,
		},
	}
	if ticket.TechnicianUserID != nil && techName != nil {
		ticket.Technician = &domain.TechnicianProfile{
			UserID:       *ticket.TechnicianUserID,
			Name:         *techName,
			Specialty:    derefString(techSpecialty),
			Availability: derefAvailability(techAvailability),
		}
	}
	ticket.Category = &domain.Category{
		ID:          ticket.CategoryID,
		Name:        categoryName,
		Description: categoryDesc,
	}
	return &ticket, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefAvailability(a *domain.TechnicianAvailability) domain.TechnicianAvailability {
	if a == nil {
		return domain.TechnicianAvailable
	}
	return *a
}
