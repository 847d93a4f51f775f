package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-kit/helpdesk-service/internal/auth"
	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
	"github.com/helpdesk-kit/helpdesk-service/internal/events"
	"github.com/helpdesk-kit/helpdesk-service/internal/repository"
	apperrors "github.com/helpdesk-kit/helpdesk-service/pkg/util"
)

// TicketService owns the ticket lifecycle: creation, status transitions and
// role-scoped retrieval.
type TicketService struct {
	tickets    repository.TicketRepository
	clients    repository.ClientRepository
	categories repository.CategoryRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	ClientRepo   repository.ClientRepository
	CategoryRepo repository.CategoryRepository
	Dispatcher   events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	CategoryID  int64
}

// TicketListFilter describes optional listing filters.
type TicketListFilter struct {
	Status   *domain.TicketStatus
	Priority *domain.TicketPriority
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		clients:    deps.ClientRepo,
		categories: deps.CategoryRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateForClient opens a ticket on behalf of the client user. The user must
// have a client profile and the category must exist; the new ticket starts
// OPEN, unassigned, with priority defaulting to MEDIUM.
func (s *TicketService) CreateForClient(ctx context.Context, clientUserID string, input TicketCreateInput) (*domain.Ticket, error) {
	client, err := s.clients.GetByUserID(ctx, clientUserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("client profile", map[string]any{"user_id": clientUserID})
		}
		return nil, apperrors.MapError(err)
	}

	category, err := s.categories.GetByID(ctx, input.CategoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": input.CategoryID})
		}
		return nil, apperrors.MapError(err)
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, apperrors.NewInvalidArgument("unknown priority", map[string]any{"priority": priority})
	}

	ticket := &domain.Ticket{
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Status:       domain.TicketStatusOpen,
		Priority:     priority,
		ClientUserID: client.UserID,
		CategoryID:   category.ID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket.Client = client
	ticket.Category = category

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    events.Actor{UserID: clientUserID, Role: domain.RoleClient},
		Payload: events.TicketCreatedPayload{
			ClientUserID: ticket.ClientUserID,
			CategoryID:   ticket.CategoryID,
			Priority:     ticket.Priority,
			Title:        ticket.Title,
		},
	})
	return ticket, nil
}

// UpdateStatus moves a ticket through its lifecycle. Checks run in a fixed
// order so the reported failure kind is stable: existence, then
// authorization, then transition validity.
func (s *TicketService) UpdateStatus(ctx context.Context, principal auth.Principal, ticketID int64, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	if !auth.CanChangeStatus(principal, ticket) {
		return nil, apperrors.NewForbidden("only the assigned technician or an admin can change ticket status")
	}

	if !domain.ValidStatus(newStatus) {
		return nil, apperrors.NewInvalidArgument("unknown status", map[string]any{"status": newStatus})
	}
	if !isValidTransition(ticket.Status, newStatus) {
		return nil, apperrors.NewInvalidArgument(
			fmt.Sprintf("invalid transition from %s to %s", ticket.Status, newStatus),
			map[string]any{"from": ticket.Status, "to": newStatus},
		)
	}

	oldStatus := ticket.Status
	ticket.Status = newStatus
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    events.Actor{UserID: principal.ID, Role: principal.Role},
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return ticket, nil
}

// ListForUser returns tickets visible to the principal, newest first. Admins
// see everything, clients their own tickets, technicians their assignments.
func (s *TicketService) ListForUser(ctx context.Context, principal auth.Principal, filter TicketListFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		Status:   filter.Status,
		Priority: filter.Priority,
	}
	switch principal.Role {
	case domain.RoleAdmin:
	case domain.RoleClient:
		userID := principal.ID
		repoFilter.ClientUserID = &userID
	case domain.RoleTechnician:
		userID := principal.ID
		repoFilter.TechnicianUserID = &userID
	default:
		return nil, apperrors.NewForbidden("unknown role")
	}
	tickets, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// GetForUser fetches a ticket, enforcing per-role visibility. Unauthorized
// viewers get Forbidden, not NotFound: existence is not hidden.
func (s *TicketService) GetForUser(ctx context.Context, ticketID int64, principal auth.Principal) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if !auth.CanViewTicket(principal, ticket) {
		return nil, apperrors.NewForbidden("you cannot view this ticket")
	}
	return ticket, nil
}

// ListByClientUserID is an admin-scoped listing of a given client's tickets.
func (s *TicketService) ListByClientUserID(ctx context.Context, clientUserID string, filter TicketListFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		ClientUserID: &clientUserID,
		Status:       filter.Status,
		Priority:     filter.Priority,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListByTechnicianUserID is an admin-scoped listing of a technician's tickets.
func (s *TicketService) ListByTechnicianUserID(ctx context.Context, technicianUserID string, filter TicketListFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		TechnicianUserID: &technicianUserID,
		Status:           filter.Status,
		Priority:         filter.Priority,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// allowedTransitions is the fixed forward-only lifecycle. CLOSED is terminal;
// no skipping, no backward moves, for any role.
var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:       {domain.TicketStatusInProgress},
	domain.TicketStatusInProgress: {domain.TicketStatusResolved},
	domain.TicketStatusResolved:   {domain.TicketStatusClosed},
	domain.TicketStatusClosed:     {},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
