package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-kit/helpdesk-service/internal/auth"
	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
	"github.com/helpdesk-kit/helpdesk-service/internal/events"
	"github.com/helpdesk-kit/helpdesk-service/internal/repository"
	apperrors "github.com/helpdesk-kit/helpdesk-service/pkg/util"
)

// DefaultMaxInProgress caps simultaneous IN_PROGRESS tickets per technician.
const DefaultMaxInProgress = 5

// AssignmentService handles ticket assignment under the technician capacity
// constraint.
type AssignmentService struct {
	tickets       repository.TicketRepository
	technicians   repository.TechnicianRepository
	dispatcher    events.Dispatcher
	maxInProgress int
	locks         keyedMutex
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	TicketRepo     repository.TicketRepository
	TechnicianRepo repository.TechnicianRepository
	Dispatcher     events.Dispatcher
	MaxInProgress  int
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	max := deps.MaxInProgress
	if max <= 0 {
		max = DefaultMaxInProgress
	}
	return &AssignmentService{
		tickets:       deps.TicketRepo,
		technicians:   deps.TechnicianRepo,
		dispatcher:    deps.Dispatcher,
		maxInProgress: max,
	}
}

// AssignToTechnician assigns the ticket to the technician with that user id.
// Route-level guards restrict this to admins. The capacity check is keyed on
// the destination technician only: reassignment never consults the previous
// assignee's load, and assignment never auto-transitions the ticket status.
//
// The count-then-write sequence is serialized per technician so two
// concurrent assignments cannot both observe a count below the cap and both
// succeed.
func (s *AssignmentService) AssignToTechnician(ctx context.Context, actor auth.Principal, ticketID int64, technicianUserID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	technician, err := s.technicians.GetByUserID(ctx, technicianUserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidArgument("technician does not exist", map[string]any{"technician_user_id": technicianUserID})
		}
		return nil, apperrors.MapError(err)
	}

	unlock := s.locks.lock(technician.UserID)
	defer unlock()

	count, err := s.tickets.CountByTechnicianAndStatus(ctx, technician.UserID, domain.TicketStatusInProgress)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if count >= s.maxInProgress {
		return nil, apperrors.NewPreconditionFailed(
			fmt.Sprintf("technician already has %d in-progress tickets", s.maxInProgress),
			map[string]any{"technician_user_id": technician.UserID, "in_progress": count},
		)
	}

	ticket.TechnicianUserID = &technician.UserID
	ticket.Technician = technician
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Actor:    events.Actor{UserID: actor.ID, Role: actor.Role},
		Payload: events.TicketAssignedPayload{
			TechnicianUserID: technician.UserID,
		},
	})
	return ticket, nil
}

func (s *AssignmentService) publishEvent(ctx context.Context, event events.Event) {
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

// keyedMutex serializes critical sections per string key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
