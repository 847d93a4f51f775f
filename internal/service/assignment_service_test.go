package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
	"github.com/helpdesk-kit/helpdesk-service/internal/events"
	apperrors "github.com/helpdesk-kit/helpdesk-service/pkg/util"
)

// fillInProgress gives the technician n assigned IN_PROGRESS tickets.
func fillInProgress(t *testing.T, f *ticketFixture, techUserID string, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		ticket := f.createTicket(t, "client-1")
		_, err := f.assignment.AssignToTechnician(ctx, adminPrincipal("admin-1"), ticket.ID, techUserID)
		require.NoError(t, err)
		_, err = f.service.UpdateStatus(ctx, technicianPrincipal(techUserID), ticket.ID, domain.TicketStatusInProgress)
		require.NoError(t, err)
	}
}

func TestAssignToTechnician(t *testing.T) {
	ctx := context.Background()
	admin := adminPrincipal("admin-1")

	t.Run("assigns without changing status", func(t *testing.T) {
		f := newTicketFixture(t)
		f.addClient(t, "client-1")
		f.addTechnician(t, "tech-1")
		ticket := f.createTicket(t, "client-1")

		assigned, err := f.assignment.AssignToTechnician(ctx, admin, ticket.ID, "tech-1")
		require.NoError(t, err)
		require.True(t, assigned.AssignedTo("tech-1"))
		require.Equal(t, domain.TicketStatusOpen, assigned.Status)
		require.Len(t, f.dispatcher.byType(events.EventTicketAssigned), 1)
	})

	t.Run("missing ticket is not found", func(t *testing.T) {
		f := newTicketFixture(t)
		f.addTechnician(t, "tech-1")

		_, err := f.assignment.AssignToTechnician(ctx, admin, 404, "tech-1")
		require.True(t, apperrors.IsNotFound(err))
	})

	t.Run("missing technician is invalid argument", func(t *testing.T) {
		f := newTicketFixture(t)
		f.addClient(t, "client-1")
		ticket := f.createTicket(t, "client-1")

		_, err := f.assignment.AssignToTechnician(ctx, admin, ticket.ID, "ghost")
		require.True(t, apperrors.IsInvalidArgument(err))
	})

	t.Run("ticket existence checked before technician", func(t *testing.T) {
		f := newTicketFixture(t)

		_, err := f.assignment.AssignToTechnician(ctx, admin, 404, "ghost")
		require.True(t, apperrors.IsNotFound(err))
	})
}

func TestAssignmentCapacity(t *testing.T) {
	ctx := context.Background()
	admin := adminPrincipal("admin-1")

	t.Run("allows assignment at four in progress", func(t *testing.T) {
		f := newTicketFixture(t)
		f.addClient(t, "client-1")
		f.addTechnician(t, "tech-1")
		fillInProgress(t, f, "tech-1", 4)

		ticket := f.createTicket(t, "client-1")
		_, err := f.assignment.AssignToTechnician(ctx, admin, ticket.ID, "tech-1")
		require.NoError(t, err)
	})

	t.Run("rejects assignment at five in progress", func(t *testing.T) {
		f := newTicketFixture(t)
		f.addClient(t, "client-1")
		f.addTechnician(t, "tech-1")
		fillInProgress(t, f, "tech-1", 5)

		ticket := f.createTicket(t, "client-1")
		_, err := f.assignment.AssignToTechnician(ctx, admin, ticket.ID, "tech-1")
		require.True(t, apperrors.IsPreconditionFailed(err))

		stored, getErr := f.tickets.GetByID(ctx, ticket.ID)
		require.NoError(t, getErr)
		require.Nil(t, stored.TechnicianUserID)
	})

	t.Run("open and resolved tickets do not count", func(t *testing.T) {
		f := newTicketFixture(t)
		f.addClient(t, "client-1")
		f.addTechnician(t, "tech-1")
		fillInProgress(t, f, "tech-1", 5)

		// Resolve one; the technician drops to four IN_PROGRESS.
		byTech, err := f.service.ListByTechnicianUserID(ctx, "tech-1", TicketListFilter{})
		require.NoError(t, err)
		_, err = f.service.UpdateStatus(ctx, technicianPrincipal("tech-1"), byTech[0].ID, domain.TicketStatusResolved)
		require.NoError(t, err)

		ticket := f.createTicket(t, "client-1")
		_, err = f.assignment.AssignToTechnician(ctx, admin, ticket.ID, "tech-1")
		require.NoError(t, err)
	})

	t.Run("reassignment checks only destination load", func(t *testing.T) {
		f := newTicketFixture(t)
		f.addClient(t, "client-1")
		f.addTechnician(t, "tech-full")
		f.addTechnician(t, "tech-free")
		fillInProgress(t, f, "tech-full", 5)

		// Move one of the saturated technician's tickets elsewhere.
		byTech, err := f.service.ListByTechnicianUserID(ctx, "tech-full", TicketListFilter{})
		require.NoError(t, err)
		moved, err := f.assignment.AssignToTechnician(ctx, admin, byTech[0].ID, "tech-free")
		require.NoError(t, err)
		require.True(t, moved.AssignedTo("tech-free"))
	})

	t.Run("custom limit is honored", func(t *testing.T) {
		f := newTicketFixture(t)
		f.addClient(t, "client-1")
		f.addTechnician(t, "tech-1")
		f.assignment = NewAssignmentService(AssignmentDependencies{
			TicketRepo:     f.tickets,
			TechnicianRepo: f.technicians,
			Dispatcher:     f.dispatcher,
			MaxInProgress:  2,
		})
		fillInProgress(t, f, "tech-1", 2)

		ticket := f.createTicket(t, "client-1")
		_, err := f.assignment.AssignToTechnician(ctx, admin, ticket.ID, "tech-1")
		require.True(t, apperrors.IsPreconditionFailed(err))
	})
}

func TestAssignmentConcurrency(t *testing.T) {
	ctx := context.Background()
	admin := adminPrincipal("admin-1")

	f := newTicketFixture(t)
	f.addClient(t, "client-1")
	f.addTechnician(t, "tech-1")
	fillInProgress(t, f, "tech-1", 4)

	// Ten IN_PROGRESS tickets race for the technician's last free slot.
	// The per-technician lock must let exactly one through.
	var ids []int64
	for i := 0; i < 10; i++ {
		ticket := f.createTicket(t, "client-1")
		_, err := f.service.UpdateStatus(ctx, admin, ticket.ID, domain.TicketStatusInProgress)
		require.NoError(t, err)
		ids = append(ids, ticket.ID)
	}

	var wg sync.WaitGroup
	results := make(chan error, len(ids))
	for _, id := range ids {
		wg.Add(1)
		go func(ticketID int64) {
			defer wg.Done()
			_, err := f.assignment.AssignToTechnician(ctx, admin, ticketID, "tech-1")
			results <- err
		}(id)
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			require.True(t, apperrors.IsPreconditionFailed(err), fmt.Sprintf("unexpected error: %v", err))
		}
	}
	require.Equal(t, 1, succeeded)

	count, err := f.tickets.CountByTechnicianAndStatus(ctx, "tech-1", domain.TicketStatusInProgress)
	require.NoError(t, err)
	require.Equal(t, 5, count)
}
