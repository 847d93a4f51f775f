package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/helpdesk-kit/helpdesk-service/internal/auth"
	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
	"github.com/helpdesk-kit/helpdesk-service/internal/events"
	apperrors "github.com/helpdesk-kit/helpdesk-service/pkg/util"
)

type ticketFixture struct {
	tickets     *fakeTicketRepo
	clients     *fakeClientRepo
	technicians *fakeTechnicianRepo
	categories  *fakeCategoryRepo
	dispatcher  *recordingDispatcher
	service     *TicketService
	assignment  *AssignmentService
	category    *domain.Category
}

func newTicketFixture(t *testing.T) *ticketFixture {
	t.Helper()

	f := &ticketFixture{
		tickets:     newFakeTicketRepo(),
		clients:     newFakeClientRepo(),
		technicians: newFakeTechnicianRepo(),
		categories:  newFakeCategoryRepo(),
		dispatcher:  &recordingDispatcher{},
	}
	f.service = NewTicketService(TicketDependencies{
		TicketRepo:   f.tickets,
		ClientRepo:   f.clients,
		CategoryRepo: f.categories,
		Dispatcher:   f.dispatcher,
	})
	f.assignment = NewAssignmentService(AssignmentDependencies{
		TicketRepo:     f.tickets,
		TechnicianRepo: f.technicians,
		Dispatcher:     f.dispatcher,
	})

	f.category = &domain.Category{Name: "Hardware"}
	require.NoError(t, f.categories.Create(context.Background(), f.category))
	return f
}

func (f *ticketFixture) addClient(t *testing.T, userID string) {
	t.Helper()
	require.NoError(t, f.clients.Create(context.Background(), &domain.ClientProfile{
		UserID:       userID,
		ContactEmail: userID + "@example.com",
	}))
}

func (f *ticketFixture) addTechnician(t *testing.T, userID string) {
	t.Helper()
	require.NoError(t, f.technicians.Create(context.Background(), &domain.TechnicianProfile{
		UserID:       userID,
		Name:         userID,
		Availability: domain.TechnicianAvailable,
	}))
}

func (f *ticketFixture) createTicket(t *testing.T, clientUserID string) *domain.Ticket {
	t.Helper()
	ticket, err := f.service.CreateForClient(context.Background(), clientUserID, TicketCreateInput{
		Title:       "printer jam",
		Description: "paper stuck in tray 2",
		CategoryID:  f.category.ID,
	})
	require.NoError(t, err)
	return ticket
}

func adminPrincipal(id string) auth.Principal {
	return auth.Principal{ID: id, Role: domain.RoleAdmin}
}

func technicianPrincipal(id string) auth.Principal {
	return auth.Principal{ID: id, Role: domain.RoleTechnician}
}

func clientPrincipal(id string) auth.Principal {
	return auth.Principal{ID: id, Role: domain.RoleClient}
}

func TestCreateForClient(t *testing.T) {
	ctx := context.Background()

	t.Run("creates open unassigned ticket with medium default", func(t *testing.T) {
		f := newTicketFixture(t)
		f.addClient(t, "client-1")

		ticket := f.createTicket(t, "client-1")

		require.Equal(t, domain.TicketStatusOpen, ticket.Status)
		require.Equal(t, domain.TicketPriorityMedium, ticket.Priority)
		require.Nil(t, ticket.TechnicianUserID)
		require.Equal(t, "client-1", ticket.ClientUserID)
		require.Len(t, f.dispatcher.byType(events.EventTicketCreated), 1)
	})

	t.Run("respects explicit priority", func(t *testing.T) {
		f := newTicketFixture(t)
		f.addClient(t, "client-1")

		ticket, err := f.service.CreateForClient(ctx, "client-1", TicketCreateInput{
			Title:      "server down",
			Priority:   domain.TicketPriorityCritical,
			CategoryID: f.category.ID,
		})
		require.NoError(t, err)
		require.Equal(t, domain.TicketPriorityCritical, ticket.Priority)
	})

	t.Run("missing client profile is not found", func(t *testing.T) {
		f := newTicketFixture(t)

		_, err := f.service.CreateForClient(ctx, "ghost", TicketCreateInput{
			Title:      "x",
			CategoryID: f.category.ID,
		})
		require.True(t, apperrors.IsNotFound(err))
	})

	t.Run("missing category is not found", func(t *testing.T) {
		f := newTicketFixture(t)
		f.addClient(t, "client-1")

		_, err := f.service.CreateForClient(ctx, "client-1", TicketCreateInput{
			Title:      "x",
			CategoryID: 999,
		})
		require.True(t, apperrors.IsNotFound(err))
	})

	t.Run("unknown priority is invalid argument", func(t *testing.T) {
		f := newTicketFixture(t)
		f.addClient(t, "client-1")

		_, err := f.service.CreateForClient(ctx, "client-1", TicketCreateInput{
			Title:      "x",
			Priority:   "URGENT",
			CategoryID: f.category.ID,
		})
		require.True(t, apperrors.IsInvalidArgument(err))
	})
}

func TestUpdateStatusTransitions(t *testing.T) {
	ctx := context.Background()
	admin := adminPrincipal("admin-1")

	all := []domain.TicketStatus{
		domain.TicketStatusOpen,
		domain.TicketStatusInProgress,
		domain.TicketStatusResolved,
		domain.TicketStatusClosed,
	}
	allowed := map[domain.TicketStatus]domain.TicketStatus{
		domain.TicketStatusOpen:       domain.TicketStatusInProgress,
		domain.TicketStatusInProgress: domain.TicketStatusResolved,
		domain.TicketStatusResolved:   domain.TicketStatusClosed,
	}

	for _, from := range all {
		for _, to := range all {
			from, to := from, to
			t.Run(string(from)+"_to_"+string(to), func(t *testing.T) {
				f := newTicketFixture(t)
				f.addClient(t, "client-1")
				ticket := f.createTicket(t, "client-1")
				ticket.Status = from
				require.NoError(t, f.tickets.Update(ctx, ticket))

				updated, err := f.service.UpdateStatus(ctx, admin, ticket.ID, to)
				if allowed[from] == to {
					require.NoError(t, err)
					require.Equal(t, to, updated.Status)
				} else {
					require.True(t, apperrors.IsInvalidArgument(err))
					stored, getErr := f.tickets.GetByID(ctx, ticket.ID)
					require.NoError(t, getErr)
					require.Equal(t, from, stored.Status)
				}
			})
		}
	}
}

func TestUpdateStatusAuthorization(t *testing.T) {
	ctx := context.Background()

	t.Run("assigned technician can transition", func(t *testing.T) {
		f := newTicketFixture(t)
		f.addClient(t, "client-1")
		f.addTechnician(t, "tech-1")
		ticket := f.createTicket(t, "client-1")

		_, err := f.assignment.AssignToTechnician(ctx, adminPrincipal("admin-1"), ticket.ID, "tech-1")
		require.NoError(t, err)

		updated, err := f.service.UpdateStatus(ctx, technicianPrincipal("tech-1"), ticket.ID, domain.TicketStatusInProgress)
		require.NoError(t, err)
		require.Equal(t, domain.TicketStatusInProgress, updated.Status)
		require.Len(t, f.dispatcher.byType(events.EventTicketStatusChanged), 1)
	})

	t.Run("unassigned technician is forbidden", func(t *testing.T) {
		f := newTicketFixture(t)
		f.addClient(t, "client-1")
		f.addTechnician(t, "tech-1")
		f.addTechnician(t, "tech-2")
		ticket := f.createTicket(t, "client-1")

		_, err := f.assignment.AssignToTechnician(ctx, adminPrincipal("admin-1"), ticket.ID, "tech-1")
		require.NoError(t, err)

		_, err = f.service.UpdateStatus(ctx, technicianPrincipal("tech-2"), ticket.ID, domain.TicketStatusInProgress)
		require.True(t, apperrors.IsForbidden(err))
	})

	t.Run("client cannot transition own ticket", func(t *testing.T) {
		f := newTicketFixture(t)
		f.addClient(t, "client-1")
		ticket := f.createTicket(t, "client-1")

		_, err := f.service.UpdateStatus(ctx, clientPrincipal("client-1"), ticket.ID, domain.TicketStatusInProgress)
		require.True(t, apperrors.IsForbidden(err))
	})

	t.Run("admin can transition any ticket", func(t *testing.T) {
		f := newTicketFixture(t)
		f.addClient(t, "client-1")
		ticket := f.createTicket(t, "client-1")

		updated, err := f.service.UpdateStatus(ctx, adminPrincipal("admin-1"), ticket.ID, domain.TicketStatusInProgress)
		require.NoError(t, err)
		require.Equal(t, domain.TicketStatusInProgress, updated.Status)
	})
}

func TestUpdateStatusCheckOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("missing ticket reports not found before authorization", func(t *testing.T) {
		f := newTicketFixture(t)

		_, err := f.service.UpdateStatus(ctx, clientPrincipal("client-1"), 404, domain.TicketStatusClosed)
		require.True(t, apperrors.IsNotFound(err))
	})

	t.Run("forbidden reported before invalid transition", func(t *testing.T) {
		f := newTicketFixture(t)
		f.addClient(t, "client-1")
		f.addTechnician(t, "tech-2")
		ticket := f.createTicket(t, "client-1")

		// tech-2 is not assigned and OPEN -> CLOSED is also illegal; the
		// authorization failure must win.
		_, err := f.service.UpdateStatus(ctx, technicianPrincipal("tech-2"), ticket.ID, domain.TicketStatusClosed)
		require.True(t, apperrors.IsForbidden(err))
	})
}

func TestListForUser(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) *ticketFixture {
		f := newTicketFixture(t)
		f.addClient(t, "client-1")
		f.addClient(t, "client-2")
		f.addTechnician(t, "tech-1")

		t1 := f.createTicket(t, "client-1")
		f.createTicket(t, "client-2")
		f.createTicket(t, "client-1")

		_, err := f.assignment.AssignToTechnician(ctx, adminPrincipal("admin-1"), t1.ID, "tech-1")
		require.NoError(t, err)
		return f
	}

	t.Run("admin sees all newest first", func(t *testing.T) {
		f := setup(t)

		tickets, err := f.service.ListForUser(ctx, adminPrincipal("admin-1"), TicketListFilter{})
		require.NoError(t, err)
		require.Len(t, tickets, 3)
		for i := 1; i < len(tickets); i++ {
			require.False(t, tickets[i].CreatedAt.After(tickets[i-1].CreatedAt))
		}
	})

	t.Run("client sees only own tickets", func(t *testing.T) {
		f := setup(t)

		tickets, err := f.service.ListForUser(ctx, clientPrincipal("client-1"), TicketListFilter{})
		require.NoError(t, err)
		require.Len(t, tickets, 2)
		for _, ticket := range tickets {
			require.Equal(t, "client-1", ticket.ClientUserID)
		}
	})

	t.Run("technician sees only assigned tickets", func(t *testing.T) {
		f := setup(t)

		tickets, err := f.service.ListForUser(ctx, technicianPrincipal("tech-1"), TicketListFilter{})
		require.NoError(t, err)
		require.Len(t, tickets, 1)
		require.True(t, tickets[0].AssignedTo("tech-1"))
	})

	t.Run("status filter applies within role scope", func(t *testing.T) {
		f := setup(t)
		status := domain.TicketStatusOpen

		tickets, err := f.service.ListForUser(ctx, clientPrincipal("client-1"), TicketListFilter{Status: &status})
		require.NoError(t, err)
		for _, ticket := range tickets {
			require.Equal(t, domain.TicketStatusOpen, ticket.Status)
			require.Equal(t, "client-1", ticket.ClientUserID)
		}
	})
}

func TestGetForUser(t *testing.T) {
	ctx := context.Background()

	t.Run("missing ticket is not found for everyone", func(t *testing.T) {
		f := newTicketFixture(t)

		_, err := f.service.GetForUser(ctx, 42, adminPrincipal("admin-1"))
		require.True(t, apperrors.IsNotFound(err))
	})

	t.Run("other client is forbidden, not not-found", func(t *testing.T) {
		f := newTicketFixture(t)
		f.addClient(t, "client-1")
		ticket := f.createTicket(t, "client-1")

		_, err := f.service.GetForUser(ctx, ticket.ID, clientPrincipal("client-2"))
		require.True(t, apperrors.IsForbidden(err))
	})

	t.Run("owner and admin can read", func(t *testing.T) {
		f := newTicketFixture(t)
		f.addClient(t, "client-1")
		ticket := f.createTicket(t, "client-1")

		got, err := f.service.GetForUser(ctx, ticket.ID, clientPrincipal("client-1"))
		require.NoError(t, err)
		require.Equal(t, ticket.ID, got.ID)

		_, err = f.service.GetForUser(ctx, ticket.ID, adminPrincipal("admin-1"))
		require.NoError(t, err)
	})
}

func TestListByUserScopedQueries(t *testing.T) {
	ctx := context.Background()

	f := newTicketFixture(t)
	f.addClient(t, "client-1")
	f.addClient(t, "client-2")
	f.addTechnician(t, "tech-1")

	t1 := f.createTicket(t, "client-1")
	f.createTicket(t, "client-2")
	_, err := f.assignment.AssignToTechnician(ctx, adminPrincipal("admin-1"), t1.ID, "tech-1")
	require.NoError(t, err)

	byClient, err := f.service.ListByClientUserID(ctx, "client-1", TicketListFilter{})
	require.NoError(t, err)
	require.Len(t, byClient, 1)
	require.Equal(t, "client-1", byClient[0].ClientUserID)

	byTech, err := f.service.ListByTechnicianUserID(ctx, "tech-1", TicketListFilter{})
	require.NoError(t, err)
	require.Len(t, byTech, 1)
	require.Equal(t, t1.ID, byTech[0].ID)

	empty, err := f.service.ListByClientUserID(ctx, "client-3", TicketListFilter{})
	require.NoError(t, err)
	require.Empty(t, empty)
}
