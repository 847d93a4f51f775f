package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
	"github.com/helpdesk-kit/helpdesk-service/internal/events"
	"github.com/helpdesk-kit/helpdesk-service/internal/repository"
)

// In-memory repository fakes. All of them return pgx.ErrNoRows for missing
// records, matching what the pgx-backed implementations surface.

type fakeTicketRepo struct {
	mu      sync.Mutex
	seq     int64
	tickets map[int64]*domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[int64]*domain.Ticket)}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	ticket.ID = r.seq
	ticket.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	ticket.UpdatedAt = ticket.CreatedAt
	cp := *ticket
	r.tickets[ticket.ID] = &cp
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	cp := *ticket
	r.tickets[ticket.ID] = &cp
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *ticket
	return &cp, nil
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if filter.ClientUserID != nil && ticket.ClientUserID != *filter.ClientUserID {
			continue
		}
		if filter.TechnicianUserID != nil && !ticket.AssignedTo(*filter.TechnicianUserID) {
			continue
		}
		if filter.Status != nil && ticket.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && ticket.Priority != *filter.Priority {
			continue
		}
		result = append(result, *ticket)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakeTicketRepo) CountByTechnicianAndStatus(_ context.Context, technicianUserID string, status domain.TicketStatus) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, ticket := range r.tickets {
		if ticket.AssignedTo(technicianUserID) && ticket.Status == status {
			count++
		}
	}
	return count, nil
}

type fakeClientRepo struct {
	mu      sync.Mutex
	clients map[string]*domain.ClientProfile
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: make(map[string]*domain.ClientProfile)}
}

func (r *fakeClientRepo) Create(_ context.Context, client *domain.ClientProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	client.CreatedAt = time.Now()
	cp := *client
	r.clients[client.UserID] = &cp
	return nil
}

func (r *fakeClientRepo) GetByUserID(_ context.Context, userID string) (*domain.ClientProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	client, ok := r.clients[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *client
	return &cp, nil
}

func (r *fakeClientRepo) List(_ context.Context) ([]domain.ClientProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.ClientProfile
	for _, client := range r.clients {
		result = append(result, *client)
	}
	return result, nil
}

type fakeTechnicianRepo struct {
	mu          sync.Mutex
	technicians map[string]*domain.TechnicianProfile
}

func newFakeTechnicianRepo() *fakeTechnicianRepo {
	return &fakeTechnicianRepo{technicians: make(map[string]*domain.TechnicianProfile)}
}

func (r *fakeTechnicianRepo) Create(_ context.Context, technician *domain.TechnicianProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	technician.CreatedAt = time.Now()
	cp := *technician
	r.technicians[technician.UserID] = &cp
	return nil
}

func (r *fakeTechnicianRepo) GetByUserID(_ context.Context, userID string) (*domain.TechnicianProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	technician, ok := r.technicians[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *technician
	return &cp, nil
}

func (r *fakeTechnicianRepo) List(_ context.Context) ([]domain.TechnicianProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.TechnicianProfile
	for _, technician := range r.technicians {
		result = append(result, *technician)
	}
	return result, nil
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	seq        int64
	categories map[int64]*domain.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[int64]*domain.Category)}
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	category.ID = r.seq
	category.CreatedAt = time.Now()
	cp := *category
	r.categories[category.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[category.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *category
	r.categories[category.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	category, ok := r.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *category
	return &cp, nil
}

func (r *fakeCategoryRepo) GetByName(_ context.Context, name string) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, category := range r.categories {
		if category.Name == name {
			cp := *category
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Category
	for _, category := range r.categories {
		result = append(result, *category)
	}
	return result, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		r.seq++
		user.ID = fmt.Sprintf("user-%d", r.seq)
	}
	user.CreatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *user
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.User
	for _, user := range r.users {
		result = append(result, *user)
	}
	return result, nil
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) byType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var result []events.Event
	for _, event := range d.events {
		if event.Type == eventType {
			result = append(result, event)
		}
	}
	return result
}
