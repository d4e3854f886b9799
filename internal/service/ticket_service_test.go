package service

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
)

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets []domain.Ticket
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket.ID = "t" + strconv.Itoa(len(r.tickets)+1)
	r.tickets = append(r.tickets, *ticket)
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ticket := range r.tickets {
		if ticket.ID == id {
			t := ticket
			return &t, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) ListAll(context.Context, int, int) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Ticket{}, r.tickets...), nil
}

func (r *fakeTicketRepo) ListByCreator(_ context.Context, userID string, _, _ int) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Ticket
	for _, ticket := range r.tickets {
		if ticket.CreatedBy == userID {
			out = append(out, ticket)
		}
	}
	return out, nil
}

func (r *fakeTicketRepo) ApplyTriage(context.Context, string, domain.TriageUpdate) error {
	return nil
}

func TestCreateTicket_PublishesTriageEvent(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	var got []events.Event
	dispatcher.Subscribe(events.EventTicketCreated, func(_ context.Context, e events.Event) error {
		got = append(got, e)
		return nil
	})

	svc := NewTicketService(TicketDependencies{TicketRepo: &fakeTicketRepo{}, Dispatcher: dispatcher})

	ticket, err := svc.CreateTicket(context.Background(), "u1", "broken build", "CI fails on main")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)

	require.Len(t, got, 1)
	payload, ok := got[0].Payload.(events.TicketCreatedPayload)
	require.True(t, ok)
	assert.Equal(t, ticket.ID, payload.TicketID)
}

func TestCreateTicket_RequiresTitleAndDescription(t *testing.T) {
	svc := NewTicketService(TicketDependencies{TicketRepo: &fakeTicketRepo{}})

	_, err := svc.CreateTicket(context.Background(), "u1", "  ", "desc")
	assert.Error(t, err)

	_, err = svc.CreateTicket(context.Background(), "u1", "title", "")
	assert.Error(t, err)
}

func TestTicketVisibilityScopedByRole(t *testing.T) {
	repo := &fakeTicketRepo{}
	svc := NewTicketService(TicketDependencies{TicketRepo: repo})

	mine, err := svc.CreateTicket(context.Background(), "u1", "mine", "desc")
	require.NoError(t, err)
	theirs, err := svc.CreateTicket(context.Background(), "u2", "theirs", "desc")
	require.NoError(t, err)

	user := &domain.User{ID: "u1", Role: domain.RoleUser}
	admin := &domain.User{ID: "u3", Role: domain.RoleAdmin}

	// users only see what they filed
	listed, err := svc.ListTickets(context.Background(), user, 20, 0)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, mine.ID, listed[0].ID)

	_, err = svc.GetTicket(context.Background(), user, theirs.ID)
	assert.Error(t, err)

	// admins see everything
	listed, err = svc.ListTickets(context.Background(), admin, 20, 0)
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	got, err := svc.GetTicket(context.Background(), admin, theirs.ID)
	require.NoError(t, err)
	assert.Equal(t, theirs.ID, got.ID)
}
