package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// TicketService coordinates ticket creation and access.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket files a new ticket for a user and publishes the
// ticket-created event that triggers triage.
func (s *TicketService) CreateTicket(ctx context.Context, userID, title, description string) (*domain.Ticket, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}

	ticket := &domain.Ticket{
		Title:       title,
		Description: description,
		Status:      domain.TicketStatusOpen,
		Priority:    domain.TicketPriorityMedium,
		CreatedBy:   userID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTicketCreated,
			Timestamp: time.Now(),
			Payload:   events.TicketCreatedPayload{TicketID: ticket.ID},
		})
	}
	return ticket, nil
}

// GetTicket returns a single ticket, scoped to the caller: plain users
// only see their own tickets.
func (s *TicketService) GetTicket(ctx context.Context, caller *domain.User, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if caller.Role == domain.RoleUser && ticket.CreatedBy != caller.ID {
		return nil, apperrors.NewForbidden("access denied")
	}
	return ticket, nil
}

// ListTickets returns tickets visible to the caller: moderators and
// admins see everything, users only what they filed.
func (s *TicketService) ListTickets(ctx context.Context, caller *domain.User, limit, offset int) ([]domain.Ticket, error) {
	var (
		tickets []domain.Ticket
		err     error
	)
	if caller.Role == domain.RoleUser {
		tickets, err = s.tickets.ListByCreator(ctx, caller.ID, limit, offset)
	} else {
		tickets, err = s.tickets.ListAll(ctx, limit, offset)
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}
