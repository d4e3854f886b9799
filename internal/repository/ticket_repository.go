package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.Ticket, error)
	ListByCreator(ctx context.Context, userID string, limit, offset int) ([]domain.Ticket, error)
	ApplyTriage(ctx context.Context, id string, upd domain.TriageUpdate) error
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
        INSERT INTO tickets (title, description, status, priority, created_by)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, helpful_notes, related_skills, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.CreatedBy,
	).Scan(&ticket.ID, &ticket.HelpfulNotes, &ticket.RelatedSkills, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, title, description, status, priority, helpful_notes, related_skills,
               created_by, assigned_to, created_at, updated_at
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.HelpfulNotes,
		&ticket.RelatedSkills,
		&ticket.CreatedBy,
		&ticket.AssignedTo,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.Ticket, error) {
	const query = `
        SELECT id, title, description, status, priority, helpful_notes, related_skills,
               created_by, assigned_to, created_at, updated_at
        FROM tickets ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListByCreator(ctx context.Context, userID string, limit, offset int) ([]domain.Ticket, error) {
	const query = `
        SELECT id, title, description, status, priority, helpful_notes, related_skills,
               created_by, assigned_to, created_at, updated_at
        FROM tickets WHERE created_by=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, userID, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// ApplyTriage writes every triage-derived field in one statement so
// concurrent readers never observe partial triage state.
func (r *ticketRepository) ApplyTriage(ctx context.Context, id string, upd domain.TriageUpdate) error {
	const query = `
        UPDATE tickets SET status=$1, priority=$2, helpful_notes=$3, related_skills=$4,
            assigned_to=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		upd.Status,
		upd.Priority,
		upd.HelpfulNotes,
		upd.RelatedSkills,
		upd.AssignedTo,
		id,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Title,
			&ticket.Description,
			&ticket.Status,
			&ticket.Priority,
			&ticket.HelpfulNotes,
			&ticket.RelatedSkills,
			&ticket.CreatedBy,
			&ticket.AssignedTo,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
