package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// TicketCreateRequest payload to file a ticket.
type TicketCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TicketResponse is the full ticket view for moderators and admins.
type TicketResponse struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Status        string   `json:"status"`
	Priority      string   `json:"priority"`
	HelpfulNotes  string   `json:"helpful_notes,omitempty"`
	RelatedSkills []string `json:"related_skills,omitempty"`
	CreatedBy     string   `json:"created_by"`
	AssignedTo    *string  `json:"assigned_to"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TicketSummaryResponse is the trimmed view end-users get back.
type TicketSummaryResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTicketResponse maps a domain ticket to the full view.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		Status:        string(t.Status),
		Priority:      string(t.Priority),
		HelpfulNotes:  t.HelpfulNotes,
		RelatedSkills: t.RelatedSkills,
		CreatedBy:     t.CreatedBy,
		AssignedTo:    t.AssignedTo,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// NewTicketSummaryResponse maps a domain ticket to the trimmed view.
func NewTicketSummaryResponse(t *domain.Ticket) TicketSummaryResponse {
	return TicketSummaryResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
	}
}
