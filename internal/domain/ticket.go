package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// TicketPriority enumerates urgency derived during triage.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// ValidPriority reports whether p is one of the allowed priorities.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests. HelpfulNotes,
// RelatedSkills and AssignedTo stay empty until triage completes.
type Ticket struct {
	ID            string
	Title         string
	Description   string
	Status        TicketStatus
	Priority      TicketPriority
	HelpfulNotes  string
	RelatedSkills []string
	CreatedBy     string
	AssignedTo    *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TriageUpdate carries every field the triage workflow derives. The
// store applies it as one atomic multi-field write so partial triage
// state is never observable.
type TriageUpdate struct {
	Status        TicketStatus
	Priority      TicketPriority
	HelpfulNotes  string
	RelatedSkills []string
	AssignedTo    string
}
