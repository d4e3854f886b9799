package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated EventType = "ticket_created"
	EventUserSignedUp  EventType = "user_signup"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// TicketCreatedPayload triggers one triage workflow execution.
type TicketCreatedPayload struct {
	TicketID string `json:"ticket_id"`
}

// UserSignedUpPayload triggers the welcome-email flow.
type UserSignedUpPayload struct {
	Email string `json:"email"`
}
