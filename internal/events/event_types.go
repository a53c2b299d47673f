package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated  EventType = "ticket_created"
	EventTicketAssigned EventType = "ticket_assigned"
	EventTicketClosed   EventType = "ticket_closed"
	EventTicketReopened EventType = "ticket_reopened"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	EmployeeID int64  `json:"employee_id"`
	FullName   string `json:"full_name"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string             `json:"id"`
	Type      EventType          `json:"type"`
	TicketID  int64              `json:"ticket_id"`
	TicketUID string             `json:"ticket_uid"`
	Actor     Actor              `json:"actor"`
	Timestamp time.Time          `json:"timestamp"`
	Payload   TicketEventPayload `json:"payload"`
}

// TicketEventPayload carries the loaded ticket at mutation time. Requester,
// agent and CC employees are already resolved so notification handlers never
// touch the database.
type TicketEventPayload struct {
	Ticket *domain.Ticket `json:"ticket"`
}

// NewTicketEvent builds an event for the given ticket mutation.
func NewTicketEvent(eventType EventType, ticket *domain.Ticket, actor Actor) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticket.ID,
		TicketUID: ticket.UID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   TicketEventPayload{Ticket: ticket},
	}
}
