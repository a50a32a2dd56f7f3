package events

import (
	"time"

	"github.com/pegasus-hq/support-core/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketMessageAdded  EventType = "ticket_message_added"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketEscalated     EventType = "ticket_escalated"
	EventTicketSLABreached   EventType = "ticket_sla_breached"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketNumber string                `json:"ticket_number"`
	Priority     domain.TicketPriority `json:"priority"`
	Category     domain.TicketCategory `json:"category"`
	Title        string                `json:"title"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketMessageAddedPayload payload.
type TicketMessageAddedPayload struct {
	MessageID  string                   `json:"message_id"`
	AuthorRole domain.MessageAuthorRole `json:"author_role"`
	IsInternal bool                     `json:"is_internal"`
	Preview    string                   `json:"preview"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssignedTo   string `json:"assigned_to,omitempty"`
	AssignedByID string `json:"assigned_by,omitempty"`
}

// TicketEscalatedPayload payload.
type TicketEscalatedPayload struct {
	EscalatedBy string `json:"escalated_by"`
	Reason      string `json:"reason"`
}

// TicketSLABreachedPayload payload.
type TicketSLABreachedPayload struct {
	TicketNumber string `json:"ticket_number"`
	Kind         string `json:"kind"`
}
