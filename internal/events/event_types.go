package events

import (
	"time"

	"github.com/flowbit/flowbit-api/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated EventType = "ticket_created"
	EventTicketUpdated EventType = "ticket_updated"
	EventTicketDeleted EventType = "ticket_deleted"
	EventWorkflowDone  EventType = "workflow_done"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	TicketID   string      `json:"ticket_id"`
	CustomerID string      `json:"customer_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// TicketCreatedPayload carries the snapshot the workflow trigger needs to
// notify the external engine.
type TicketCreatedPayload struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	CreatedBy   string                `json:"created_by"`
	CreatedAt   time.Time             `json:"created_at"`
}

// TicketUpdatedPayload records which fields an admin touched.
type TicketUpdatedPayload struct {
	Fields []string `json:"fields"`
}

// WorkflowDonePayload records a reconciled callback.
type WorkflowDonePayload struct {
	Status domain.TicketStatus `json:"status"`
}
