package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
	TicketStatusClosed     TicketStatus = "Closed"
)

// Valid reports whether the status is one of the four known values.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "Low"
	TicketPriorityMedium   TicketPriority = "Medium"
	TicketPriorityHigh     TicketPriority = "High"
	TicketPriorityCritical TicketPriority = "Critical"
)

// Valid reports whether the priority is one of the known values.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// WorkflowStatus tracks the external automation engine's progress on a ticket.
type WorkflowStatus string

const (
	WorkflowStatusPending    WorkflowStatus = "Pending"
	WorkflowStatusProcessing WorkflowStatus = "Processing"
	WorkflowStatusCompleted  WorkflowStatus = "Completed"
)

// Ticket is the aggregate for support requests. CustomerID is fixed from the
// authenticated caller's claims at creation time and is never client-writable.
type Ticket struct {
	ID             string
	Title          string
	Description    string
	Status         TicketStatus
	Priority       TicketPriority
	CustomerID     string
	CreatedBy      string
	AssignedTo     *string
	WorkflowStatus WorkflowStatus
	WorkflowID     *string
	WorkflowData   []byte
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
