package dto

import (
	"encoding/json"
	"time"

	"github.com/flowbit/flowbit-api/internal/domain"
	"github.com/flowbit/flowbit-api/internal/service"
)

// CreateTicketRequest payload. Tenant and creator are taken from the
// caller's claims, never from the body.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority,omitempty"`
}

// UpdateTicketRequest carries an admin's partial edit. Fields absent from
// the JSON stay untouched; fields outside this struct are rejected by the
// strict decoder.
type UpdateTicketRequest struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	Status      *domain.TicketStatus   `json:"status"`
	Priority    *domain.TicketPriority `json:"priority"`
	AssignedTo  *string                `json:"assignedTo"`
}

// TicketResponse is the wire form of a ticket.
type TicketResponse struct {
	ID             string                `json:"id"`
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	Status         domain.TicketStatus   `json:"status"`
	Priority       domain.TicketPriority `json:"priority"`
	CustomerID     string                `json:"customerId"`
	CreatedBy      string                `json:"createdBy"`
	AssignedTo     *string               `json:"assignedTo,omitempty"`
	WorkflowStatus domain.WorkflowStatus `json:"workflowStatus"`
	WorkflowID     *string               `json:"workflowId,omitempty"`
	WorkflowData   json.RawMessage       `json:"workflowData,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

// TicketListResponse bundles a page of tickets with paging metadata.
type TicketListResponse struct {
	Tickets    []TicketResponse   `json:"tickets"`
	Pagination service.Pagination `json:"pagination"`
}

// StatusCount is one per-status bucket in the admin stats response.
type StatusCount struct {
	Status domain.TicketStatus `json:"status"`
	Count  int64               `json:"count"`
}

// StatsResponse is returned from /admin/stats.
type StatsResponse struct {
	Message    string        `json:"message"`
	CustomerID string        `json:"customerId"`
	Stats      []StatusCount `json:"stats"`
}

// NewTicketResponse maps a domain ticket to its wire form.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:             ticket.ID,
		Title:          ticket.Title,
		Description:    ticket.Description,
		Status:         ticket.Status,
		Priority:       ticket.Priority,
		CustomerID:     ticket.CustomerID,
		CreatedBy:      ticket.CreatedBy,
		AssignedTo:     ticket.AssignedTo,
		WorkflowStatus: ticket.WorkflowStatus,
		WorkflowID:     ticket.WorkflowID,
		WorkflowData:   ticket.WorkflowData,
		CreatedAt:      ticket.CreatedAt,
		UpdatedAt:      ticket.UpdatedAt,
	}
}

// NewTicketResponses maps a slice of tickets.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, NewTicketResponse(&tickets[i]))
	}
	return items
}
