package dto

import "encoding/json"

// TicketDoneRequest is the engine's completion callback. Status is applied
// only when it names a valid ticket status; WorkflowData is stored verbatim.
type TicketDoneRequest struct {
	TicketID     string          `json:"ticketId"`
	Status       *string         `json:"status"`
	WorkflowData json.RawMessage `json:"workflowData"`
}

// TicketDoneResponse acknowledges a reconciled callback.
type TicketDoneResponse struct {
	Message string         `json:"message"`
	Ticket  TicketResponse `json:"ticket"`
}
