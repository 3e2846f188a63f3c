package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/flowbit/flowbit-api/internal/domain"
	"github.com/flowbit/flowbit-api/internal/events"
	"github.com/flowbit/flowbit-api/internal/repository"
	apperrors "github.com/flowbit/flowbit-api/pkg/util"
)

// ReconcileService merges the external engine's completion callback into
// ticket state. The caller is authenticated by the shared webhook secret
// upstream; the ticket is located by id alone, with no tenant check. That
// matches the engine's contract: it holds the secret and reports back only
// ids it was handed.
type ReconcileService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewReconcileService constructs the service.
func NewReconcileService(tickets repository.TicketRepository, dispatcher events.Dispatcher, logger *zap.Logger) *ReconcileService {
	return &ReconcileService{tickets: tickets, dispatcher: dispatcher, logger: logger}
}

// Complete records a finished workflow run. workflowStatus always becomes
// Completed; status takes the reported value when it is one of the four
// valid ones and defaults to In Progress otherwise; workflowData is stored
// verbatim when present. Calling this twice with the same arguments leaves
// the ticket in the same final state.
func (s *ReconcileService) Complete(ctx context.Context, ticketID string, status *domain.TicketStatus, workflowData json.RawMessage) (*domain.Ticket, error) {
	if _, err := s.tickets.GetAnyTenant(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, err
	}

	newStatus := domain.TicketStatusInProgress
	if status != nil && status.Valid() {
		newStatus = *status
	}

	ticket, err := s.tickets.CompleteWorkflow(ctx, ticketID, newStatus, workflowData)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, err
	}

	s.logger.Info("workflow callback reconciled",
		zap.String("ticket_id", ticket.ID),
		zap.String("customer_id", ticket.CustomerID),
		zap.String("status", string(ticket.Status)))

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:       events.EventWorkflowDone,
			TicketID:   ticket.ID,
			CustomerID: ticket.CustomerID,
			Payload:    events.WorkflowDonePayload{Status: ticket.Status},
		})
	}
	return ticket, nil
}
