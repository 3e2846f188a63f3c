package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/flowbit/flowbit-api/internal/api/dto"
	"github.com/flowbit/flowbit-api/internal/domain"
	"github.com/flowbit/flowbit-api/internal/service"
	apperrors "github.com/flowbit/flowbit-api/pkg/util"
)

// WebhookHandler receives the external engine's completion callbacks. The
// shared-secret guard runs before these handlers.
type WebhookHandler struct {
	reconciler *service.ReconcileService
}

// NewWebhookHandler constructs handler.
func NewWebhookHandler(reconciler *service.ReconcileService) *WebhookHandler {
	return &WebhookHandler{reconciler: reconciler}
}

// TicketDone handles POST /webhook/ticket-done.
func (h *WebhookHandler) TicketDone(c *fiber.Ctx) error {
	var req dto.TicketDoneRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	if req.TicketID == "" {
		return apperrors.NewValidationError("ticketId required", nil)
	}

	var status *domain.TicketStatus
	if req.Status != nil {
		s := domain.TicketStatus(*req.Status)
		status = &s
	}

	ticket, err := h.reconciler.Complete(c.Context(), req.TicketID, status, req.WorkflowData)
	if err != nil {
		return err
	}

	return c.JSON(dto.TicketDoneResponse{
		Message: "Ticket updated successfully",
		Ticket:  dto.NewTicketResponse(ticket),
	})
}

// Health handles GET /webhook/health, used by the engine to probe the
// callback receiver.
func (h *WebhookHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "flowbit-webhook-receiver",
	})
}
