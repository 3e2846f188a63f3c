package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/flowbit/flowbit-api/internal/api/dto"
	"github.com/flowbit/flowbit-api/internal/auth"
	"github.com/flowbit/flowbit-api/internal/domain"
	"github.com/flowbit/flowbit-api/internal/service"
	apperrors "github.com/flowbit/flowbit-api/pkg/util"
)

// statOrder fixes the response ordering for per-status counts.
var statOrder = []domain.TicketStatus{
	domain.TicketStatusOpen,
	domain.TicketStatusInProgress,
	domain.TicketStatusResolved,
	domain.TicketStatusClosed,
}

// AdminHandler exposes admin-only reporting endpoints.
type AdminHandler struct {
	tickets *service.TicketService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(ticketService *service.TicketService) *AdminHandler {
	return &AdminHandler{tickets: ticketService}
}

// Stats handles GET /admin/stats: per-status ticket counts for the caller's
// tenant.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("access token required")
	}

	counts, err := h.tickets.StatsByStatus(c.Context(), claims.CustomerID)
	if err != nil {
		return err
	}

	stats := make([]dto.StatusCount, 0, len(counts))
	for _, status := range statOrder {
		if count, ok := counts[status]; ok {
			stats = append(stats, dto.StatusCount{Status: status, Count: count})
		}
	}

	return c.JSON(dto.StatsResponse{
		Message:    "Admin stats retrieved",
		CustomerID: claims.CustomerID,
		Stats:      stats,
	})
}
