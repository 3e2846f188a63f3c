package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/flowbit/flowbit-api/internal/domain"
	"github.com/flowbit/flowbit-api/internal/events"
	"github.com/flowbit/flowbit-api/internal/repository"
	apperrors "github.com/flowbit/flowbit-api/pkg/util"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// TicketService coordinates tenant-scoped ticket operations. Every method
// takes the caller's customer id from verified claims, never from client
// input.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
}

// TicketUpdateInput carries the admin-editable fields. Tenant, creator and
// id are not representable here, so a partial payload cannot touch them.
type TicketUpdateInput struct {
	Title       *string
	Description *string
	Status      *domain.TicketStatus
	Priority    *domain.TicketPriority
	AssignedTo  *string
}

// TicketListQuery captures listing filters and paging.
type TicketListQuery struct {
	Status   *domain.TicketStatus
	Priority *domain.TicketPriority
	Page     int
	Limit    int
}

// Pagination describes a result page.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{tickets: tickets, dispatcher: dispatcher}
}

// List returns a tenant-scoped page of tickets, newest first.
func (s *TicketService) List(ctx context.Context, customerID string, query TicketListQuery) ([]domain.Ticket, Pagination, error) {
	page := query.Page
	if page <= 0 {
		page = 1
	}
	limit := query.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	filter := repository.TicketFilter{
		CustomerID: customerID,
		Status:     query.Status,
		Priority:   query.Priority,
		Limit:      limit,
		Offset:     (page - 1) * limit,
	}

	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, Pagination{}, err
	}
	total, err := s.tickets.Count(ctx, filter)
	if err != nil {
		return nil, Pagination{}, err
	}

	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return tickets, Pagination{Page: page, Limit: limit, Total: total, Pages: pages}, nil
}

// Get fetches a single ticket within the caller's tenant. A ticket that
// exists in another tenant yields the identical NotFound.
func (s *TicketService) Get(ctx context.Context, customerID, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, customerID, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, err
	}
	return ticket, nil
}

// Create persists a new ticket and publishes ticket_created. The workflow
// trigger consumes that event on a detached path; creation never waits on
// the external engine.
func (s *TicketService) Create(ctx context.Context, customerID, creatorID string, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": input.Priority})
	}

	ticket := &domain.Ticket{
		Title:          title,
		Description:    description,
		Status:         domain.TicketStatusOpen,
		Priority:       priority,
		CustomerID:     customerID,
		CreatedBy:      creatorID,
		WorkflowStatus: domain.WorkflowStatusPending,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventTicketCreated,
		TicketID:   ticket.ID,
		CustomerID: ticket.CustomerID,
		Payload: events.TicketCreatedPayload{
			Title:       ticket.Title,
			Description: ticket.Description,
			Priority:    ticket.Priority,
			CreatedBy:   ticket.CreatedBy,
			CreatedAt:   ticket.CreatedAt,
		},
	})
	return ticket, nil
}

// Update applies an admin's partial edit within the caller's tenant.
func (s *TicketService) Update(ctx context.Context, customerID, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *input.Status})
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": *input.Priority})
	}

	ticket, err := s.Get(ctx, customerID, ticketID)
	if err != nil {
		return nil, err
	}

	var fields []string
	if input.Title != nil {
		ticket.Title = strings.TrimSpace(*input.Title)
		fields = append(fields, "title")
	}
	if input.Description != nil {
		ticket.Description = strings.TrimSpace(*input.Description)
		fields = append(fields, "description")
	}
	if input.Status != nil {
		ticket.Status = *input.Status
		fields = append(fields, "status")
	}
	if input.Priority != nil {
		ticket.Priority = *input.Priority
		fields = append(fields, "priority")
	}
	if input.AssignedTo != nil {
		if *input.AssignedTo == "" {
			ticket.AssignedTo = nil
		} else {
			ticket.AssignedTo = input.AssignedTo
		}
		fields = append(fields, "assignedTo")
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventTicketUpdated,
		TicketID:   ticket.ID,
		CustomerID: ticket.CustomerID,
		Payload:    events.TicketUpdatedPayload{Fields: fields},
	})
	return ticket, nil
}

// Delete removes a ticket within the caller's tenant.
func (s *TicketService) Delete(ctx context.Context, customerID, ticketID string) error {
	if err := s.tickets.Delete(ctx, customerID, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket")
		}
		return err
	}
	s.publishEvent(ctx, events.Event{
		Type:       events.EventTicketDeleted,
		TicketID:   ticketID,
		CustomerID: customerID,
	})
	return nil
}

// StatsByStatus returns per-status ticket counts for the caller's tenant.
func (s *TicketService) StatsByStatus(ctx context.Context, customerID string) (map[domain.TicketStatus]int64, error) {
	return s.tickets.CountByStatus(ctx, customerID)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
