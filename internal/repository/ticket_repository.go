package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flowbit/flowbit-api/internal/domain"
)

// TicketFilter captures tenant-scoped listing parameters. CustomerID is
// mandatory; every listing query carries it.
type TicketFilter struct {
	CustomerID string
	Status     *domain.TicketStatus
	Priority   *domain.TicketPriority
	Limit      int
	Offset     int
}

// TicketRepository encapsulates ticket persistence. All methods except the
// two webhook-path ones (GetAnyTenant, CompleteWorkflow) filter by
// customer_id in addition to id, so a ticket is invisible outside its tenant
// regardless of id knowledge.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, customerID, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	Count(ctx context.Context, filter TicketFilter) (int64, error)
	Update(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, customerID, id string) error
	CountByStatus(ctx context.Context, customerID string) (map[domain.TicketStatus]int64, error)

	// GetAnyTenant and CompleteWorkflow look tickets up by id alone. They
	// exist solely for the webhook callback path, which authenticates with
	// the shared secret and carries no tenant identity.
	GetAnyTenant(ctx context.Context, id string) (*domain.Ticket, error)
	CompleteWorkflow(ctx context.Context, id string, status domain.TicketStatus, workflowData []byte) (*domain.Ticket, error)
	AdvanceWorkflowStatus(ctx context.Context, id string, from, to domain.WorkflowStatus) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, title, description, status, priority, customer_id, created_by,
               assigned_to, workflow_status, workflow_id, workflow_data, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, status, priority, customer_id, created_by, assigned_to, workflow_status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.CustomerID,
		ticket.CreatedBy,
		ticket.AssignedTo,
		ticket.WorkflowStatus,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, customerID, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1 AND customer_id=$2`, ticketColumns)
	return r.fetchSingle(ctx, query, id, customerID)
}

func (r *ticketRepository) GetAnyTenant(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.CustomerID,
		&ticket.CreatedBy,
		&ticket.AssignedTo,
		&ticket.WorkflowStatus,
		&ticket.WorkflowID,
		&ticket.WorkflowData,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses, args := filter.whereClauses()

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) Count(ctx context.Context, filter TicketFilter) (int64, error) {
	clauses, args := filter.whereClauses()
	query := fmt.Sprintf(`SELECT COUNT(*) FROM tickets WHERE %s`, strings.Join(clauses, " AND "))

	var total int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (f TicketFilter) whereClauses() ([]string, []any) {
	args := []any{f.CustomerID}
	clauses := []string{"customer_id=$1"}

	if f.Status != nil {
		args = append(args, *f.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if f.Priority != nil {
		args = append(args, *f.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	return clauses, args
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, status=$3, priority=$4, assigned_to=$5, updated_at=NOW()
        WHERE id=$6 AND customer_id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.AssignedTo,
		ticket.ID,
		ticket.CustomerID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, customerID, id string) error {
	const query = `DELETE FROM tickets WHERE id=$1 AND customer_id=$2`
	cmd, err := r.pool.Exec(ctx, query, id, customerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) CountByStatus(ctx context.Context, customerID string) (map[domain.TicketStatus]int64, error) {
	const query = `SELECT status, COUNT(*) FROM tickets WHERE customer_id=$1 GROUP BY status`
	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.TicketStatus]int64)
	for rows.Next() {
		var status domain.TicketStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// CompleteWorkflow marks the external workflow finished. workflowData is
// stored verbatim when present and left untouched when nil, so repeated
// identical callbacks converge on the same row state.
func (r *ticketRepository) CompleteWorkflow(ctx context.Context, id string, status domain.TicketStatus, workflowData []byte) (*domain.Ticket, error) {
	query := fmt.Sprintf(`
        UPDATE tickets SET status=$2, workflow_status=$3, workflow_data=COALESCE($4, workflow_data), updated_at=NOW()
        WHERE id=$1
        RETURNING %s`, ticketColumns)

	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id, status, domain.WorkflowStatusCompleted, workflowData).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.CustomerID,
		&ticket.CreatedBy,
		&ticket.AssignedTo,
		&ticket.WorkflowStatus,
		&ticket.WorkflowID,
		&ticket.WorkflowData,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// AdvanceWorkflowStatus transitions workflow_status only when the row is
// still in the expected state. A trigger continuation that loses the race to
// a completed callback is a no-op, not an error.
func (r *ticketRepository) AdvanceWorkflowStatus(ctx context.Context, id string, from, to domain.WorkflowStatus) error {
	const query = `UPDATE tickets SET workflow_status=$3 WHERE id=$1 AND workflow_status=$2`
	_, err := r.pool.Exec(ctx, query, id, from, to)
	return err
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Title,
			&ticket.Description,
			&ticket.Status,
			&ticket.Priority,
			&ticket.CustomerID,
			&ticket.CreatedBy,
			&ticket.AssignedTo,
			&ticket.WorkflowStatus,
			&ticket.WorkflowID,
			&ticket.WorkflowData,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
