package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/flowbit/flowbit-api/internal/config"
	"github.com/flowbit/flowbit-api/internal/domain"
	"github.com/flowbit/flowbit-api/internal/events"
	"github.com/flowbit/flowbit-api/internal/repository"
)

// TriggerPayload is the body POSTed to the external automation engine for
// each new ticket. It carries everything the engine needs to call back,
// including the shared secret.
type TriggerPayload struct {
	TicketID      string                `json:"ticketId"`
	CustomerID    string                `json:"customerId"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Priority      domain.TicketPriority `json:"priority"`
	CreatedAt     time.Time             `json:"createdAt"`
	CallbackURL   string                `json:"callbackUrl"`
	WebhookSecret string                `json:"webhookSecret"`
}

// Trigger notifies the external workflow engine when tickets are created.
// Delivery is best effort: errors are logged and swallowed, nothing is
// retried, and the creating request never observes the outcome.
type Trigger struct {
	cfg         config.WorkflowConfig
	secret      string
	callbackURL string
	client      *http.Client
	tickets     repository.TicketRepository
	logger      *zap.Logger
}

// NewTrigger builds the trigger. The HTTP client's timeout bounds the whole
// outbound call.
func NewTrigger(cfg config.WorkflowConfig, webhookSecret string, tickets repository.TicketRepository, logger *zap.Logger) *Trigger {
	return &Trigger{
		cfg:         cfg,
		secret:      webhookSecret,
		callbackURL: strings.TrimRight(cfg.CallbackBaseURL, "/") + "/webhook/ticket-done",
		client:      &http.Client{Timeout: cfg.Timeout()},
		tickets:     tickets,
		logger:      logger,
	}
}

// Subscribe registers the trigger on ticket_created events.
func (t *Trigger) Subscribe(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventTicketCreated, t.handleTicketCreated)
}

func (t *Trigger) handleTicketCreated(_ context.Context, event events.Event) error {
	if t.cfg.EngineURL == "" {
		return nil
	}
	created, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}

	payload := TriggerPayload{
		TicketID:      event.TicketID,
		CustomerID:    event.CustomerID,
		Title:         created.Title,
		Description:   created.Description,
		Priority:      created.Priority,
		CreatedAt:     created.CreatedAt,
		CallbackURL:   t.callbackURL,
		WebhookSecret: t.secret,
	}

	// Detach from the request: the creation response must not wait on the
	// engine, and the engine's failure must not reach the caller.
	go t.Deliver(payload)
	return nil
}

// Deliver performs one outbound trigger call and, on success, advances the
// ticket's workflow status from Pending to Processing. All failure paths
// end here.
func (t *Trigger) Deliver(payload TriggerPayload) {
	body, err := json.Marshal(payload)
	if err != nil {
		t.logger.Error("marshal trigger payload", zap.Error(err), zap.String("ticket_id", payload.TicketID))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), t.cfg.Timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.EngineURL, bytes.NewReader(body))
	if err != nil {
		t.logger.Error("build trigger request", zap.Error(err), zap.String("ticket_id", payload.TicketID))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if t.cfg.EngineUser != "" {
		req.SetBasicAuth(t.cfg.EngineUser, t.cfg.EnginePassword)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Warn("workflow trigger failed",
			zap.Error(err),
			zap.String("ticket_id", payload.TicketID))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		t.logger.Warn("workflow trigger rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("ticket_id", payload.TicketID))
		return
	}

	t.logger.Info("workflow triggered", zap.String("ticket_id", payload.TicketID))

	updateCtx, updateCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer updateCancel()
	if err := t.tickets.AdvanceWorkflowStatus(updateCtx, payload.TicketID,
		domain.WorkflowStatusPending, domain.WorkflowStatusProcessing); err != nil {
		t.logger.Warn("advance workflow status failed",
			zap.Error(err),
			zap.String("ticket_id", payload.TicketID))
	}
}
