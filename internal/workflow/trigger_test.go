package workflow_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/flowbit/flowbit-api/internal/config"
	"github.com/flowbit/flowbit-api/internal/domain"
	"github.com/flowbit/flowbit-api/internal/repository"
	"github.com/flowbit/flowbit-api/internal/workflow"
)

// advanceRecorder records AdvanceWorkflowStatus calls; the trigger touches
// nothing else on the repository.
type advanceRecorder struct {
	repository.TicketRepository

	mu    sync.Mutex
	calls []advanceCall
}

type advanceCall struct {
	ticketID string
	from, to domain.WorkflowStatus
}

func (r *advanceRecorder) AdvanceWorkflowStatus(_ context.Context, id string, from, to domain.WorkflowStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, advanceCall{ticketID: id, from: from, to: to})
	return nil
}

func (r *advanceRecorder) recorded() []advanceCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]advanceCall{}, r.calls...)
}

func testPayload() workflow.TriggerPayload {
	return workflow.TriggerPayload{
		TicketID:    "tck-1",
		CustomerID:  "logisticsco",
		Title:       "printer on fire",
		Description: "third floor",
		Priority:    domain.TicketPriorityCritical,
		CreatedAt:   time.Now(),
	}
}

func TestDeliverAdvancesWorkflowOnSuccess(t *testing.T) {
	var (
		mu          sync.Mutex
		received    workflow.TriggerPayload
		gotAuth     string
		contentType string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		gotAuth = r.Header.Get("Authorization")
		contentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	repo := &advanceRecorder{}
	trigger := workflow.NewTrigger(config.WorkflowConfig{
		EngineURL:      server.URL,
		EngineUser:     "flowbit",
		EnginePassword: "s3cret",
		TimeoutSeconds: 5,
	}, "whsec", repo, zap.NewNop())

	trigger.Deliver(testPayload())

	mu.Lock()
	require.Equal(t, "tck-1", received.TicketID)
	require.Equal(t, "logisticsco", received.CustomerID)
	require.Equal(t, "application/json", contentType)
	require.NotEmpty(t, gotAuth)
	mu.Unlock()

	calls := repo.recorded()
	require.Len(t, calls, 1)
	require.Equal(t, "tck-1", calls[0].ticketID)
	require.Equal(t, domain.WorkflowStatusPending, calls[0].from)
	require.Equal(t, domain.WorkflowStatusProcessing, calls[0].to)
}

func TestDeliverLeavesPendingOnEngineError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	repo := &advanceRecorder{}
	trigger := workflow.NewTrigger(config.WorkflowConfig{
		EngineURL:      server.URL,
		TimeoutSeconds: 5,
	}, "whsec", repo, zap.NewNop())

	trigger.Deliver(testPayload())
	require.Empty(t, repo.recorded())
}

func TestDeliverLeavesPendingWhenEngineUnreachable(t *testing.T) {
	// Server already closed, so the POST fails at the transport level.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	server.Close()

	repo := &advanceRecorder{}
	trigger := workflow.NewTrigger(config.WorkflowConfig{
		EngineURL:      server.URL,
		TimeoutSeconds: 1,
	}, "whsec", repo, zap.NewNop())

	trigger.Deliver(testPayload())
	require.Empty(t, repo.recorded())
}

func TestCallbackURLAddressesWebhookRoute(t *testing.T) {
	var (
		mu       sync.Mutex
		received workflow.TriggerPayload
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		_ = json.NewDecoder(r.Body).Decode(&received)
	}))
	defer server.Close()

	trigger := workflow.NewTrigger(config.WorkflowConfig{
		EngineURL:       server.URL,
		TimeoutSeconds:  5,
		CallbackBaseURL: "http://api.internal:3001/",
	}, "whsec", &advanceRecorder{}, zap.NewNop())

	trigger.Deliver(testPayload())

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, "http://api.internal:3001/webhook/ticket-done", received.CallbackURL)
	require.Equal(t, "whsec", received.WebhookSecret)
}
