package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/flowbit/flowbit-api/internal/api/http"
	"github.com/flowbit/flowbit-api/internal/api/http/handlers"
	"github.com/flowbit/flowbit-api/internal/auth"
	"github.com/flowbit/flowbit-api/internal/config"
	"github.com/flowbit/flowbit-api/internal/events"
	"github.com/flowbit/flowbit-api/internal/observability"
	"github.com/flowbit/flowbit-api/internal/persistence"
	"github.com/flowbit/flowbit-api/internal/registry"
	"github.com/flowbit/flowbit-api/internal/repository"
	"github.com/flowbit/flowbit-api/internal/service"
	"github.com/flowbit/flowbit-api/internal/workflow"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	screens, err := registry.Load(cfg.Registry.Path)
	if err != nil {
		logger.Fatal("failed to load screens registry", zap.Error(err))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg.Auth, userRepo)
	ticketService := service.NewTicketService(ticketRepo, dispatcher)
	reconcileService := service.NewReconcileService(ticketRepo, dispatcher, logger)

	trigger := workflow.NewTrigger(cfg.Workflow, cfg.Webhook.Secret, ticketRepo, logger)
	trigger.Subscribe(dispatcher)
	if cfg.Workflow.EngineURL == "" {
		logger.Warn("WORKFLOW_ENGINE_URL not set; ticket creation will not trigger workflows")
	}

	authMiddleware := auth.NewMiddleware(authService.TokenManager())

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:            handlers.NewAuthHandler(authService, screens),
		Tickets:         handlers.NewTicketsHandler(ticketService),
		Admin:           handlers.NewAdminHandler(ticketService),
		Webhook:         handlers.NewWebhookHandler(reconcileService),
		AuthMiddleware:  authMiddleware,
		WebhookSecret:   cfg.Webhook.Secret,
		AuthRateLimiter: httptransport.NewRateLimiter(cfg.Auth.RateLimitPerMinute),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
