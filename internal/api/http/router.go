package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/flowbit/flowbit-api/internal/api/http/handlers"
	"github.com/flowbit/flowbit-api/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Auth            *handlers.AuthHandler
	Tickets         *handlers.TicketsHandler
	Admin           *handlers.AdminHandler
	Webhook         *handlers.WebhookHandler
	AuthMiddleware  *auth.Middleware
	WebhookSecret   string
	AuthRateLimiter *RateLimiter
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth", cfg.AuthRateLimiter.Handle())
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	me := authGroup.Group("/me", cfg.AuthMiddleware.Handle)
	me.Get("", cfg.Auth.Me)
	me.Get("/screens", cfg.Auth.Screens)

	tickets := app.Group("/api/tickets", cfg.AuthMiddleware.Handle)
	tickets.Get("", cfg.Tickets.List)
	tickets.Post("", cfg.Tickets.Create)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Put("/:id", auth.RequireAdmin(), cfg.Tickets.Update)
	tickets.Delete("/:id", auth.RequireAdmin(), cfg.Tickets.Delete)

	app.Get("/admin/stats", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Admin.Stats)

	webhook := app.Group("/webhook")
	webhook.Get("/health", cfg.Webhook.Health)
	webhook.Post("/ticket-done", auth.RequireWebhookSecret(cfg.WebhookSecret), cfg.Webhook.TicketDone)
}
