package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Auth           *handlers.AuthHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	tickets := app.Group("/ApiV1/tickets")
	tickets.Post("/", cfg.AuthMiddleware.HandleOptional, cfg.Tickets.CreateTicket)

	protected := tickets.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/", cfg.Tickets.ListTickets)
	protected.Get("/presets/counts", cfg.Tickets.PresetCounts)
	protected.Get("/:uid", cfg.Tickets.GetTicket)
	protected.Patch("/:uid", auth.RequirePermission(auth.PermissionTechnician), cfg.Tickets.UpdateTicket)
	protected.Get("/:uid/logs", cfg.Tickets.GetTicketLogs)
	protected.Get("/:uid/files/:filename", cfg.Tickets.DownloadTicketFile)
}
