package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pegasus-hq/support-core/internal/api/http/handlers"
	"github.com/pegasus-hq/support-core/internal/auth"
)

// RouteConfig bundles everything route registration needs.
type RouteConfig struct {
	Auth          *handlers.AuthHandler
	Health        *handlers.HealthHandler
	Tickets       *handlers.TicketsHandler
	Users         *handlers.UsersHandler
	Tokens        *handlers.TokensHandler
	Notifications *handlers.NotificationsHandler
	Templates     *handlers.TemplatesHandler
	AuthMW        *auth.AuthMiddleware
}

// RegisterRoutes mounts all endpoints on the app.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	api := app.Group("/api/v1", cfg.AuthMW.Handle, auth.RequireAuthenticated())

	api.Get("/metrics", auth.RequireAdmin(), cfg.Health.Metrics)

	tickets := api.Group("/tickets")
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/", cfg.Tickets.List)
	tickets.Get("/stats", cfg.Tickets.Stats)
	tickets.Get("/:ref", cfg.Tickets.Get)
	tickets.Patch("/:ref", auth.RequireAdmin(), cfg.Tickets.Update)
	tickets.Delete("/:ref", auth.RequireAdmin(), cfg.Tickets.Delete)
	tickets.Get("/:ref/messages", cfg.Tickets.Messages)
	tickets.Post("/:ref/messages", cfg.Tickets.AddMessage)
	tickets.Post("/:ref/assign", auth.RequireAdmin(), cfg.Tickets.Assign)
	tickets.Post("/:ref/unassign", auth.RequireAdmin(), cfg.Tickets.Unassign)
	tickets.Post("/:ref/escalate", auth.RequireAdmin(), cfg.Tickets.Escalate)
	tickets.Post("/:ref/view", cfg.Tickets.View)
	tickets.Post("/:ref/satisfaction", cfg.Tickets.Rate)

	users := api.Group("/users")
	users.Post("/manage", auth.RequireAdmin(), cfg.Users.Manage)
	users.Get("/tokens", cfg.Tokens.Info)
	users.Post("/tokens", auth.RequireAdmin(), cfg.Tokens.Administer)
	users.Patch("/tokens", cfg.Tokens.Increment)

	notifications := api.Group("/notifications")
	notifications.Get("/", cfg.Notifications.List)
	notifications.Post("/:id/read", cfg.Notifications.MarkRead)

	templates := api.Group("/templates", auth.RequireAdmin())
	templates.Get("/", cfg.Templates.ListTemplates)
	templates.Post("/", cfg.Templates.CreateTemplate)
	templates.Post("/:id/use", cfg.Templates.UseTemplate)

	automations := api.Group("/automations", auth.RequireAdmin())
	automations.Get("/", cfg.Templates.ListAutomations)
	automations.Post("/", cfg.Templates.CreateAutomation)
	automations.Post("/:id/trigger", cfg.Templates.TriggerAutomation)
}
