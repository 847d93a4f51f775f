package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/helpdesk-kit/helpdesk-service/internal/auth"
	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Categories     *handlers.CategoriesHandler
	Profiles       *handlers.ProfilesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	adminOnly := auth.RequireRole(domain.RoleAdmin)

	users := app.Group("/users", cfg.AuthMiddleware.Handle, adminOnly)
	users.Post("", cfg.Users.CreateUser)
	users.Get("", cfg.Users.ListUsers)
	users.Get("/:id", cfg.Users.GetUser)
	users.Patch("/:id", cfg.Users.UpdateUser)
	users.Delete("/:id", cfg.Users.DeleteUser)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("", auth.RequireRole(domain.RoleClient), cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/client/:userId", adminOnly, cfg.Tickets.ListByClient)
	tickets.Get("/technician/:userId", adminOnly, cfg.Tickets.ListByTechnician)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id/assign", adminOnly, cfg.Tickets.AssignTicket)
	tickets.Patch("/:id/status", auth.RequireRole(domain.RoleAdmin, domain.RoleTechnician), cfg.Tickets.UpdateStatus)

	categories := app.Group("/categories", cfg.AuthMiddleware.Handle)
	categories.Get("", cfg.Categories.ListCategories)
	categories.Get("/:id", cfg.Categories.GetCategory)
	categories.Post("", adminOnly, cfg.Categories.CreateCategory)
	categories.Patch("/:id", adminOnly, cfg.Categories.UpdateCategory)
	categories.Delete("/:id", adminOnly, cfg.Categories.DeleteCategory)

	clients := app.Group("/clients", cfg.AuthMiddleware.Handle, adminOnly)
	clients.Post("", cfg.Profiles.CreateClient)
	clients.Get("", cfg.Profiles.ListClients)
	clients.Get("/:userId", cfg.Profiles.GetClient)

	technicians := app.Group("/technicians", cfg.AuthMiddleware.Handle, adminOnly)
	technicians.Post("", cfg.Profiles.CreateTechnician)
	technicians.Get("", cfg.Profiles.ListTechnicians)
	technicians.Get("/:userId", cfg.Profiles.GetTechnician)
}
