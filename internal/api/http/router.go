package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civic-kit/complaint-service/internal/api/http/handlers"
	"github.com/civic-kit/complaint-service/internal/auth"
	"github.com/civic-kit/complaint-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Complaints     *handlers.ComplaintsHandler
	Tasks          *handlers.TasksHandler
	Admin          *handlers.AdminHandler
	Trees          *handlers.TreesHandler
	Events         *handlers.EventsHandler
	Notifications  *handlers.NotificationsHandler
	Messages       *handlers.MessagesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/confirm", cfg.Auth.ConfirmEmail)
	authGroup.Post("/confirm/resend", cfg.Auth.ResendConfirmation)

	account := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	account.Post("/logout", cfg.Auth.Logout)
	account.Get("/me", cfg.Auth.Me)
	account.Patch("/me", cfg.Auth.UpdateProfile)

	complaints := app.Group("/complaints", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleCitizen))
	complaints.Post("", cfg.Complaints.Create)
	complaints.Get("", cfg.Complaints.ListMine)
	complaints.Get("/:id", cfg.Complaints.Get)
	complaints.Get("/:id/history", cfg.Complaints.History)

	tasks := app.Group("/tasks", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleEmployee))
	tasks.Get("", cfg.Tasks.ListAssigned)
	tasks.Patch("/:id/status", cfg.Tasks.UpdateStatus)
	tasks.Get("/schedules", cfg.Tasks.ListSchedules)
	tasks.Post("/schedules/:id/complete", cfg.Tasks.CompleteSchedule)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Get("/complaints", cfg.Admin.ListComplaints)
	admin.Post("/complaints/:id/assign", cfg.Admin.Assign)
	admin.Patch("/complaints/:id/status", cfg.Admin.UpdateComplaintStatus)
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Patch("/users/:id/status", cfg.Admin.SetUserStatus)
	admin.Post("/events", cfg.Admin.CreateEvent)
	admin.Patch("/events/:id/status", cfg.Admin.UpdateEventStatus)
	admin.Post("/schedules", cfg.Admin.CreateSchedule)
	admin.Get("/schedules", cfg.Admin.ListSchedules)

	trees := app.Group("/trees", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleCitizen))
	trees.Post("", cfg.Trees.Create)
	trees.Get("", cfg.Trees.ListMine)
	trees.Get("/:id", cfg.Trees.Get)
	trees.Patch("/:id/watering-config", cfg.Trees.UpdateWateringConfig)
	trees.Post("/:id/waterings", cfg.Trees.AddWatering)

	events := app.Group("/events", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	events.Get("", cfg.Events.List)

	notifications := app.Group("/notifications", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	notifications.Get("", cfg.Notifications.List)
	notifications.Post("/:id/read", cfg.Notifications.MarkRead)
	notifications.Delete("", cfg.Notifications.Clear)

	messages := app.Group("/messages", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	messages.Post("", cfg.Messages.Send)
	messages.Get("", cfg.Messages.ListMine)
	messages.Get("/with/:userId", cfg.Messages.Conversation)
	messages.Post("/:id/read", cfg.Messages.MarkRead)
}
