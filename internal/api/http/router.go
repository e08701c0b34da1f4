package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/waterworks/water-service/internal/api/http/handlers"
	"github.com/waterworks/water-service/internal/auth"
	"github.com/waterworks/water-service/internal/domain"
	"github.com/waterworks/water-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Pages          *handlers.PagesHandler
	Accounts       *handlers.AccountsHandler
	Applications   *handlers.ApplicationsHandler
	Complaints     *handlers.ComplaintsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
	RateLimiter    *RateLimiter
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	app.Get("/", cfg.Pages.Page("home"))
	app.Get("/dashboard/", cfg.Pages.Page("dashboard"))

	app.Get("/signup/", cfg.Pages.Page("signup"))
	app.Post("/signup/", cfg.RateLimiter.Handle, cfg.Accounts.Signup)
	app.Get("/login/", cfg.Pages.Page("login"))
	app.Post("/login/", cfg.RateLimiter.Handle, cfg.Accounts.Login)

	app.Get("/applications/", cfg.Applications.ListApplications)
	app.Post("/applications/", cfg.Applications.CreateApplication)
	app.Get("/pending-applications/", cfg.Applications.CountByStatus(domain.ApplicationStatusPending, "pending_applications"))
	app.Get("/in-progress-applications/", cfg.Applications.CountByStatus(domain.ApplicationStatusInProgress, "in_progress_applications"))
	app.Get("/completed-applications/", cfg.Applications.CountByStatus(domain.ApplicationStatusCompleted, "completed_applications"))

	app.Get("/complaints/", cfg.Complaints.ListComplaints)
	app.Post("/complaints/", cfg.Complaints.CreateComplaint)

	adminGroup := app.Group("/admin")
	adminGroup.Post("/login", cfg.RateLimiter.Handle, cfg.Admin.Login)

	protected := adminGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	protected.Get("/users", cfg.Admin.ListUsers)
	protected.Get("/users/:id", cfg.Admin.GetUser)
	protected.Delete("/users/:id", cfg.Admin.DeleteUser)
	protected.Get("/applications", cfg.Admin.ListApplications)
	protected.Get("/applications/:id", cfg.Admin.GetApplication)
	protected.Patch("/applications/:id/status", cfg.Admin.UpdateApplicationStatus)
	protected.Delete("/applications/:id", cfg.Admin.DeleteApplication)
	protected.Get("/complaints", cfg.Admin.ListComplaints)
	protected.Get("/complaints/:id", cfg.Admin.GetComplaint)
	protected.Patch("/complaints/:id/response", cfg.Admin.RespondComplaint)
	protected.Delete("/complaints/:id", cfg.Admin.DeleteComplaint)
}
