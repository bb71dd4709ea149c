package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/courtline/courtline-api/internal/config"
	"github.com/courtline/courtline-api/internal/handler"
	"github.com/courtline/courtline-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	HealthHandler    *handler.HealthHandler
	ClubHandler      *handler.ClubHandler
	CoachHandler     *handler.CoachHandler
	ProgrammeHandler *handler.ProgrammeHandler
	TemplateHandler  *handler.TemplateHandler
	ReportHandler    *handler.ReportHandler
	DashboardHandler *handler.DashboardHandler
	JWTMiddleware    fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})

	if deps.HealthHandler != nil {
		deps.HealthHandler.Register(api)
	}

	// Public surface: onboarding a new club and redeeming a coach
	// invitation both happen before the caller has credentials.
	if deps.ClubHandler != nil {
		deps.ClubHandler.RegisterPublic(api.Group("/clubs"))
	}
	if deps.CoachHandler != nil {
		deps.CoachHandler.RegisterPublic(api.Group("/coaches"))
	}

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	authenticated := api.Group("", jwtMiddleware)

	if deps.ClubHandler != nil {
		deps.ClubHandler.Register(authenticated.Group("/clubs"))
	}
	if deps.CoachHandler != nil {
		deps.CoachHandler.Register(authenticated.Group("/coaches"))
	}
	if deps.ProgrammeHandler != nil {
		deps.ProgrammeHandler.RegisterPeriods(authenticated.Group("/periods"))
		deps.ProgrammeHandler.RegisterGroups(authenticated.Group("/groups"))
		deps.ProgrammeHandler.RegisterPlayers(authenticated.Group("/players"))
	}
	if deps.TemplateHandler != nil {
		deps.TemplateHandler.Register(authenticated.Group("/templates"))
		deps.TemplateHandler.RegisterGroupTemplate(authenticated.Group("/groups"))
	}
	if deps.ReportHandler != nil {
		deps.ReportHandler.Register(authenticated.Group("/reports"))
		deps.ReportHandler.RegisterPlayerReports(authenticated.Group("/players"))
		deps.ReportHandler.RegisterPeriodReports(authenticated.Group("/periods"))
	}
	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(authenticated.Group("/dashboard"))
	}
}
