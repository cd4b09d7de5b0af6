package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rollcall-labs/rollcall-api/internal/config"
	"github.com/rollcall-labs/rollcall-api/internal/database"
	"github.com/rollcall-labs/rollcall-api/internal/handler"
	"github.com/rollcall-labs/rollcall-api/internal/middleware"
	"github.com/rollcall-labs/rollcall-api/internal/observability"
	"github.com/rollcall-labs/rollcall-api/internal/security"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	Executor          *database.Executor
	AuthHandler       *handler.AuthHandler
	AttendanceHandler *handler.AttendanceHandler
	SectionHandler    *handler.SectionHandler
	StudentHandler    *handler.StudentHandler
	FaceHandler       *handler.FaceHandler
	Monitor           *security.Monitor
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})

	if deps.Executor != nil {
		api.Get("/health", handler.HealthCheck(cfg, deps.Executor))
	}

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api.Group("/auth"))
	}

	// Everything below requires an authenticated faculty session.
	protected := api.Group("", middleware.JWTProtected(cfg.JWTSecret, deps.Monitor))

	if deps.AttendanceHandler != nil {
		deps.AttendanceHandler.Register(protected.Group("/attendance"))
	}
	if deps.SectionHandler != nil {
		deps.SectionHandler.Register(protected.Group("/sections"))
	}
	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(protected.Group("/students"))
	}
	if deps.FaceHandler != nil {
		deps.FaceHandler.Register(protected.Group("/face", middleware.RequireRole("faculty", "admin")))
	}
}
