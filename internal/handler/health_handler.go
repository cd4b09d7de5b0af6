package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rollcall-labs/rollcall-api/internal/config"
	"github.com/rollcall-labs/rollcall-api/internal/database"
	"github.com/rollcall-labs/rollcall-api/internal/utils"
)

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string                `json:"status"`
	Timestamp   time.Time             `json:"timestamp"`
	Service     string                `json:"service"`
	Environment string                `json:"environment"`
	Database    database.HealthReport `json:"database"`
}

// HealthCheck returns a handler that reports application and database health.
func HealthCheck(cfg config.Config, executor *database.Executor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbReport := executor.Health(requestContext(c))

		payload := HealthResponse{
			Status:      dbReport.Status,
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			Database:    dbReport,
		}

		if dbReport.Status == "unhealthy" {
			return c.Status(fiber.StatusServiceUnavailable).JSON(utils.APIResponse{
				Success: false,
				Data:    payload,
				Message: "service degraded",
			})
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
