package middleware

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/rollcall-labs/rollcall-api/internal/security"
)

// Config customises the middleware registration pipeline.
type Config struct {
	Logger          *zerolog.Logger
	Monitor         *security.Monitor
	RateLimitMax    int
	RateLimitWindow time.Duration
}

// Register attaches the common middlewares used across the API. The
// suspicious-request scan and rate limiter run before any business handler.
func Register(app *fiber.App, cfg Config) {
	requestLogger := zerolog.New(io.Discard)
	if cfg.Logger != nil {
		requestLogger = *cfg.Logger
	}

	monitor := cfg.Monitor
	if monitor == nil {
		monitor = security.NewMonitor(security.NewRingBuffer(1000), requestLogger)
	}

	app.Use(recover.New())
	app.Use(CorrelationID())
	app.Use(Observability(requestLogger))
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
	app.Use(RateLimit(cfg.RateLimitMax, cfg.RateLimitWindow, monitor))
	app.Use(SuspiciousRequestScan(monitor))
}
