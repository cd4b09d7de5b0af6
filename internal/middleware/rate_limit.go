package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/rollcall-labs/rollcall-api/internal/security"
	"github.com/rollcall-labs/rollcall-api/internal/utils"
)

// RateLimit creates a fixed-window per-IP rate limiter. Limit headers are
// attached to every response; breaching the ceiling records a security event
// and returns 429.
func RateLimit(max int, window time.Duration, monitor *security.Monitor) fiber.Handler {
	if max <= 0 {
		max = 100
	}
	if window <= 0 {
		window = time.Minute
	}

	return limiter.New(limiter.Config{
		Max:                    max,
		Expiration:             window,
		LimiterMiddleware:      limiter.FixedWindow{},
		SkipSuccessfulRequests: false,
		KeyGenerator: func(c *fiber.Ctx) string {
			return fmt.Sprintf("ip:%s", c.IP())
		},
		LimitReached: func(c *fiber.Ctx) error {
			// The limiter only decorates passing responses; blocked ones
			// carry the limit headers too.
			c.Set("X-RateLimit-Limit", strconv.Itoa(max))
			c.Set("X-RateLimit-Remaining", "0")
			c.Set("X-RateLimit-Reset", strconv.Itoa(int(window.Seconds())))

			event := security.NewEvent(security.EventRateLimitExceeded, "rate limit ceiling exceeded")
			event.IPAddress = c.IP()
			event.Endpoint = c.Path()
			event.Method = c.Method()
			event.Blocked = true
			monitor.Record(event)

			return utils.SendGuidance(c, fiber.StatusTooManyRequests, security.CategorySecurity)
		},
	})
}
