package middleware

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/microcosm-cc/bluemonday"

	"github.com/rollcall-labs/rollcall-api/internal/security"
	"github.com/rollcall-labs/rollcall-api/internal/utils"
)

type threatPattern struct {
	pattern *regexp.Regexp
	label   string
	breach  bool
}

var threatPatterns = []threatPattern{
	{regexp.MustCompile(`(?i)\bunion\s+(all\s+)?select\b`), "sql injection", true},
	{regexp.MustCompile(`(?i)'\s*or\s+'[^']*'\s*=\s*'`), "sql injection", true},
	{regexp.MustCompile(`(?i);\s*(drop|delete|truncate|alter)\b`), "sql injection", true},
	{regexp.MustCompile(`(?i)<\s*script\b`), "script injection", false},
	{regexp.MustCompile(`(?i)javascript\s*:`), "script injection", false},
	{regexp.MustCompile(`(?i)\bon(error|load|click|mouseover)\s*=`), "script injection", false},
	{regexp.MustCompile(`\.\./|\.\.\\`), "path traversal", false},
	{regexp.MustCompile(`(?i)%2e%2e(%2f|%5c)`), "path traversal", false},
	{regexp.MustCompile(`(?i)\b(user(name)?|login|account)=(root|admin|administrator|sa|superuser)\b`), "privileged account probe", false},
}

var scriptStripper = bluemonday.StrictPolicy()

// SuspiciousRequestScan inspects the serialized request (body, query string,
// path and selected headers) for injection and traversal patterns before any
// business logic runs. A match blocks the request with 403 and records a
// security event.
func SuspiciousRequestScan(monitor *security.Monitor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		parts := []string{
			c.Path(),
			string(c.Request().URI().QueryString()),
			string(c.Body()),
			c.Get("User-Agent"),
			c.Get("Referer"),
		}

		// Percent-encoded payloads must not evade the signature list, so the
		// decoded form of each part is scanned alongside the raw bytes.
		for _, part := range parts[:3] {
			if decoded, err := url.QueryUnescape(part); err == nil && decoded != part {
				parts = append(parts, decoded)
			}
		}

		serialized := strings.Join(parts, "\n")

		if label, breach, hit := scan(serialized); hit {
			eventType := security.EventSuspiciousActivity
			if breach {
				eventType = security.EventDataBreachAttempt
			}

			event := security.NewEvent(eventType, fmt.Sprintf("request blocked: %s pattern detected", label))
			event.IPAddress = c.IP()
			event.Endpoint = c.Path()
			event.Method = c.Method()
			event.Blocked = true
			monitor.Record(event)

			return utils.SendGuidance(c, fiber.StatusForbidden, security.CategorySecurity)
		}

		return c.Next()
	}
}

func scan(serialized string) (string, bool, bool) {
	for _, threat := range threatPatterns {
		if threat.pattern.MatchString(serialized) {
			return threat.label, threat.breach, true
		}
	}

	// HTML that does not survive strict sanitization is treated as a script
	// injection attempt even when it evades the signature list.
	if strings.Contains(serialized, "<") && strings.Contains(serialized, ">") {
		stripped := scriptStripper.Sanitize(serialized)
		if strings.Contains(serialized, "<script") && stripped != serialized {
			return "script injection", false, true
		}
	}

	return "", false, false
}
