package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/rollcall-labs/rollcall-api/internal/security"
	"github.com/rollcall-labs/rollcall-api/internal/utils"
)

// IssueToken creates a signed HS256 token for the given faculty subject. The
// expiry always honors ttl; a non-positive ttl yields an already-expired token.
func IssueToken(secret, facultyID, role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  facultyID,
		"role": role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(ttl).Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// VerifyToken parses and validates a token string, returning its claims.
func VerifyToken(secret, tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

// JWTProtected returns a middleware that validates JWT bearer tokens and
// reports authentication failures to the security monitor.
func JWTProtected(secret string, monitor *security.Monitor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			recordAuthFailure(c, monitor, security.EventUnauthorizedAccess, "authorization header missing")
			return utils.SendGuidance(c, fiber.StatusUnauthorized, security.CategoryAuthentication)
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			recordAuthFailure(c, monitor, security.EventInvalidToken, "malformed authorization header")
			return utils.SendGuidance(c, fiber.StatusUnauthorized, security.CategoryAuthentication)
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		claims, err := VerifyToken(secret, tokenString)
		if err != nil {
			recordAuthFailure(c, monitor, security.EventInvalidToken, "token verification failed")
			return utils.SendGuidance(c, fiber.StatusUnauthorized, security.CategoryAuthentication)
		}

		if facultyID := stringClaim(claims, "sub"); facultyID != "" {
			c.Locals("faculty_id", facultyID)
		}
		if role := stringClaim(claims, "role"); role != "" {
			c.Locals("user_role", strings.ToLower(role))
		}

		return c.Next()
	}
}

// FacultyID returns the authenticated faculty identifier bound to the request.
func FacultyID(c *fiber.Ctx) string {
	if id, ok := c.Locals("faculty_id").(string); ok {
		return id
	}
	return ""
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if value, ok := claims[key]; ok {
		if s, ok := value.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func recordAuthFailure(c *fiber.Ctx, monitor *security.Monitor, eventType security.EventType, details string) {
	event := security.NewEvent(eventType, details)
	event.IPAddress = c.IP()
	event.Endpoint = c.Path()
	event.Method = c.Method()
	event.Blocked = true
	monitor.Record(event)
}
