package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/rollcall-labs/rollcall-api/internal/security"
)

const testSecret = "unit-test-secret"

func protectedApp(buffer *security.RingBuffer) *fiber.App {
	monitor := security.NewMonitor(buffer, zerolog.New(io.Discard))

	app := fiber.New()
	app.Use(JWTProtected(testSecret, monitor))
	app.Get("/protected", func(c *fiber.Ctx) error {
		return c.SendString(FacultyID(c))
	})
	return app
}

func TestJWTProtectedAcceptsValidToken(t *testing.T) {
	app := protectedApp(security.NewRingBuffer(10))

	token, err := IssueToken(testSecret, "faculty-1", "faculty", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "faculty-1", string(body))
}

func TestJWTProtectedMissingHeader(t *testing.T) {
	buffer := security.NewRingBuffer(10)
	app := protectedApp(buffer)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	events := buffer.Snapshot()
	require.Len(t, events, 1)
	require.Equal(t, security.EventUnauthorizedAccess, events[0].Type)
	require.True(t, events[0].Blocked)
}

func TestJWTProtectedBadToken(t *testing.T) {
	buffer := security.NewRingBuffer(10)
	app := protectedApp(buffer)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	events := buffer.Snapshot()
	require.Len(t, events, 1)
	require.Equal(t, security.EventInvalidToken, events[0].Type)
}

func TestJWTProtectedWrongSigningKey(t *testing.T) {
	app := protectedApp(security.NewRingBuffer(10))

	token, err := IssueToken("a-different-secret", "faculty-1", "faculty", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestIssueTokenHonorsNonPositiveTTL(t *testing.T) {
	token, err := IssueToken(testSecret, "faculty-1", "faculty", -time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(testSecret, token)
	require.Error(t, err)
}

func TestJWTProtectedExpiredToken(t *testing.T) {
	app := protectedApp(security.NewRingBuffer(10))

	token, err := IssueToken(testSecret, "faculty-1", "faculty", -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
