package utils_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/rollcall-labs/rollcall-api/internal/security"
	"github.com/rollcall-labs/rollcall-api/internal/utils"
)

func performRequest(t *testing.T, handler fiber.Handler) (*http.Response, utils.APIResponse) {
	t.Helper()

	app := fiber.New()
	app.Get("/probe", handler)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/probe", nil))
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload utils.APIResponse
	require.NoError(t, json.Unmarshal(body, &payload))
	return resp, payload
}

func TestSendSuccessDefaultsMessage(t *testing.T) {
	resp, payload := performRequest(t, func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, "", fiber.Map{"ok": true})
	})

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.True(t, payload.Success)
	require.Equal(t, "success", payload.Message)
}

func TestSendErrorStatus(t *testing.T) {
	resp, payload := performRequest(t, func(c *fiber.Ctx) error {
		return utils.SendError(c, fiber.StatusNotFound, "missing")
	})

	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	require.False(t, payload.Success)
	require.Equal(t, "missing", payload.Message)
}

func TestSendGuidanceIncludesRecoveryHints(t *testing.T) {
	resp, payload := performRequest(t, func(c *fiber.Ctx) error {
		return utils.SendGuidance(c, fiber.StatusInternalServerError, security.CategoryDatabase)
	})

	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	require.False(t, payload.Success)
	require.Equal(t, "DATABASE", payload.Category)
	require.NotNil(t, payload.Recoverable)
	require.True(t, *payload.Recoverable)
	require.NotEmpty(t, payload.Suggestions)
}

func TestSendGuidanceForbiddenNotRecoverable(t *testing.T) {
	_, payload := performRequest(t, func(c *fiber.Ctx) error {
		return utils.SendGuidance(c, fiber.StatusForbidden, security.CategorySecurity)
	})

	require.NotNil(t, payload.Recoverable)
	require.False(t, *payload.Recoverable)
}
