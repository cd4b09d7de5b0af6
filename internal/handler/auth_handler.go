package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/rollcall-labs/rollcall-api/internal/dto"
	"github.com/rollcall-labs/rollcall-api/internal/security"
	"github.com/rollcall-labs/rollcall-api/internal/service"
	"github.com/rollcall-labs/rollcall-api/internal/utils"
)

// AuthHandler exposes registration and login endpoints.
type AuthHandler struct {
	service service.AuthService
	monitor *security.Monitor
	logger  zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service service.AuthService, monitor *security.Monitor, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		monitor: monitor,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register binds authentication routes under the provided router group.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/register", h.register)
	router.Post("/login", h.login)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.service.Register(requestContext(c), req)
	if err != nil {
		var validationErrs validator.ValidationErrors
		switch {
		case errors.As(err, &validationErrs):
			return utils.SendGuidance(c, fiber.StatusUnprocessableEntity, security.CategoryValidation)
		case errors.Is(err, service.ErrEmailTaken):
			return utils.SendError(c, fiber.StatusConflict, "email already registered")
		default:
			h.logger.Error().Err(err).Msg("registration failed")
			return utils.SendGuidance(c, fiber.StatusInternalServerError, security.CategorySystem)
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "account created", resp)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.service.Login(requestContext(c), req)
	if err != nil {
		var validationErrs validator.ValidationErrors
		switch {
		case errors.As(err, &validationErrs):
			return utils.SendGuidance(c, fiber.StatusUnprocessableEntity, security.CategoryValidation)
		case errors.Is(err, service.ErrInvalidCredentials):
			h.recordFailedLogin(c)
			return utils.SendGuidance(c, fiber.StatusUnauthorized, security.CategoryAuthentication)
		default:
			h.logger.Error().Err(err).Msg("login failed")
			return utils.SendGuidance(c, fiber.StatusInternalServerError, security.CategorySystem)
		}
	}

	return utils.SendSuccess(c, "login successful", resp)
}

func (h *AuthHandler) recordFailedLogin(c *fiber.Ctx) {
	event := security.NewEvent(security.EventUnauthorizedAccess, "login attempt with invalid credentials")
	event.IPAddress = c.IP()
	event.Endpoint = c.Path()
	event.Method = c.Method()
	h.monitor.Record(event)
}
