package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/rollcall-labs/rollcall-api/internal/dto"
	"github.com/rollcall-labs/rollcall-api/internal/middleware"
	"github.com/rollcall-labs/rollcall-api/internal/service"
)

// FaceHandler bridges the face enrollment websocket channel to the
// recognition pipeline. Each inbound frame is one enrollment request; each
// outbound frame is its result.
type FaceHandler struct {
	service service.FaceService
	logger  zerolog.Logger
}

// NewFaceHandler creates a face handler instance.
func NewFaceHandler(service service.FaceService, logger zerolog.Logger) *FaceHandler {
	return &FaceHandler{
		service: service,
		logger:  logger.With().Str("component", "face_handler").Logger(),
	}
}

// Register binds the websocket upgrade route under the provided router group.
func (h *FaceHandler) Register(router fiber.Router) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			ctx := c.UserContext()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = middleware.ContextWithCorrelation(ctx, middleware.GetCorrelationID(c))
			c.Locals("request_ctx", ctx)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	router.Get("/ws", websocket.New(h.handleConnection))
}

func (h *FaceHandler) handleConnection(conn *websocket.Conn) {
	ctx, _ := conn.Locals("request_ctx").(context.Context)
	if ctx == nil {
		ctx = context.Background()
	}

	facultyID, _ := conn.Locals("faculty_id").(string)
	h.logger.Info().Str("faculty_id", facultyID).Msg("face enrollment websocket connected")

	for {
		var req dto.FaceEnrollRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn().Err(err).Msg("face enrollment websocket closed unexpectedly")
			}
			break
		}

		resp, err := h.service.Enroll(ctx, req)
		if err != nil {
			resp = dto.FaceEnrollResponse{
				Success:   false,
				StudentID: req.StudentID,
				Error:     enrollErrorMessage(err),
			}
		}

		if err := conn.WriteJSON(resp); err != nil {
			h.logger.Warn().Err(err).Msg("failed to write enrollment response")
			break
		}
	}

	_ = conn.Close()
	h.logger.Info().Str("faculty_id", facultyID).Msg("face enrollment websocket disconnected")
}

func enrollErrorMessage(err error) string {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		return "enrollment request failed validation"
	case errors.Is(err, service.ErrStudentNotFound):
		return "student not found"
	case errors.Is(err, service.ErrInvalidImage):
		return "image could not be decoded"
	default:
		return "enrollment failed, try again"
	}
}
