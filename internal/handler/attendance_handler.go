package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/rollcall-labs/rollcall-api/internal/dto"
	"github.com/rollcall-labs/rollcall-api/internal/middleware"
	"github.com/rollcall-labs/rollcall-api/internal/security"
	"github.com/rollcall-labs/rollcall-api/internal/service"
	"github.com/rollcall-labs/rollcall-api/internal/utils"
)

// AttendanceHandler exposes attendance sync and reporting endpoints.
type AttendanceHandler struct {
	service service.AttendanceService
	logger  zerolog.Logger
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(service service.AttendanceService, logger zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		service: service,
		logger:  logger.With().Str("component", "attendance_handler").Logger(),
	}
}

// Register binds attendance routes under the provided router group.
func (h *AttendanceHandler) Register(router fiber.Router) {
	router.Post("/sync", h.sync)
	router.Get("/history/:studentId", h.history)
	router.Get("/statistics", h.statistics)
	router.Get("/summary", h.summary)
}

func (h *AttendanceHandler) sync(c *fiber.Ctx) error {
	var req dto.SyncRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.Records) == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "records required")
	}

	result := h.service.SyncRecords(requestContext(c), req.Records)

	status := fiber.StatusOK
	if !result.Success {
		status = fiber.StatusMultiStatus
	}

	return utils.SendSuccessWithStatus(c, status, "sync completed", result)
}

func (h *AttendanceHandler) history(c *fiber.Ctx) error {
	studentID := c.Params("studentId")
	if studentID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "student id required")
	}

	rows, err := h.service.History(requestContext(c), studentID)
	if err != nil {
		if errors.Is(err, service.ErrHistoryUnavailable) {
			return utils.SendGuidance(c, fiber.StatusInternalServerError, security.CategoryDatabase)
		}
		h.logger.Error().Err(err).Msg("failed to load attendance history")
		return utils.SendGuidance(c, fiber.StatusInternalServerError, security.CategorySystem)
	}

	return utils.SendSuccess(c, "attendance history", rows)
}

func (h *AttendanceHandler) statistics(c *fiber.Ctx) error {
	sectionID, start, end, err := reportingParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	stats, err := h.service.Statistics(requestContext(c), sectionID, start, end)
	if err != nil {
		h.logger.Error().Err(err).Str("section_id", sectionID).Msg("failed to compute statistics")
		return utils.SendGuidance(c, fiber.StatusInternalServerError, security.CategoryDatabase)
	}

	return utils.SendSuccess(c, "attendance statistics", stats)
}

func (h *AttendanceHandler) summary(c *fiber.Ctx) error {
	sectionID, start, end, err := reportingParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	summary, err := h.service.Summary(requestContext(c), sectionID, start, end)
	if err != nil {
		h.logger.Error().Err(err).Str("section_id", sectionID).Msg("failed to compute summary")
		return utils.SendGuidance(c, fiber.StatusInternalServerError, security.CategoryDatabase)
	}

	return utils.SendSuccess(c, "attendance summary", summary)
}

func reportingParams(c *fiber.Ctx) (sectionID string, start, end time.Time, err error) {
	sectionID = c.Query("sectionId")
	if sectionID == "" {
		return "", time.Time{}, time.Time{}, errors.New("sectionId required")
	}

	start, err = parseDateQuery(c, "startDate")
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	end, err = parseDateQuery(c, "endDate")
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return "", time.Time{}, time.Time{}, errors.New("endDate must not be before startDate")
	}

	return sectionID, start, end, nil
}

func parseDateQuery(c *fiber.Ctx, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, errors.New(name + " required")
	}

	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, errors.New("invalid " + name + ", expected YYYY-MM-DD")
	}

	return parsed, nil
}

func requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	return middleware.ContextWithCorrelation(ctx, middleware.GetCorrelationID(c))
}
