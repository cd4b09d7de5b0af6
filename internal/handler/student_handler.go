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

// StudentHandler exposes student management endpoints.
type StudentHandler struct {
	service service.StudentService
	logger  zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(service service.StudentService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		logger:  logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register binds student routes under the provided router group.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Delete("/:id", h.delete)
}

func (h *StudentHandler) create(c *fiber.Ctx) error {
	var req dto.StudentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	student, err := h.service.Create(requestContext(c), req)
	if err != nil {
		return h.translate(c, err, "failed to create student")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student created", student)
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	sectionID := c.Query("sectionId")
	if sectionID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "sectionId required")
	}

	students, err := h.service.ListBySection(requestContext(c), sectionID)
	if err != nil {
		return h.translate(c, err, "failed to list students")
	}

	return utils.SendSuccess(c, "students retrieved", students)
}

func (h *StudentHandler) get(c *fiber.Ctx) error {
	student, err := h.service.Get(requestContext(c), c.Params("id"))
	if err != nil {
		return h.translate(c, err, "failed to load student")
	}

	return utils.SendSuccess(c, "student retrieved", student)
}

func (h *StudentHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(requestContext(c), c.Params("id")); err != nil {
		return h.translate(c, err, "failed to delete student")
	}

	return utils.SendSuccess(c, "student deleted", nil)
}

func (h *StudentHandler) translate(c *fiber.Ctx, err error, logMessage string) error {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		return utils.SendGuidance(c, fiber.StatusUnprocessableEntity, security.CategoryValidation)
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	case errors.Is(err, service.ErrSectionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "section not found")
	default:
		h.logger.Error().Err(err).Msg(logMessage)
		return utils.SendGuidance(c, fiber.StatusInternalServerError, security.CategoryDatabase)
	}
}
