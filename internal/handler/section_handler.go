package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/rollcall-labs/rollcall-api/internal/dto"
	"github.com/rollcall-labs/rollcall-api/internal/middleware"
	"github.com/rollcall-labs/rollcall-api/internal/security"
	"github.com/rollcall-labs/rollcall-api/internal/service"
	"github.com/rollcall-labs/rollcall-api/internal/utils"
)

// SectionHandler exposes section management endpoints.
type SectionHandler struct {
	service service.SectionService
	logger  zerolog.Logger
}

// NewSectionHandler constructs the handler.
func NewSectionHandler(service service.SectionService, logger zerolog.Logger) *SectionHandler {
	return &SectionHandler{
		service: service,
		logger:  logger.With().Str("component", "section_handler").Logger(),
	}
}

// Register binds section routes under the provided router group.
func (h *SectionHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *SectionHandler) create(c *fiber.Ctx) error {
	var req dto.SectionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	section, err := h.service.Create(requestContext(c), middleware.FacultyID(c), req)
	if err != nil {
		return h.translate(c, err, "failed to create section")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "section created", section)
}

func (h *SectionHandler) list(c *fiber.Ctx) error {
	sections, err := h.service.List(requestContext(c), middleware.FacultyID(c))
	if err != nil {
		return h.translate(c, err, "failed to list sections")
	}

	return utils.SendSuccess(c, "sections retrieved", sections)
}

func (h *SectionHandler) get(c *fiber.Ctx) error {
	section, err := h.service.Get(requestContext(c), c.Params("id"))
	if err != nil {
		return h.translate(c, err, "failed to load section")
	}

	return utils.SendSuccess(c, "section retrieved", section)
}

func (h *SectionHandler) update(c *fiber.Ctx) error {
	var req dto.SectionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	section, err := h.service.Update(requestContext(c), c.Params("id"), req)
	if err != nil {
		return h.translate(c, err, "failed to update section")
	}

	return utils.SendSuccess(c, "section updated", section)
}

func (h *SectionHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(requestContext(c), c.Params("id")); err != nil {
		return h.translate(c, err, "failed to delete section")
	}

	return utils.SendSuccess(c, "section deleted", nil)
}

func (h *SectionHandler) translate(c *fiber.Ctx, err error, logMessage string) error {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		return utils.SendGuidance(c, fiber.StatusUnprocessableEntity, security.CategoryValidation)
	case errors.Is(err, service.ErrSectionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "section not found")
	default:
		h.logger.Error().Err(err).Msg(logMessage)
		return utils.SendGuidance(c, fiber.StatusInternalServerError, security.CategoryDatabase)
	}
}
