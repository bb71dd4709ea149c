package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/courtline/courtline-api/internal/dto"
	"github.com/courtline/courtline-api/internal/middleware"
	"github.com/courtline/courtline-api/internal/service"
	"github.com/courtline/courtline-api/internal/utils"
)

// TemplateHandler handles report template administration.
type TemplateHandler struct {
	service service.TemplateService
	logger  zerolog.Logger
}

// NewTemplateHandler constructs the handler.
func NewTemplateHandler(service service.TemplateService, logger zerolog.Logger) *TemplateHandler {
	return &TemplateHandler{
		service: service,
		logger:  logger.With().Str("component", "template_handler").Logger(),
	}
}

// Register wires the template routes.
func (h *TemplateHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)

	admin := router.Group("", middleware.RequireAdmin())
	admin.Post("", h.create)
	admin.Put("/:id", h.update)
	admin.Delete("/:id", h.deactivate)
	admin.Post("/:id/groups", h.assignGroup)
	admin.Delete("/:id/groups/:groupId", h.unassignGroup)
}

// RegisterGroupTemplate wires the coach-facing lookup of a group's active
// template.
func (h *TemplateHandler) RegisterGroupTemplate(router fiber.Router) {
	router.Get("/:id/template", h.forGroup)
}

func (h *TemplateHandler) create(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req dto.TemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	template, err := h.service.Create(c.Context(), actor, req)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "template created", template)
}

func (h *TemplateHandler) get(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid template id")
	}

	template, err := h.service.Get(c.Context(), actor, id)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "template retrieved", template)
}

func (h *TemplateHandler) list(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	activeOnly := c.QueryBool("active", false)

	templates, err := h.service.List(c.Context(), actor, activeOnly)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "templates retrieved", templates)
}

func (h *TemplateHandler) update(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid template id")
	}

	var req dto.TemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	template, err := h.service.Update(c.Context(), actor, id, req)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "template updated", template)
}

func (h *TemplateHandler) deactivate(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid template id")
	}

	if err := h.service.Deactivate(c.Context(), actor, id); err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "template deactivated", nil)
}

func (h *TemplateHandler) assignGroup(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid template id")
	}

	var req dto.AssignGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	template, err := h.service.AssignGroup(c.Context(), actor, id, req.GroupID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "template assigned", template)
}

func (h *TemplateHandler) unassignGroup(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid template id")
	}

	groupID, err := parseUintParam(c, "groupId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid group id")
	}

	if err := h.service.UnassignGroup(c.Context(), actor, id, groupID); err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "template unassigned", nil)
}

func (h *TemplateHandler) forGroup(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	groupID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid group id")
	}

	template, err := h.service.ForGroup(c.Context(), actor, groupID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "template retrieved", template)
}
