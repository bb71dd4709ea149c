package handler

import (
	"encoding/csv"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/courtline/courtline-api/internal/dto"
	"github.com/courtline/courtline-api/internal/middleware"
	"github.com/courtline/courtline-api/internal/service"
	"github.com/courtline/courtline-api/internal/utils"
)

// ProgrammeHandler handles teaching periods, groups and enrollments.
type ProgrammeHandler struct {
	service service.ProgrammeService
	logger  zerolog.Logger
}

// NewProgrammeHandler constructs the handler.
func NewProgrammeHandler(service service.ProgrammeService, logger zerolog.Logger) *ProgrammeHandler {
	return &ProgrammeHandler{
		service: service,
		logger:  logger.With().Str("component", "programme_handler").Logger(),
	}
}

// RegisterPeriods wires teaching period routes.
func (h *ProgrammeHandler) RegisterPeriods(router fiber.Router) {
	router.Get("", h.listPeriods)
	router.Get("/:id/players", h.listPlayers)

	admin := router.Group("", middleware.RequireAdmin())
	admin.Post("", h.createPeriod)
	admin.Put("/:id", h.updatePeriod)
	admin.Delete("/:id", h.deletePeriod)
	admin.Post("/:id/players/upload", h.bulkEnroll)
}

// RegisterGroups wires group routes.
func (h *ProgrammeHandler) RegisterGroups(router fiber.Router) {
	router.Get("", h.listGroups)

	admin := router.Group("", middleware.RequireAdmin())
	admin.Post("", h.createGroup)
	admin.Delete("/:id", h.deleteGroup)
}

// RegisterPlayers wires enrollment routes.
func (h *ProgrammeHandler) RegisterPlayers(router fiber.Router) {
	router.Post("", h.enrollPlayer)
	router.Delete("/:id", h.removePlayer)
}

func (h *ProgrammeHandler) createPeriod(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req dto.CreatePeriodRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	period, err := h.service.CreatePeriod(c.Context(), actor, req)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "teaching period created", period)
}

func (h *ProgrammeHandler) updatePeriod(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid period id")
	}

	var req dto.UpdatePeriodRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	period, err := h.service.UpdatePeriod(c.Context(), actor, id, req)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "teaching period updated", period)
}

func (h *ProgrammeHandler) deletePeriod(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid period id")
	}

	if err := h.service.DeletePeriod(c.Context(), actor, id); err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "teaching period deleted", nil)
}

func (h *ProgrammeHandler) listPeriods(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	periods, err := h.service.ListPeriods(c.Context(), actor)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "teaching periods retrieved", periods)
}

func (h *ProgrammeHandler) createGroup(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req dto.CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	group, err := h.service.CreateGroup(c.Context(), actor, req)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "group created", group)
}

func (h *ProgrammeHandler) deleteGroup(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid group id")
	}

	if err := h.service.DeleteGroup(c.Context(), actor, id); err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "group deleted", nil)
}

func (h *ProgrammeHandler) listGroups(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	groups, err := h.service.ListGroups(c.Context(), actor)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "groups retrieved", groups)
}

func (h *ProgrammeHandler) enrollPlayer(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req dto.EnrollPlayerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	player, err := h.service.EnrollPlayer(c.Context(), actor, req)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "player enrolled", player)
}

func (h *ProgrammeHandler) removePlayer(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid player id")
	}

	if err := h.service.RemovePlayer(c.Context(), actor, id); err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "player removed", nil)
}

func (h *ProgrammeHandler) listPlayers(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	periodID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid period id")
	}

	groupID, err := parseOptionalUintQuery(c, "group_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid group id")
	}

	players, err := h.service.ListPlayers(c.Context(), actor, periodID, groupID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "players retrieved", players)
}

func (h *ProgrammeHandler) bulkEnroll(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	periodID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid period id")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "missing upload file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "unreadable upload file")
	}
	defer file.Close()

	detected, err := mimetype.DetectReader(file)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "unreadable upload file")
	}
	if !detected.Is("text/csv") && !detected.Is("text/plain") {
		return utils.SendError(c, fiber.StatusUnsupportedMediaType, "upload must be a CSV file")
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "unreadable upload file")
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "malformed CSV file")
	}

	result, err := h.service.BulkEnroll(c.Context(), actor, periodID, rows)
	if err != nil {
		return sendServiceError(c, err)
	}

	if len(result.Errors) > 0 {
		return utils.SendErrorWithDetails(c, fiber.StatusUnprocessableEntity, "upload rejected", result)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "players enrolled", result)
}
