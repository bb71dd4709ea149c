package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/courtline/courtline-api/internal/dto"
	"github.com/courtline/courtline-api/internal/middleware"
	"github.com/courtline/courtline-api/internal/service"
	"github.com/courtline/courtline-api/internal/utils"
)

// CoachHandler handles coach listing, accreditation details and invitations.
type CoachHandler struct {
	coaches     service.CoachService
	invitations service.InvitationService
	logger      zerolog.Logger
}

// NewCoachHandler constructs the handler.
func NewCoachHandler(coaches service.CoachService, invitations service.InvitationService, logger zerolog.Logger) *CoachHandler {
	return &CoachHandler{
		coaches:     coaches,
		invitations: invitations,
		logger:      logger.With().Str("component", "coach_handler").Logger(),
	}
}

// RegisterPublic wires the invitation acceptance route, reachable before
// the invitee has any credentials.
func (h *CoachHandler) RegisterPublic(router fiber.Router) {
	router.Post("/invitations/accept", h.acceptInvitation)
}

// Register wires the authenticated coach routes.
func (h *CoachHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id/details", h.getDetails)
	router.Put("/:id/details", h.saveDetails)

	admin := router.Group("", middleware.RequireAdmin())
	admin.Post("/invitations", h.invite)
	admin.Get("/accreditations", h.accreditations)
	admin.Get("/accreditations/at-risk", h.atRisk)
}

func (h *CoachHandler) list(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	coaches, err := h.coaches.List(c.Context(), actor)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "coaches retrieved", coaches)
}

func (h *CoachHandler) getDetails(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	coachID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid coach id")
	}

	details, err := h.coaches.GetDetails(c.Context(), actor, coachID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "coach details retrieved", details)
}

func (h *CoachHandler) saveDetails(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	coachID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid coach id")
	}

	var req dto.CoachDetailsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	details, err := h.coaches.SaveDetails(c.Context(), actor, coachID, req)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "coach details saved", details)
}

func (h *CoachHandler) invite(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req dto.InviteCoachRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	invitation, err := h.invitations.Invite(c.Context(), actor, req)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "invitation issued", invitation)
}

func (h *CoachHandler) acceptInvitation(c *fiber.Ctx) error {
	var req dto.AcceptInvitationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.invitations.Accept(c.Context(), req)
	if err != nil {
		h.logger.Warn().Err(err).Msg("invitation acceptance failed")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "invitation accepted", user)
}

func (h *CoachHandler) accreditations(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	result, err := h.coaches.Accreditations(c.Context(), actor)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "accreditations retrieved", result)
}

func (h *CoachHandler) atRisk(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	result, err := h.coaches.AtRisk(c.Context(), actor)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "at-risk coaches retrieved", result)
}
