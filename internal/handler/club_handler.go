package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/courtline/courtline-api/internal/dto"
	"github.com/courtline/courtline-api/internal/service"
	"github.com/courtline/courtline-api/internal/utils"
)

// ClubHandler handles tenant onboarding and lookup endpoints.
type ClubHandler struct {
	service service.ClubService
	logger  zerolog.Logger
}

// NewClubHandler constructs the handler.
func NewClubHandler(service service.ClubService, logger zerolog.Logger) *ClubHandler {
	return &ClubHandler{
		service: service,
		logger:  logger.With().Str("component", "club_handler").Logger(),
	}
}

// RegisterPublic wires the unauthenticated onboarding route.
func (h *ClubHandler) RegisterPublic(router fiber.Router) {
	router.Post("/onboard", h.onboard)
}

// Register wires the authenticated club routes.
func (h *ClubHandler) Register(router fiber.Router) {
	router.Get("/:id", h.get)
}

func (h *ClubHandler) onboard(c *fiber.Ctx) error {
	var req dto.OnboardClubRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Onboard(c.Context(), req)
	if err != nil {
		h.logger.Warn().Err(err).Str("subdomain", req.Subdomain).Msg("club onboarding failed")
		return sendServiceError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "club onboarded", result)
}

func (h *ClubHandler) get(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid club id")
	}

	club, err := h.service.Get(c.Context(), actor, id)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "club retrieved", club)
}
