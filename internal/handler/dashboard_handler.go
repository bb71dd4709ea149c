package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/courtline/courtline-api/internal/service"
	"github.com/courtline/courtline-api/internal/utils"
)

// DashboardHandler serves the club programme dashboard.
type DashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register wires the dashboard route.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("/:periodId", h.stats)
}

func (h *DashboardHandler) stats(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	periodID, err := parseUintParam(c, "periodId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid period id")
	}

	stats, err := h.service.Stats(c.Context(), actor, periodID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "dashboard retrieved", stats)
}
