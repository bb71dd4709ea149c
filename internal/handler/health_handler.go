package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/courtline/courtline-api/internal/utils"
)

// HealthHandler reports service liveness.
type HealthHandler struct {
	appName string
	env     string
}

// NewHealthHandler constructs the handler.
func NewHealthHandler(appName, env string) *HealthHandler {
	return &HealthHandler{appName: appName, env: env}
}

// Register wires the health route.
func (h *HealthHandler) Register(router fiber.Router) {
	router.Get("/health", h.health)
}

func (h *HealthHandler) health(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "ok", fiber.Map{
		"app": h.appName,
		"env": h.env,
	})
}
