package system

import (
	"crm-analytics/internal/config"

	"github.com/gofiber/fiber/v2"
)

type DebugApi struct {
	controller *DebugController
	config     *config.Config
}

func NewDebugApi(controller *DebugController, cfg *config.Config) *DebugApi {
	return &DebugApi{
		controller: controller,
		config:     cfg,
	}
}

// Setup registers debug routes outside production.
func (h *DebugApi) Setup(app *fiber.App) {
	if h.config.IsProduction() {
		return
	}
	debug := app.Group("/api/debug")
	debug.Get("/me", h.controller.GetCurrentUser)
}
