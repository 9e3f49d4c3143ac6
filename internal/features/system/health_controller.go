package system

import (
	"context"
	"time"

	common_api "crm-analytics/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	store Pinger
}

func NewHealthController(store Pinger) *HealthController {
	return &HealthController{store: store}
}

type HealthStatus struct {
	Status  string `json:"status"`
	MongoDB string `json:"mongodb"`
}

// Health godoc
// @Summary      Service health
// @Tags         system
// @Produce      json
// @Router       /health [get]
func (c *HealthController) Health(ctx *fiber.Ctx) error {
	pingCtx, cancel := context.WithTimeout(ctx.UserContext(), 2*time.Second)
	defer cancel()

	if err := c.store.Ping(pingCtx); err != nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(common_api.Response{
			Success: false,
			Message: "Service degraded",
			Data:    HealthStatus{Status: "DOWN", MongoDB: "DOWN"},
		})
	}
	return common_api.OK(ctx, "Service healthy", HealthStatus{Status: "UP", MongoDB: "UP"})
}
