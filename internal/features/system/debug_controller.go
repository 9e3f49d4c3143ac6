package system

import (
	common_api "crm-analytics/internal/common/api"
	common_models "crm-analytics/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

type DebugController struct{}

func NewDebugController() *DebugController {
	return &DebugController{}
}

// GetCurrentUser godoc
// @Summary      Get caller identity
// @Description  Echo the caller id and request id the service resolved for this request
// @Tags         debug
// @Produce      json
// @Router       /api/debug/me [get]
func (c *DebugController) GetCurrentUser(ctx *fiber.Ctx) error {
	return common_api.OK(ctx, "Caller resolved", fiber.Map{
		"userId":    common_api.UserID(ctx),
		"requestId": common_models.RequestIDFrom(ctx.UserContext()),
	})
}
