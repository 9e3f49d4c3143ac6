package audit

import (
	"strconv"

	common_api "crm-analytics/internal/common/api"
	"crm-analytics/internal/common/apperror"

	"github.com/gofiber/fiber/v2"
)

type AuditController struct {
	Service AuditService
}

func NewAuditController(service AuditService) *AuditController {
	return &AuditController{Service: service}
}

// ListLogs godoc
func (ctrl *AuditController) ListLogs(c *fiber.Ctx) error {
	page, err := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	if err != nil {
		return apperror.ValidationFields(map[string]string{"page": "page must be a number"})
	}
	limit, err := strconv.ParseInt(c.Query("limit", "20"), 10, 64)
	if err != nil {
		return apperror.ValidationFields(map[string]string{"limit": "limit must be a number"})
	}

	filter := Filter{
		Entity:   c.Query("entity"),
		EntityID: c.Query("entityId"),
	}

	logs, err := ctrl.Service.ListLogs(c.UserContext(), filter, page, limit)
	if err != nil {
		return apperror.Internal("Failed to list audit logs", err)
	}

	return common_api.OK(c, "Audit logs retrieved successfully", logs)
}
