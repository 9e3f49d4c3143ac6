package execution

import (
	"fmt"

	common_api "crm-analytics/internal/common/api"
	"crm-analytics/internal/common/apperror"
	"crm-analytics/internal/crm"

	"github.com/gofiber/fiber/v2"
)

type ExecutionController struct {
	Service ExecutionService
}

func NewExecutionController(service ExecutionService) *ExecutionController {
	return &ExecutionController{Service: service}
}

// Execute godoc
func (ctrl *ExecutionController) Execute(c *fiber.Ctx) error {
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return common_api.BadRequest(err)
	}

	result, err := ctrl.Service.Execute(c.UserContext(), req, common_api.UserID(c))
	if err != nil {
		return err
	}
	return common_api.OK(c, "Report executed successfully", result)
}

// Export godoc
func (ctrl *ExecutionController) Export(c *fiber.Ctx) error {
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return common_api.BadRequest(err)
	}

	out, err := ctrl.Service.Export(c.UserContext(), req, common_api.UserID(c), c.Query("format", string(FormatXLSX)))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, out.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", out.Filename))
	return c.Send(out.Data)
}

// Columns godoc
func (ctrl *ExecutionController) Columns(c *fiber.Ctx) error {
	module, err := parseModuleParam(c.Params("module"))
	if err != nil {
		return err
	}
	return common_api.OK(c, "Columns retrieved successfully", Labels(module))
}

func parseModuleParam(raw string) (crm.Module, error) {
	module, err := crm.ParseModule(raw)
	if err != nil {
		return "", apperror.ValidationFields(map[string]string{"module": capitalize(err.Error())})
	}
	return module, nil
}
