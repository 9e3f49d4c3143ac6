package execution

import (
	"github.com/gofiber/fiber/v2"
)

type ExecutionApi struct {
	controller *ExecutionController
}

func NewExecutionApi(controller *ExecutionController) *ExecutionApi {
	return &ExecutionApi{controller: controller}
}

func (h *ExecutionApi) Setup(app *fiber.App) {
	reports := app.Group("/api/reports")

	reports.Post("/execute", h.controller.Execute)
	reports.Post("/execute/export", h.controller.Export)
	reports.Get("/columns/:module", h.controller.Columns)
}
