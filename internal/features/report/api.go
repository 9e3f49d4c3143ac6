package report

import (
	"github.com/gofiber/fiber/v2"
)

type ReportApi struct {
	ReportController *ReportController
}

func NewReportApi(reportController *ReportController) *ReportApi {
	return &ReportApi{ReportController: reportController}
}

func (api *ReportApi) Setup(app *fiber.App) {
	group := app.Group("/api/reports")

	group.Get("/", api.ReportController.List)
	group.Get("/favorites", api.ReportController.Favorites)
	group.Get("/private", api.ReportController.Private)
	group.Get("/public", api.ReportController.Public)
	group.Get("/search", api.ReportController.Search)
	group.Get("/visibility/:visibility", api.ReportController.ByVisibility)
	group.Get("/folder/:id", api.ReportController.ByFolder)
	group.Get("/:id", api.ReportController.Get)
	group.Get("/:id/export", api.ReportController.Export)
	group.Post("/", api.ReportController.Create)
	group.Put("/:id", api.ReportController.Update)
	group.Post("/:id/run", api.ReportController.Run)
	group.Post("/:id/execute", api.ReportController.Execute)
	group.Put("/:id/toggle-favorite", api.ReportController.ToggleFavorite)
	group.Put("/:id/add-favorite", api.ReportController.AddFavorite)
	group.Put("/:id/remove-favorite", api.ReportController.RemoveFavorite)
	group.Delete("/:id", api.ReportController.Delete)
}
