package dashboard

import (
	"github.com/gofiber/fiber/v2"
)

type DashboardApi struct {
	DashboardController *DashboardController
}

func NewDashboardApi(dashboardController *DashboardController) *DashboardApi {
	return &DashboardApi{
		DashboardController: dashboardController,
	}
}

func (api *DashboardApi) Setup(app *fiber.App) {
	group := app.Group("/api/dashboards")

	group.Get("/", api.DashboardController.ListDashboards)
	group.Get("/favorites", api.DashboardController.ListFavorites)
	group.Get("/public", api.DashboardController.ListPublic)
	group.Get("/visibility/:visibility", api.DashboardController.ListByVisibility)
	group.Get("/folder/:id", api.DashboardController.ListByFolder)
	group.Get("/:id", api.DashboardController.GetDashboard)
	group.Get("/:id/data", api.DashboardController.GetDashboardData)
	group.Post("/", api.DashboardController.CreateDashboard)
	group.Put("/:id", api.DashboardController.UpdateDashboard)
	group.Put("/:id/toggle-favorite", api.DashboardController.ToggleFavorite)
	group.Put("/:id/add-favorite", api.DashboardController.AddFavorite)
	group.Put("/:id/remove-favorite", api.DashboardController.RemoveFavorite)
	group.Delete("/:id", api.DashboardController.DeleteDashboard)
}
