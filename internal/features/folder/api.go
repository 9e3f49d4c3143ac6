package folder

import (
	"github.com/gofiber/fiber/v2"
)

type FolderApi struct {
	controller *FolderController
}

func NewFolderApi(controller *FolderController) *FolderApi {
	return &FolderApi{controller: controller}
}

func (api *FolderApi) Setup(app *fiber.App) {
	group := app.Group("/api/folders")

	group.Get("/", api.controller.List)
	group.Get("/favorites", api.controller.Favorites)
	group.Get("/public", api.controller.Public)
	group.Get("/visibility/:visibility", api.controller.ByVisibility)
	group.Get("/:id", api.controller.Get)
	group.Post("/", api.controller.Create)
	group.Put("/:id", api.controller.Update)
	group.Put("/:id/toggle-favorite", api.controller.ToggleFavorite)
	group.Put("/:id/add-favorite", api.controller.AddFavorite)
	group.Put("/:id/remove-favorite", api.controller.RemoveFavorite)
	group.Delete("/:id", api.controller.Delete)
}
