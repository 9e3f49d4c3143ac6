package folder

import (
	common_api "crm-analytics/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type FolderController struct {
	Service FolderService
}

func NewFolderController(service FolderService) *FolderController {
	return &FolderController{Service: service}
}

// Create godoc
func (ctrl *FolderController) Create(c *fiber.Ctx) error {
	var req FolderRequest
	if err := c.BodyParser(&req); err != nil {
		return common_api.BadRequest(err)
	}
	folder, err := ctrl.Service.Create(c.UserContext(), req, common_api.UserID(c))
	if err != nil {
		return err
	}
	return common_api.Created(c, "Folder created successfully", folder)
}

// List godoc
func (ctrl *FolderController) List(c *fiber.Ctx) error {
	folders, err := ctrl.Service.List(c.UserContext(), common_api.UserID(c))
	if err != nil {
		return err
	}
	return common_api.OK(c, "Folders retrieved successfully", folders)
}

// Favorites godoc
func (ctrl *FolderController) Favorites(c *fiber.Ctx) error {
	folders, err := ctrl.Service.Favorites(c.UserContext(), common_api.UserID(c))
	if err != nil {
		return err
	}
	return common_api.OK(c, "Favorite folders retrieved successfully", folders)
}

// ByVisibility godoc
func (ctrl *FolderController) ByVisibility(c *fiber.Ctx) error {
	folders, err := ctrl.Service.ByVisibility(c.UserContext(), c.Params("visibility"), common_api.UserID(c))
	if err != nil {
		return err
	}
	return common_api.OK(c, "Folders retrieved successfully", folders)
}

// Public godoc
func (ctrl *FolderController) Public(c *fiber.Ctx) error {
	folders, err := ctrl.Service.Public(c.UserContext())
	if err != nil {
		return err
	}
	return common_api.OK(c, "Public folders retrieved successfully", folders)
}

// Get godoc
func (ctrl *FolderController) Get(c *fiber.Ctx) error {
	folder, err := ctrl.Service.Get(c.UserContext(), c.Params("id"), common_api.UserID(c))
	if err != nil {
		return err
	}
	return common_api.OK(c, "Folder retrieved successfully", folder)
}

// Update godoc
func (ctrl *FolderController) Update(c *fiber.Ctx) error {
	var req FolderRequest
	if err := c.BodyParser(&req); err != nil {
		return common_api.BadRequest(err)
	}
	folder, err := ctrl.Service.Update(c.UserContext(), c.Params("id"), req, common_api.UserID(c))
	if err != nil {
		return err
	}
	return common_api.OK(c, "Folder updated successfully", folder)
}

// Delete godoc
func (ctrl *FolderController) Delete(c *fiber.Ctx) error {
	if err := ctrl.Service.Delete(c.UserContext(), c.Params("id"), common_api.UserID(c)); err != nil {
		return err
	}
	return common_api.OK(c, "Folder deleted successfully", nil)
}

// ToggleFavorite godoc
func (ctrl *FolderController) ToggleFavorite(c *fiber.Ctx) error {
	folder, err := ctrl.Service.ToggleFavorite(c.UserContext(), c.Params("id"), common_api.UserID(c))
	if err != nil {
		return err
	}
	return common_api.OK(c, "Favorite status updated", folder)
}

// AddFavorite godoc
func (ctrl *FolderController) AddFavorite(c *fiber.Ctx) error {
	folder, err := ctrl.Service.SetFavorite(c.UserContext(), c.Params("id"), common_api.UserID(c), true)
	if err != nil {
		return err
	}
	return common_api.OK(c, "Folder added to favorites", folder)
}

// RemoveFavorite godoc
func (ctrl *FolderController) RemoveFavorite(c *fiber.Ctx) error {
	folder, err := ctrl.Service.SetFavorite(c.UserContext(), c.Params("id"), common_api.UserID(c), false)
	if err != nil {
		return err
	}
	return common_api.OK(c, "Folder removed from favorites", folder)
}
