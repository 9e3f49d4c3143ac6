package dashboard

import (
	common_api "crm-analytics/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type DashboardController struct {
	DashboardService DashboardService
}

func NewDashboardController(dashboardService DashboardService) *DashboardController {
	return &DashboardController{
		DashboardService: dashboardService,
	}
}

// CreateDashboard godoc
// @Summary Create dashboard
// @Description Create a dashboard with its ordered tiles
// @Tags dashboard
// @Accept json
// @Produce json
// @Router /api/dashboards [post]
func (ctrl *DashboardController) CreateDashboard(ctx *fiber.Ctx) error {
	var req DashboardRequest
	if err := ctx.BodyParser(&req); err != nil {
		return common_api.BadRequest(err)
	}

	dashboard, err := ctrl.DashboardService.Create(ctx.UserContext(), req, common_api.UserID(ctx))
	if err != nil {
		return err
	}
	return common_api.Created(ctx, "Dashboard created successfully", dashboard)
}

// ListDashboards godoc
// @Summary List dashboards
// @Description List the caller's dashboards
// @Tags dashboard
// @Produce json
// @Router /api/dashboards [get]
func (ctrl *DashboardController) ListDashboards(ctx *fiber.Ctx) error {
	dashboards, err := ctrl.DashboardService.List(ctx.UserContext(), common_api.UserID(ctx))
	if err != nil {
		return err
	}
	return common_api.OK(ctx, "Dashboards retrieved successfully", dashboards)
}

// ListFavorites godoc
func (ctrl *DashboardController) ListFavorites(ctx *fiber.Ctx) error {
	dashboards, err := ctrl.DashboardService.Favorites(ctx.UserContext(), common_api.UserID(ctx))
	if err != nil {
		return err
	}
	return common_api.OK(ctx, "Favorite dashboards retrieved successfully", dashboards)
}

// ListByVisibility godoc
func (ctrl *DashboardController) ListByVisibility(ctx *fiber.Ctx) error {
	dashboards, err := ctrl.DashboardService.ByVisibility(ctx.UserContext(), ctx.Params("visibility"), common_api.UserID(ctx))
	if err != nil {
		return err
	}
	return common_api.OK(ctx, "Dashboards retrieved successfully", dashboards)
}

// ListByFolder godoc
func (ctrl *DashboardController) ListByFolder(ctx *fiber.Ctx) error {
	dashboards, err := ctrl.DashboardService.ByFolder(ctx.UserContext(), ctx.Params("id"), common_api.UserID(ctx))
	if err != nil {
		return err
	}
	return common_api.OK(ctx, "Dashboards retrieved successfully", dashboards)
}

// ListPublic godoc
func (ctrl *DashboardController) ListPublic(ctx *fiber.Ctx) error {
	dashboards, err := ctrl.DashboardService.Public(ctx.UserContext())
	if err != nil {
		return err
	}
	return common_api.OK(ctx, "Public dashboards retrieved successfully", dashboards)
}

// GetDashboard godoc
// @Summary Get dashboard
// @Tags dashboard
// @Produce json
// @Param id path string true "Dashboard ID"
// @Router /api/dashboards/{id} [get]
func (ctrl *DashboardController) GetDashboard(ctx *fiber.Ctx) error {
	dashboard, err := ctrl.DashboardService.Get(ctx.UserContext(), ctx.Params("id"), common_api.UserID(ctx))
	if err != nil {
		return err
	}
	return common_api.OK(ctx, "Dashboard retrieved successfully", dashboard)
}

// UpdateDashboard godoc
// @Summary Update dashboard
// @Description Replace the dashboard fields and its whole tile list
// @Tags dashboard
// @Accept json
// @Produce json
// @Param id path string true "Dashboard ID"
// @Router /api/dashboards/{id} [put]
func (ctrl *DashboardController) UpdateDashboard(ctx *fiber.Ctx) error {
	var req DashboardRequest
	if err := ctx.BodyParser(&req); err != nil {
		return common_api.BadRequest(err)
	}

	dashboard, err := ctrl.DashboardService.Update(ctx.UserContext(), ctx.Params("id"), req, common_api.UserID(ctx))
	if err != nil {
		return err
	}
	return common_api.OK(ctx, "Dashboard updated successfully", dashboard)
}

// DeleteDashboard godoc
// @Summary Delete dashboard
// @Tags dashboard
// @Param id path string true "Dashboard ID"
// @Router /api/dashboards/{id} [delete]
func (ctrl *DashboardController) DeleteDashboard(ctx *fiber.Ctx) error {
	if err := ctrl.DashboardService.Delete(ctx.UserContext(), ctx.Params("id"), common_api.UserID(ctx)); err != nil {
		return err
	}
	return common_api.OK(ctx, "Dashboard deleted successfully", nil)
}

// ToggleFavorite godoc
func (ctrl *DashboardController) ToggleFavorite(ctx *fiber.Ctx) error {
	dashboard, err := ctrl.DashboardService.ToggleFavorite(ctx.UserContext(), ctx.Params("id"), common_api.UserID(ctx))
	if err != nil {
		return err
	}
	return common_api.OK(ctx, "Favorite status updated", dashboard)
}

// AddFavorite godoc
func (ctrl *DashboardController) AddFavorite(ctx *fiber.Ctx) error {
	dashboard, err := ctrl.DashboardService.SetFavorite(ctx.UserContext(), ctx.Params("id"), common_api.UserID(ctx), true)
	if err != nil {
		return err
	}
	return common_api.OK(ctx, "Dashboard added to favorites", dashboard)
}

// RemoveFavorite godoc
func (ctrl *DashboardController) RemoveFavorite(ctx *fiber.Ctx) error {
	dashboard, err := ctrl.DashboardService.SetFavorite(ctx.UserContext(), ctx.Params("id"), common_api.UserID(ctx), false)
	if err != nil {
		return err
	}
	return common_api.OK(ctx, "Dashboard removed from favorites", dashboard)
}

// GetDashboardData godoc
// @Summary Render dashboard
// @Description Execute every tile's report and return the results
// @Tags dashboard
// @Produce json
// @Param id path string true "Dashboard ID"
// @Router /api/dashboards/{id}/data [get]
func (ctrl *DashboardController) GetDashboardData(ctx *fiber.Ctx) error {
	data, err := ctrl.DashboardService.Render(ctx.UserContext(), ctx.Params("id"), common_api.UserID(ctx))
	if err != nil {
		return err
	}
	return common_api.OK(ctx, "Dashboard data retrieved successfully", data)
}
