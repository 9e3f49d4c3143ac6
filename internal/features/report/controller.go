package report

import (
	"fmt"

	common_api "crm-analytics/internal/common/api"
	"crm-analytics/internal/features/execution"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct {
	ReportService ReportService
}

func NewReportController(reportService ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

// Create godoc
func (c *ReportController) Create(ctx *fiber.Ctx) error {
	var req ReportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return common_api.BadRequest(err)
	}

	report, err := c.ReportService.Create(ctx.UserContext(), req, common_api.UserID(ctx))
	if err != nil {
		return err
	}
	return common_api.Created(ctx, "Report created successfully", report)
}

// List godoc
func (c *ReportController) List(ctx *fiber.Ctx) error {
	reports, err := c.ReportService.List(ctx.UserContext(), common_api.UserID(ctx))
	if err != nil {
		return err
	}
	return common_api.OK(ctx, "Reports retrieved successfully", reports)
}

// Favorites godoc
func (c *ReportController) Favorites(ctx *fiber.Ctx) error {
	reports, err := c.ReportService.Favorites(ctx.UserContext(), common_api.UserID(ctx))
	if err != nil {
		return err
	}
	return common_api.OK(ctx, "Favorite reports retrieved successfully", reports)
}

// Private godoc
func (c *ReportController) Private(ctx *fiber.Ctx) error {
	reports, err := c.ReportService.Private(ctx.UserContext(), common_api.UserID(ctx))
	if err != nil {
		return err
	}
	return common_api.OK(ctx, "Private reports retrieved successfully", reports)
}

// Public godoc
func (c *ReportController) Public(ctx *fiber.Ctx) error {
	reports, err := c.ReportService.Public(ctx.UserContext())
	if err != nil {
		return err
	}
	return common_api.OK(ctx, "Public reports retrieved successfully", reports)
}

// ByVisibility godoc
func (c *ReportController) ByVisibility(ctx *fiber.Ctx) error {
	reports, err := c.ReportService.ByVisibility(ctx.UserContext(), ctx.Params("visibility"), common_api.UserID(ctx))
	if err != nil {
		return err
	}
	return common_api.OK(ctx, "Reports retrieved successfully", reports)
}

// ByFolder godoc
func (c *ReportController) ByFolder(ctx *fiber.Ctx) error {
	reports, err := c.ReportService.ByFolder(ctx.UserContext(), ctx.Params("id"), common_api.UserID(ctx))
	if err != nil {
		return err
	}
	return common_api.OK(ctx, "Reports retrieved successfully", reports)
}

// Search godoc
func (c *ReportController) Search(ctx *fiber.Ctx) error {
	reports, err := c.ReportService.Search(ctx.UserContext(), ctx.Query("query"), common_api.UserID(ctx))
	if err != nil {
		return err
	}
	return common_api.OK(ctx, "Reports retrieved successfully", reports)
}

// Get godoc
func (c *ReportController) Get(ctx *fiber.Ctx) error {
	report, err := c.ReportService.Get(ctx.UserContext(), ctx.Params("id"), common_api.UserID(ctx))
	if err != nil {
		return err
	}
	return common_api.OK(ctx, "Report retrieved successfully", report)
}

// Update godoc
func (c *ReportController) Update(ctx *fiber.Ctx) error {
	var req ReportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return common_api.BadRequest(err)
	}

	report, err := c.ReportService.Update(ctx.UserContext(), ctx.Params("id"), req, common_api.UserID(ctx))
	if err != nil {
		return err
	}
	return common_api.OK(ctx, "Report updated successfully", report)
}

// Delete godoc
func (c *ReportController) Delete(ctx *fiber.Ctx) error {
	if err := c.ReportService.Delete(ctx.UserContext(), ctx.Params("id"), common_api.UserID(ctx)); err != nil {
		return err
	}
	return common_api.OK(ctx, "Report deleted successfully", nil)
}

// Run godoc
func (c *ReportController) Run(ctx *fiber.Ctx) error {
	report, err := c.ReportService.Run(ctx.UserContext(), ctx.Params("id"), common_api.UserID(ctx))
	if err != nil {
		return err
	}
	return common_api.OK(ctx, "Report run recorded", report)
}

// Execute godoc
func (c *ReportController) Execute(ctx *fiber.Ctx) error {
	result, err := c.ReportService.Execute(ctx.UserContext(), ctx.Params("id"), common_api.UserID(ctx))
	if err != nil {
		return err
	}
	return common_api.OK(ctx, "Report executed successfully", result)
}

// Export godoc
func (c *ReportController) Export(ctx *fiber.Ctx) error {
	format := ctx.Query("format", string(execution.FormatXLSX))
	out, err := c.ReportService.Export(ctx.UserContext(), ctx.Params("id"), common_api.UserID(ctx), format)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, out.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", out.Filename))
	return ctx.Send(out.Data)
}

// ToggleFavorite godoc
func (c *ReportController) ToggleFavorite(ctx *fiber.Ctx) error {
	report, err := c.ReportService.ToggleFavorite(ctx.UserContext(), ctx.Params("id"), common_api.UserID(ctx))
	if err != nil {
		return err
	}
	return common_api.OK(ctx, "Favorite status updated", report)
}

// AddFavorite godoc
func (c *ReportController) AddFavorite(ctx *fiber.Ctx) error {
	report, err := c.ReportService.SetFavorite(ctx.UserContext(), ctx.Params("id"), common_api.UserID(ctx), true)
	if err != nil {
		return err
	}
	return common_api.OK(ctx, "Report added to favorites", report)
}

// RemoveFavorite godoc
func (c *ReportController) RemoveFavorite(ctx *fiber.Ctx) error {
	report, err := c.ReportService.SetFavorite(ctx.UserContext(), ctx.Params("id"), common_api.UserID(ctx), false)
	if err != nil {
		return err
	}
	return common_api.OK(ctx, "Report removed from favorites", report)
}
