package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"crm-analytics/internal/common/apperror"
	common_models "crm-analytics/internal/common/models"
	"crm-analytics/internal/config"
	"crm-analytics/internal/features/audit"
	"crm-analytics/internal/features/execution"
	"crm-analytics/internal/features/folder"
	"crm-analytics/internal/features/report"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentTiles bounds how many tiles of one dashboard execute at once.
const maxConcurrentTiles = 8

type DashboardService interface {
	Create(ctx context.Context, req DashboardRequest, userID string) (*Dashboard, error)
	Get(ctx context.Context, id string, userID string) (*Dashboard, error)
	Update(ctx context.Context, id string, req DashboardRequest, userID string) (*Dashboard, error)
	Delete(ctx context.Context, id string, userID string) error

	List(ctx context.Context, userID string) ([]Dashboard, error)
	Favorites(ctx context.Context, userID string) ([]Dashboard, error)
	ByVisibility(ctx context.Context, visibility string, userID string) ([]Dashboard, error)
	ByFolder(ctx context.Context, folderID string, userID string) ([]Dashboard, error)
	Public(ctx context.Context) ([]Dashboard, error)

	ToggleFavorite(ctx context.Context, id string, userID string) (*Dashboard, error)
	SetFavorite(ctx context.Context, id string, userID string, favorite bool) (*Dashboard, error)

	// Render executes every tile concurrently. A failing tile carries its
	// error; only cancellation of ctx fails the whole dashboard.
	Render(ctx context.Context, id string, userID string) (*DashboardData, error)
}

type DashboardServiceImpl struct {
	DashboardRepo    DashboardRepository
	ReportService    report.ReportService
	FolderService    folder.FolderService
	ExecutionService execution.ExecutionService
	AuditService     audit.AuditService
	Config           *config.Config
	Logger           *zap.Logger
	now              func() time.Time
	newID            func() string
}

func NewDashboardService(
	dashboardRepo DashboardRepository,
	reportService report.ReportService,
	folderService folder.FolderService,
	executionService execution.ExecutionService,
	auditService audit.AuditService,
	cfg *config.Config,
	logger *zap.Logger,
) DashboardService {
	return &DashboardServiceImpl{
		DashboardRepo:    dashboardRepo,
		ReportService:    reportService,
		FolderService:    folderService,
		ExecutionService: executionService,
		AuditService:     auditService,
		Config:           cfg,
		Logger:           logger.With(zap.String("component", "dashboard")),
		now:              time.Now,
		newID:            uuid.NewString,
	}
}

type validated struct {
	name        string
	description string
	folderID    string
	visibility  common_models.Visibility
	tiles       []TileRequest
}

func (s *DashboardServiceImpl) validate(ctx context.Context, req DashboardRequest, userID string) (*validated, error) {
	fields := map[string]string{}
	v := &validated{
		name:        common_models.CheckName(fields, "name", req.Name),
		description: common_models.CheckDescription(fields, "description", req.Description),
		folderID:    strings.TrimSpace(req.FolderID),
		tiles:       make([]TileRequest, 0, len(req.Tiles)),
	}

	visibility, err := common_models.ParseVisibility(req.Visibility)
	if err != nil {
		fields["visibility"] = err.Error()
	}
	v.visibility = visibility

	if v.folderID != "" {
		if _, err := s.FolderService.Get(ctx, v.folderID, userID); err != nil {
			if !apperror.Is(err, apperror.KindNotFound) && !apperror.Is(err, apperror.KindForbidden) {
				return nil, err
			}
			fields["folderId"] = "folder not found"
		}
	}

	for i, t := range req.Tiles {
		key := fmt.Sprintf("tiles[%d]", i)
		t.ReportID = strings.TrimSpace(t.ReportID)
		t.FolderID = strings.TrimSpace(t.FolderID)
		t.XAxis = strings.TrimSpace(t.XAxis)
		t.YAxis = strings.TrimSpace(t.YAxis)

		t.ChartType = strings.ToLower(strings.TrimSpace(t.ChartType))
		if t.ChartType == "" {
			t.ChartType = "table"
		}
		if !chartTypes[t.ChartType] {
			fields[key+".chartType"] = "chartType must be one of bar, line, pie, donut, table, metric"
		}

		t.XRange = strings.ToLower(strings.TrimSpace(t.XRange))
		switch t.XRange {
		case "", XRangeAutomatic:
			t.XRange = XRangeAutomatic
			t.XMin, t.XMax = nil, nil
		case XRangeCustom:
			if t.XMin != nil && t.XMax != nil && *t.XMin > *t.XMax {
				fields[key+".xMin"] = "xMin must not exceed xMax"
			}
		default:
			fields[key+".xRange"] = "xRange must be automatic or custom"
		}

		if t.ReportID == "" {
			fields[key+".reportId"] = "reportId is required"
		} else if _, err := s.ReportService.Get(ctx, t.ReportID, userID); err != nil {
			if !apperror.Is(err, apperror.KindNotFound) && !apperror.Is(err, apperror.KindForbidden) {
				return nil, err
			}
			fields[key+".reportId"] = "report not found"
		}

		v.tiles = append(v.tiles, t)
	}

	if len(fields) > 0 {
		return nil, apperror.ValidationFields(fields)
	}
	return v, nil
}

// buildTiles replaces the tile list; order follows submission.
func (s *DashboardServiceImpl) buildTiles(dashboardID primitive.ObjectID, reqs []TileRequest) []Tile {
	tiles := make([]Tile, len(reqs))
	for i, t := range reqs {
		tiles[i] = Tile{
			ID:          s.newID(),
			DashboardID: dashboardID.Hex(),
			ReportID:    t.ReportID,
			FolderID:    t.FolderID,
			ChartType:   t.ChartType,
			XAxis:       t.XAxis,
			YAxis:       t.YAxis,
			XRange:      t.XRange,
			XMin:        t.XMin,
			XMax:        t.XMax,
			Order:       i,
		}
	}
	return tiles
}

func (s *DashboardServiceImpl) Create(ctx context.Context, req DashboardRequest, userID string) (*Dashboard, error) {
	v, err := s.validate(ctx, req, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	dashboard := &Dashboard{
		ID:          primitive.NewObjectID(),
		Name:        v.name,
		Description: v.description,
		CreatedBy:   userID,
		FolderID:    v.folderID,
		Visibility:  v.visibility,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	dashboard.Tiles = s.buildTiles(dashboard.ID, v.tiles)

	if err := s.DashboardRepo.Create(ctx, dashboard); err != nil {
		return nil, apperror.Internal("Failed to create dashboard", err)
	}

	s.audit(ctx, common_models.AuditActionCreate, dashboard.ID.Hex(), map[string]common_models.Change{
		"dashboard": {New: dashboard},
	})
	return s.resolve(ctx, dashboard)
}

func (s *DashboardServiceImpl) load(ctx context.Context, id string) (*Dashboard, error) {
	dashboard, err := s.DashboardRepo.Get(ctx, id)
	if err != nil {
		return nil, apperror.Internal("Failed to load dashboard", err)
	}
	if dashboard == nil {
		return nil, apperror.NotFound("Dashboard not found with id: %s", id)
	}
	return dashboard, nil
}

func (s *DashboardServiceImpl) readable(ctx context.Context, id, userID string) (*Dashboard, error) {
	dashboard, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !common_models.CanRead(dashboard.CreatedBy, dashboard.Visibility, userID) {
		return nil, apperror.Forbidden("You do not have access to this dashboard")
	}
	return dashboard, nil
}

func (s *DashboardServiceImpl) owned(ctx context.Context, id, userID string) (*Dashboard, error) {
	dashboard, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if dashboard.CreatedBy != userID {
		return nil, apperror.Forbidden("You can only modify your own dashboards")
	}
	return dashboard, nil
}

func (s *DashboardServiceImpl) Get(ctx context.Context, id string, userID string) (*Dashboard, error) {
	dashboard, err := s.readable(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, dashboard)
}

func (s *DashboardServiceImpl) Update(ctx context.Context, id string, req DashboardRequest, userID string) (*Dashboard, error) {
	existing, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	v, err := s.validate(ctx, req, userID)
	if err != nil {
		return nil, err
	}

	old := *existing
	existing.Name = v.name
	existing.Description = v.description
	existing.FolderID = v.folderID
	existing.Visibility = v.visibility
	existing.Tiles = s.buildTiles(existing.ID, v.tiles)
	existing.UpdatedAt = s.now().UTC()

	if err := s.DashboardRepo.Update(ctx, existing); err != nil {
		return nil, apperror.Internal("Failed to update dashboard", err)
	}

	s.audit(ctx, common_models.AuditActionUpdate, id, map[string]common_models.Change{
		"dashboard": {Old: old, New: existing},
	})
	return s.resolve(ctx, existing)
}

func (s *DashboardServiceImpl) Delete(ctx context.Context, id string, userID string) error {
	existing, err := s.owned(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.DashboardRepo.Delete(ctx, id); err != nil {
		return apperror.Internal("Failed to delete dashboard", err)
	}

	s.audit(ctx, common_models.AuditActionDelete, id, map[string]common_models.Change{
		"dashboard": {Old: existing, New: "DELETED"},
	})
	return nil
}

func (s *DashboardServiceImpl) find(ctx context.Context, query common_models.ListQuery) ([]Dashboard, error) {
	dashboards, err := s.DashboardRepo.Find(ctx, query)
	if err != nil {
		return nil, apperror.Internal("Failed to list dashboards", err)
	}

	ids := make([]string, 0, len(dashboards))
	for _, d := range dashboards {
		ids = append(ids, d.FolderID)
	}
	names, err := s.FolderService.Names(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range dashboards {
		dashboards[i].FolderName = names[dashboards[i].FolderID]
	}
	return dashboards, nil
}

func (s *DashboardServiceImpl) List(ctx context.Context, userID string) ([]Dashboard, error) {
	return s.find(ctx, common_models.ListQuery{Owner: userID})
}

func (s *DashboardServiceImpl) Favorites(ctx context.Context, userID string) ([]Dashboard, error) {
	return s.find(ctx, common_models.ListQuery{Owner: userID, Favorite: true})
}

func (s *DashboardServiceImpl) ByVisibility(ctx context.Context, visibility string, userID string) ([]Dashboard, error) {
	v, err := common_models.ParseVisibility(visibility)
	if err != nil {
		return nil, apperror.ValidationFields(map[string]string{"visibility": err.Error()})
	}
	return s.find(ctx, common_models.ListQuery{Owner: userID, Visibility: v})
}

func (s *DashboardServiceImpl) ByFolder(ctx context.Context, folderID string, userID string) ([]Dashboard, error) {
	return s.find(ctx, common_models.ListQuery{ReadableBy: userID, FolderID: folderID})
}

func (s *DashboardServiceImpl) Public(ctx context.Context) ([]Dashboard, error) {
	return s.find(ctx, common_models.ListQuery{Visibility: common_models.VisibilityPublic})
}

func (s *DashboardServiceImpl) ToggleFavorite(ctx context.Context, id string, userID string) (*Dashboard, error) {
	existing, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return s.saveFavorite(ctx, existing, !existing.Favorite)
}

func (s *DashboardServiceImpl) SetFavorite(ctx context.Context, id string, userID string, favorite bool) (*Dashboard, error) {
	existing, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return s.saveFavorite(ctx, existing, favorite)
}

func (s *DashboardServiceImpl) saveFavorite(ctx context.Context, dashboard *Dashboard, favorite bool) (*Dashboard, error) {
	old := dashboard.Favorite
	dashboard.Favorite = favorite
	dashboard.UpdatedAt = s.now().UTC()
	if err := s.DashboardRepo.Update(ctx, dashboard); err != nil {
		return nil, apperror.Internal("Failed to update dashboard", err)
	}

	s.audit(ctx, common_models.AuditActionFavorite, dashboard.ID.Hex(), map[string]common_models.Change{
		"favorite": {Old: old, New: favorite},
	})
	return s.resolve(ctx, dashboard)
}

func (s *DashboardServiceImpl) Render(ctx context.Context, id string, userID string) (*DashboardData, error) {
	dashboard, err := s.readable(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	data := &DashboardData{
		DashboardID: dashboard.ID.Hex(),
		Name:        dashboard.Name,
		Tiles:       make([]TileData, len(dashboard.Tiles)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentTiles)
	for i, tile := range dashboard.Tiles {
		data.Tiles[i] = TileData{
			TileID:    tile.ID,
			ReportID:  tile.ReportID,
			ChartType: tile.ChartType,
			XAxis:     tile.XAxis,
			YAxis:     tile.YAxis,
			Order:     tile.Order,
		}
		out := &data.Tiles[i]
		tile := tile

		g.Go(func() error {
			tileCtx, cancel := context.WithTimeout(gctx, s.Config.TileTimeout)
			defer cancel()

			name, result, err := s.renderTile(tileCtx, tile, userID)
			out.ReportName = name
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.Logger.Warn("dashboard tile failed",
					zap.String("dashboardId", data.DashboardID),
					zap.String("tileId", tile.ID),
					zap.String("reportId", tile.ReportID),
					zap.String("userId", userID),
					zap.Error(err),
				)
				out.Error = err.Error()
				return nil
			}
			out.Result = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, apperror.Upstream("Dashboard rendering was cancelled", err)
	}
	data.RenderedAt = s.now().UTC()
	return data, nil
}

func (s *DashboardServiceImpl) renderTile(ctx context.Context, tile Tile, userID string) (string, *execution.Result, error) {
	rep, err := s.ReportService.Get(ctx, tile.ReportID, userID)
	if err != nil {
		return "", nil, err
	}
	result, err := s.ExecutionService.Execute(ctx, rep.ExecutionRequest(), userID)
	if err != nil {
		return rep.Name, nil, err
	}
	return rep.Name, result, nil
}

// resolve fills the folder name and tile report names for output.
func (s *DashboardServiceImpl) resolve(ctx context.Context, dashboard *Dashboard) (*Dashboard, error) {
	dashboard.FolderName = ""
	if dashboard.FolderID != "" {
		names, err := s.FolderService.Names(ctx, []string{dashboard.FolderID})
		if err != nil {
			return nil, err
		}
		dashboard.FolderName = names[dashboard.FolderID]
	}

	ids := make([]string, 0, len(dashboard.Tiles))
	for _, t := range dashboard.Tiles {
		ids = append(ids, t.ReportID)
	}
	names, err := s.ReportService.Names(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range dashboard.Tiles {
		dashboard.Tiles[i].ReportName = names[dashboard.Tiles[i].ReportID]
	}
	return dashboard, nil
}

func (s *DashboardServiceImpl) audit(ctx context.Context, action common_models.AuditAction, id string, changes map[string]common_models.Change) {
	_ = s.AuditService.LogChange(ctx, action, audit.EntityDashboard, id, changes)
}
