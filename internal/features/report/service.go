package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"crm-analytics/internal/common/apperror"
	common_models "crm-analytics/internal/common/models"
	"crm-analytics/internal/crm"
	"crm-analytics/internal/features/audit"
	"crm-analytics/internal/features/execution"
	"crm-analytics/internal/features/folder"

	"go.uber.org/zap"
)

type ReportService interface {
	Create(ctx context.Context, req ReportRequest, userID string) (*Report, error)
	Get(ctx context.Context, id string, userID string) (*Report, error)
	Update(ctx context.Context, id string, req ReportRequest, userID string) (*Report, error)
	Delete(ctx context.Context, id string, userID string) error

	List(ctx context.Context, userID string) ([]Report, error)
	Favorites(ctx context.Context, userID string) ([]Report, error)
	Private(ctx context.Context, userID string) ([]Report, error)
	Public(ctx context.Context) ([]Report, error)
	ByVisibility(ctx context.Context, visibility string, userID string) ([]Report, error)
	ByFolder(ctx context.Context, folderID string, userID string) ([]Report, error)
	Search(ctx context.Context, query string, userID string) ([]Report, error)

	// Run stamps lastRunAt without executing anything.
	Run(ctx context.Context, id string, userID string) (*Report, error)
	// Execute runs the saved definition, stamps lastRunAt and returns the rows.
	Execute(ctx context.Context, id string, userID string) (*execution.Result, error)
	Export(ctx context.Context, id string, userID string, format string) (*execution.Export, error)

	ToggleFavorite(ctx context.Context, id string, userID string) (*Report, error)
	SetFavorite(ctx context.Context, id string, userID string, favorite bool) (*Report, error)

	// Names resolves report ids for dashboard tiles. Deleted reports map to "".
	Names(ctx context.Context, ids []string) (map[string]string, error)
}

type ReportServiceImpl struct {
	ReportRepo       ReportRepository
	FolderService    folder.FolderService
	ExecutionService execution.ExecutionService
	AuditService     audit.AuditService
	Logger           *zap.Logger
	now              func() time.Time
}

func NewReportService(
	reportRepo ReportRepository,
	folderService folder.FolderService,
	executionService execution.ExecutionService,
	auditService audit.AuditService,
	logger *zap.Logger,
) ReportService {
	return &ReportServiceImpl{
		ReportRepo:       reportRepo,
		FolderService:    folderService,
		ExecutionService: executionService,
		AuditService:     auditService,
		Logger:           logger,
		now:              time.Now,
	}
}

type validated struct {
	name        string
	description string
	folderID    string
	module      crm.Module
	definition  execution.Definition
	charts      []Chart
	visibility  common_models.Visibility
}

// validate checks a create or update request. existing is nil on create.
func (s *ReportServiceImpl) validate(ctx context.Context, req ReportRequest, existing *Report, userID string) (*validated, error) {
	fields := map[string]string{}
	v := &validated{
		name:        common_models.CheckName(fields, "reportName", req.ReportName),
		description: common_models.CheckDescription(fields, "description", req.Description),
		folderID:    strings.TrimSpace(req.FolderID),
		definition:  req.Definition.Normalize(),
		charts:      cleanCharts(req.Charts),
	}

	visibility, err := common_models.ParseVisibility(req.Visibility)
	if err != nil {
		fields["visibility"] = err.Error()
	}
	v.visibility = visibility

	switch {
	case existing == nil:
		module, err := crm.ParseModule(req.Module)
		if err != nil {
			fields["module"] = err.Error()
		}
		v.module = module
	case strings.TrimSpace(req.Module) == "":
		v.module = existing.Module
	default:
		module, err := crm.ParseModule(req.Module)
		if err != nil {
			fields["module"] = err.Error()
		} else if module != existing.Module {
			fields["module"] = "module cannot be changed after creation"
		}
		v.module = existing.Module
	}

	for key, msg := range v.definition.Validate() {
		fields["definition."+key] = msg
	}

	if v.folderID != "" {
		if _, err := s.FolderService.Get(ctx, v.folderID, userID); err != nil {
			if !apperror.Is(err, apperror.KindNotFound) && !apperror.Is(err, apperror.KindForbidden) {
				return nil, err
			}
			fields["folderId"] = "folder not found"
		}
	}

	if len(fields) > 0 {
		return nil, apperror.ValidationFields(fields)
	}
	return v, nil
}

func cleanCharts(charts []Chart) []Chart {
	out := make([]Chart, 0, len(charts))
	for _, c := range charts {
		c.Type = strings.ToLower(strings.TrimSpace(c.Type))
		c.XAxis = strings.TrimSpace(c.XAxis)
		c.YAxis = strings.TrimSpace(c.YAxis)
		if c.Type == "" && c.XAxis == "" && c.YAxis == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (s *ReportServiceImpl) Create(ctx context.Context, req ReportRequest, userID string) (*Report, error) {
	v, err := s.validate(ctx, req, nil, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	report := &Report{
		Name:        v.name,
		Description: v.description,
		CreatedBy:   userID,
		FolderID:    v.folderID,
		Module:      v.module,
		Definition:  v.definition,
		Charts:      v.charts,
		Visibility:  v.visibility,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.ReportRepo.Create(ctx, report); err != nil {
		return nil, apperror.Internal("Failed to create report", err)
	}

	s.audit(ctx, common_models.AuditActionCreate, report.ID.Hex(), map[string]common_models.Change{
		"report": {New: report},
	})
	return s.withFolderName(ctx, report)
}

func (s *ReportServiceImpl) load(ctx context.Context, id string) (*Report, error) {
	report, err := s.ReportRepo.Get(ctx, id)
	if err != nil {
		return nil, apperror.Internal("Failed to load report", err)
	}
	if report == nil {
		return nil, apperror.NotFound("Report not found with id: %s", id)
	}
	return report, nil
}

func (s *ReportServiceImpl) readable(ctx context.Context, id, userID string) (*Report, error) {
	report, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !common_models.CanRead(report.CreatedBy, report.Visibility, userID) {
		return nil, apperror.Forbidden("You do not have access to this report")
	}
	return report, nil
}

func (s *ReportServiceImpl) owned(ctx context.Context, id, userID string) (*Report, error) {
	report, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.CreatedBy != userID {
		return nil, apperror.Forbidden("You can only modify your own reports")
	}
	return report, nil
}

func (s *ReportServiceImpl) Get(ctx context.Context, id string, userID string) (*Report, error) {
	report, err := s.readable(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return s.withFolderName(ctx, report)
}

func (s *ReportServiceImpl) Update(ctx context.Context, id string, req ReportRequest, userID string) (*Report, error) {
	existing, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	v, err := s.validate(ctx, req, existing, userID)
	if err != nil {
		return nil, err
	}

	old := *existing
	existing.Name = v.name
	existing.Description = v.description
	existing.FolderID = v.folderID
	existing.Definition = v.definition
	existing.Charts = v.charts
	existing.Visibility = v.visibility
	existing.UpdatedAt = s.now().UTC()
	if err := s.ReportRepo.Update(ctx, existing); err != nil {
		return nil, apperror.Internal("Failed to update report", err)
	}

	s.audit(ctx, common_models.AuditActionUpdate, id, map[string]common_models.Change{
		"report": {Old: old, New: existing},
	})
	return s.withFolderName(ctx, existing)
}

func (s *ReportServiceImpl) Delete(ctx context.Context, id string, userID string) error {
	existing, err := s.owned(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.ReportRepo.Delete(ctx, id); err != nil {
		return apperror.Internal("Failed to delete report", err)
	}

	s.audit(ctx, common_models.AuditActionDelete, id, map[string]common_models.Change{
		"report": {Old: existing, New: "DELETED"},
	})
	return nil
}

func (s *ReportServiceImpl) find(ctx context.Context, query common_models.ListQuery) ([]Report, error) {
	reports, err := s.ReportRepo.Find(ctx, query)
	if err != nil {
		return nil, apperror.Internal("Failed to list reports", err)
	}

	ids := make([]string, 0, len(reports))
	for _, r := range reports {
		ids = append(ids, r.FolderID)
	}
	names, err := s.FolderService.Names(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range reports {
		reports[i].FolderName = names[reports[i].FolderID]
	}
	return reports, nil
}

func (s *ReportServiceImpl) List(ctx context.Context, userID string) ([]Report, error) {
	return s.find(ctx, common_models.ListQuery{Owner: userID})
}

func (s *ReportServiceImpl) Favorites(ctx context.Context, userID string) ([]Report, error) {
	return s.find(ctx, common_models.ListQuery{Owner: userID, Favorite: true})
}

func (s *ReportServiceImpl) Private(ctx context.Context, userID string) ([]Report, error) {
	return s.find(ctx, common_models.ListQuery{Owner: userID, Visibility: common_models.VisibilityPrivate})
}

func (s *ReportServiceImpl) Public(ctx context.Context) ([]Report, error) {
	return s.find(ctx, common_models.ListQuery{Visibility: common_models.VisibilityPublic})
}

func (s *ReportServiceImpl) ByVisibility(ctx context.Context, visibility string, userID string) ([]Report, error) {
	v, err := common_models.ParseVisibility(visibility)
	if err != nil {
		return nil, apperror.ValidationFields(map[string]string{"visibility": err.Error()})
	}
	return s.find(ctx, common_models.ListQuery{Owner: userID, Visibility: v})
}

func (s *ReportServiceImpl) ByFolder(ctx context.Context, folderID string, userID string) ([]Report, error) {
	return s.find(ctx, common_models.ListQuery{ReadableBy: userID, FolderID: folderID})
}

func (s *ReportServiceImpl) Search(ctx context.Context, query string, userID string) ([]Report, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx, userID)
	}
	return s.find(ctx, common_models.ListQuery{Owner: userID, NameContains: query})
}

func (s *ReportServiceImpl) Run(ctx context.Context, id string, userID string) (*Report, error) {
	report, err := s.readable(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := s.stamp(ctx, report); err != nil {
		return nil, err
	}
	return s.withFolderName(ctx, report)
}

func (s *ReportServiceImpl) Execute(ctx context.Context, id string, userID string) (*execution.Result, error) {
	report, err := s.readable(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	result, err := s.ExecutionService.Execute(ctx, report.ExecutionRequest(), userID)
	if err != nil {
		return nil, err
	}
	if err := s.stamp(ctx, report); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ReportServiceImpl) Export(ctx context.Context, id string, userID string, format string) (*execution.Export, error) {
	report, err := s.readable(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	out, err := s.ExecutionService.Export(ctx, report.ExecutionRequest(), userID, format)
	if err != nil {
		return nil, err
	}
	if err := s.stamp(ctx, report); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ReportServiceImpl) stamp(ctx context.Context, report *Report) error {
	at := s.now().UTC()
	if err := s.ReportRepo.StampRun(ctx, report.ID, at); err != nil {
		return apperror.Internal(fmt.Sprintf("Failed to record run of report %s", report.ID.Hex()), err)
	}
	old := report.LastRunAt
	report.LastRunAt = &at

	s.audit(ctx, common_models.AuditActionRun, report.ID.Hex(), map[string]common_models.Change{
		"lastRunAt": {Old: old, New: at},
	})
	return nil
}

func (s *ReportServiceImpl) ToggleFavorite(ctx context.Context, id string, userID string) (*Report, error) {
	existing, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return s.saveFavorite(ctx, existing, !existing.Favorite)
}

func (s *ReportServiceImpl) SetFavorite(ctx context.Context, id string, userID string, favorite bool) (*Report, error) {
	existing, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return s.saveFavorite(ctx, existing, favorite)
}

func (s *ReportServiceImpl) saveFavorite(ctx context.Context, report *Report, favorite bool) (*Report, error) {
	old := report.Favorite
	report.Favorite = favorite
	report.UpdatedAt = s.now().UTC()
	if err := s.ReportRepo.Update(ctx, report); err != nil {
		return nil, apperror.Internal("Failed to update report", err)
	}

	s.audit(ctx, common_models.AuditActionFavorite, report.ID.Hex(), map[string]common_models.Change{
		"favorite": {Old: old, New: favorite},
	})
	return s.withFolderName(ctx, report)
}

func (s *ReportServiceImpl) Names(ctx context.Context, ids []string) (map[string]string, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id != "" && !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return map[string]string{}, nil
	}
	names, err := s.ReportRepo.Names(ctx, unique)
	if err != nil {
		return nil, apperror.Internal("Failed to resolve report names", err)
	}
	return names, nil
}

func (s *ReportServiceImpl) withFolderName(ctx context.Context, report *Report) (*Report, error) {
	report.FolderName = ""
	if report.FolderID == "" {
		return report, nil
	}
	names, err := s.FolderService.Names(ctx, []string{report.FolderID})
	if err != nil {
		return nil, err
	}
	report.FolderName = names[report.FolderID]
	return report, nil
}

func (s *ReportServiceImpl) audit(ctx context.Context, action common_models.AuditAction, id string, changes map[string]common_models.Change) {
	_ = s.AuditService.LogChange(ctx, action, audit.EntityReport, id, changes)
}
