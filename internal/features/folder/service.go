package folder

import (
	"context"
	"time"

	"crm-analytics/internal/common/apperror"
	common_models "crm-analytics/internal/common/models"
	"crm-analytics/internal/features/audit"

	"go.uber.org/zap"
)

type FolderService interface {
	Create(ctx context.Context, req FolderRequest, userID string) (*Folder, error)
	Get(ctx context.Context, id string, userID string) (*Folder, error)
	Update(ctx context.Context, id string, req FolderRequest, userID string) (*Folder, error)
	Delete(ctx context.Context, id string, userID string) error
	List(ctx context.Context, userID string) ([]Folder, error)
	Favorites(ctx context.Context, userID string) ([]Folder, error)
	ByVisibility(ctx context.Context, visibility string, userID string) ([]Folder, error)
	Public(ctx context.Context) ([]Folder, error)
	ToggleFavorite(ctx context.Context, id string, userID string) (*Folder, error)
	SetFavorite(ctx context.Context, id string, userID string, favorite bool) (*Folder, error)
	// Names resolves folder ids for reports and dashboards. Missing folders
	// map to "".
	Names(ctx context.Context, ids []string) (map[string]string, error)
}

type FolderServiceImpl struct {
	Repo         FolderRepository
	AuditService audit.AuditService
	Logger       *zap.Logger
	now          func() time.Time
}

func NewFolderService(repo FolderRepository, auditService audit.AuditService, logger *zap.Logger) FolderService {
	return &FolderServiceImpl{
		Repo:         repo,
		AuditService: auditService,
		Logger:       logger,
		now:          time.Now,
	}
}

func validate(req FolderRequest) (FolderRequest, common_models.Visibility, error) {
	fields := map[string]string{}
	req.Name = common_models.CheckName(fields, "name", req.Name)
	req.Description = common_models.CheckDescription(fields, "description", req.Description)
	visibility, err := common_models.ParseVisibility(req.Visibility)
	if err != nil {
		fields["visibility"] = err.Error()
	}
	if len(fields) > 0 {
		return req, "", apperror.ValidationFields(fields)
	}
	return req, visibility, nil
}

func (s *FolderServiceImpl) Create(ctx context.Context, req FolderRequest, userID string) (*Folder, error) {
	req, visibility, err := validate(req)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	folder := &Folder{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   userID,
		Visibility:  visibility,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, folder); err != nil {
		return nil, apperror.Internal("Failed to create folder", err)
	}

	s.audit(ctx, common_models.AuditActionCreate, folder.ID.Hex(), map[string]common_models.Change{
		"folder": {New: folder},
	})
	return folder, nil
}

func (s *FolderServiceImpl) load(ctx context.Context, id string) (*Folder, error) {
	folder, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, apperror.Internal("Failed to load folder", err)
	}
	if folder == nil {
		return nil, apperror.NotFound("Folder not found with id: %s", id)
	}
	return folder, nil
}

func (s *FolderServiceImpl) owned(ctx context.Context, id, userID string) (*Folder, error) {
	folder, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if folder.CreatedBy != userID {
		return nil, apperror.Forbidden("You can only modify your own folders")
	}
	return folder, nil
}

func (s *FolderServiceImpl) Get(ctx context.Context, id string, userID string) (*Folder, error) {
	folder, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !common_models.CanRead(folder.CreatedBy, folder.Visibility, userID) {
		return nil, apperror.Forbidden("You do not have access to this folder")
	}
	return folder, nil
}

func (s *FolderServiceImpl) Update(ctx context.Context, id string, req FolderRequest, userID string) (*Folder, error) {
	existing, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	req, visibility, err := validate(req)
	if err != nil {
		return nil, err
	}

	old := *existing
	existing.Name = req.Name
	existing.Description = req.Description
	existing.Visibility = visibility
	existing.UpdatedAt = s.now().UTC()
	if err := s.Repo.Update(ctx, existing); err != nil {
		return nil, apperror.Internal("Failed to update folder", err)
	}

	s.audit(ctx, common_models.AuditActionUpdate, id, map[string]common_models.Change{
		"folder": {Old: old, New: existing},
	})
	return existing, nil
}

func (s *FolderServiceImpl) Delete(ctx context.Context, id string, userID string) error {
	existing, err := s.owned(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return apperror.Internal("Failed to delete folder", err)
	}

	s.audit(ctx, common_models.AuditActionDelete, id, map[string]common_models.Change{
		"folder": {Old: existing, New: "DELETED"},
	})
	return nil
}

func (s *FolderServiceImpl) find(ctx context.Context, query common_models.ListQuery) ([]Folder, error) {
	folders, err := s.Repo.Find(ctx, query)
	if err != nil {
		return nil, apperror.Internal("Failed to list folders", err)
	}
	return folders, nil
}

func (s *FolderServiceImpl) List(ctx context.Context, userID string) ([]Folder, error) {
	return s.find(ctx, common_models.ListQuery{Owner: userID})
}

func (s *FolderServiceImpl) Favorites(ctx context.Context, userID string) ([]Folder, error) {
	return s.find(ctx, common_models.ListQuery{Owner: userID, Favorite: true})
}

func (s *FolderServiceImpl) ByVisibility(ctx context.Context, visibility string, userID string) ([]Folder, error) {
	v, err := common_models.ParseVisibility(visibility)
	if err != nil {
		return nil, apperror.ValidationFields(map[string]string{"visibility": err.Error()})
	}
	return s.find(ctx, common_models.ListQuery{Owner: userID, Visibility: v})
}

func (s *FolderServiceImpl) Public(ctx context.Context) ([]Folder, error) {
	return s.find(ctx, common_models.ListQuery{Visibility: common_models.VisibilityPublic})
}

func (s *FolderServiceImpl) ToggleFavorite(ctx context.Context, id string, userID string) (*Folder, error) {
	existing, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return s.saveFavorite(ctx, existing, !existing.Favorite)
}

func (s *FolderServiceImpl) SetFavorite(ctx context.Context, id string, userID string, favorite bool) (*Folder, error) {
	existing, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return s.saveFavorite(ctx, existing, favorite)
}

func (s *FolderServiceImpl) saveFavorite(ctx context.Context, folder *Folder, favorite bool) (*Folder, error) {
	old := folder.Favorite
	folder.Favorite = favorite
	folder.UpdatedAt = s.now().UTC()
	if err := s.Repo.Update(ctx, folder); err != nil {
		return nil, apperror.Internal("Failed to update folder", err)
	}

	s.audit(ctx, common_models.AuditActionFavorite, folder.ID.Hex(), map[string]common_models.Change{
		"favorite": {Old: old, New: favorite},
	})
	return folder, nil
}

func (s *FolderServiceImpl) Names(ctx context.Context, ids []string) (map[string]string, error) {
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
	names, err := s.Repo.Names(ctx, unique)
	if err != nil {
		return nil, apperror.Internal("Failed to resolve folder names", err)
	}
	return names, nil
}

// audit failures are logged by the audit service and never fail the mutation.
func (s *FolderServiceImpl) audit(ctx context.Context, action common_models.AuditAction, id string, changes map[string]common_models.Change) {
	_ = s.AuditService.LogChange(ctx, action, audit.EntityFolder, id, changes)
}
