package folder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"crm-analytics/internal/common/apperror"
	common_models "crm-analytics/internal/common/models"
	"crm-analytics/internal/features/audit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type memoryFolderRepo struct {
	mu      sync.Mutex
	folders []*Folder
}

func (r *memoryFolderRepo) Create(ctx context.Context, folder *Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	folder.ID = primitive.NewObjectID()
	stored := *folder
	r.folders = append(r.folders, &stored)
	return nil
}

func (r *memoryFolderRepo) Get(ctx context.Context, id string) (*Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.folders {
		if f.ID.Hex() == id {
			out := *f
			return &out, nil
		}
	}
	return nil, nil
}

func (r *memoryFolderRepo) Find(ctx context.Context, query common_models.ListQuery) ([]Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Folder{}
	for _, f := range r.folders {
		if query.Matches(f.CreatedBy, f.Visibility, f.Favorite, "", f.Name) {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *memoryFolderRepo) Update(ctx context.Context, folder *Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, f := range r.folders {
		if f.ID == folder.ID {
			stored := *folder
			r.folders[i] = &stored
			return nil
		}
	}
	return errors.New("folder not found")
}

func (r *memoryFolderRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, f := range r.folders {
		if f.ID.Hex() == id {
			r.folders = append(r.folders[:i], r.folders[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memoryFolderRepo) Names(ctx context.Context, ids []string) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := map[string]string{}
	for _, id := range ids {
		for _, f := range r.folders {
			if f.ID.Hex() == id {
				names[id] = f.Name
			}
		}
	}
	return names, nil
}

type recordingAudit struct {
	mu      sync.Mutex
	actions []common_models.AuditAction
	fail    bool
}

func (a *recordingAudit) LogChange(ctx context.Context, action common_models.AuditAction, entity string, entityID string, changes map[string]common_models.Change) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
	if a.fail {
		return errors.New("audit store down")
	}
	return nil
}

func (a *recordingAudit) ListLogs(ctx context.Context, filter audit.Filter, page, limit int64) ([]common_models.AuditLog, error) {
	return nil, nil
}

func newTestService() (*FolderServiceImpl, *memoryFolderRepo, *recordingAudit) {
	repo := &memoryFolderRepo{}
	rec := &recordingAudit{}
	svc := NewFolderService(repo, rec, zap.NewNop()).(*FolderServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, repo, rec
}

func TestCreateFolder(t *testing.T) {
	svc, _, rec := newTestService()
	ctx := context.Background()

	folder, err := svc.Create(ctx, FolderRequest{Name: "  Sales  ", Description: "Q3"}, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Sales", folder.Name)
	assert.Equal(t, "u1", folder.CreatedBy)
	assert.Equal(t, common_models.VisibilityPrivate, folder.Visibility)
	assert.False(t, folder.ID.IsZero())
	assert.Equal(t, []common_models.AuditAction{common_models.AuditActionCreate}, rec.actions)
}

func TestCreateFolderValidation(t *testing.T) {
	svc, repo, _ := newTestService()

	_, err := svc.Create(context.Background(), FolderRequest{Name: " ", Visibility: "team"}, "u1")
	require.Error(t, err)

	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "name")
	assert.Contains(t, appErr.Fields, "visibility")
	assert.Empty(t, repo.folders)
}

func TestFolderAccess(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	private, err := svc.Create(ctx, FolderRequest{Name: "Mine"}, "u1")
	require.NoError(t, err)
	shared, err := svc.Create(ctx, FolderRequest{Name: "Team", Visibility: "SHARED"}, "u1")
	require.NoError(t, err)

	_, err = svc.Get(ctx, private.ID.Hex(), "u2")
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	got, err := svc.Get(ctx, shared.ID.Hex(), "u2")
	require.NoError(t, err)
	assert.Equal(t, "Team", got.Name)

	_, err = svc.Get(ctx, primitive.NewObjectID().Hex(), "u1")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = svc.Update(ctx, shared.ID.Hex(), FolderRequest{Name: "Hijack"}, "u2")
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	err = svc.Delete(ctx, shared.ID.Hex(), "u2")
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	err = svc.Delete(ctx, "missing", "u2")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestUpdateAndDeleteFolder(t *testing.T) {
	svc, repo, rec := newTestService()
	ctx := context.Background()

	folder, err := svc.Create(ctx, FolderRequest{Name: "Draft"}, "u1")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, folder.ID.Hex(), FolderRequest{Name: "Final", Visibility: "public"}, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Name)
	assert.Equal(t, common_models.VisibilityPublic, updated.Visibility)

	require.NoError(t, svc.Delete(ctx, folder.ID.Hex(), "u1"))
	assert.Empty(t, repo.folders)
	assert.Equal(t, []common_models.AuditAction{
		common_models.AuditActionCreate,
		common_models.AuditActionUpdate,
		common_models.AuditActionDelete,
	}, rec.actions)
}

func TestFolderFavoritesAndViews(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	a, _ := svc.Create(ctx, FolderRequest{Name: "A"}, "u1")
	_, _ = svc.Create(ctx, FolderRequest{Name: "B", Visibility: "PUBLIC"}, "u1")
	_, _ = svc.Create(ctx, FolderRequest{Name: "C", Visibility: "PUBLIC"}, "u2")

	toggled, err := svc.ToggleFavorite(ctx, a.ID.Hex(), "u1")
	require.NoError(t, err)
	assert.True(t, toggled.Favorite)

	favorites, err := svc.Favorites(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, "A", favorites[0].Name)

	_, err = svc.SetFavorite(ctx, a.ID.Hex(), "u1", true)
	require.NoError(t, err)
	favorites, _ = svc.Favorites(ctx, "u1")
	assert.Len(t, favorites, 1)

	_, err = svc.SetFavorite(ctx, a.ID.Hex(), "u1", false)
	require.NoError(t, err)
	favorites, _ = svc.Favorites(ctx, "u1")
	assert.Empty(t, favorites)

	mine, _ := svc.List(ctx, "u1")
	assert.Len(t, mine, 2)

	public, _ := svc.Public(ctx)
	assert.Len(t, public, 2)

	byVisibility, err := svc.ByVisibility(ctx, "public", "u1")
	require.NoError(t, err)
	require.Len(t, byVisibility, 1)
	assert.Equal(t, "B", byVisibility[0].Name)

	_, err = svc.ByVisibility(ctx, "everyone", "u1")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestAuditFailureDoesNotFailMutation(t *testing.T) {
	svc, _, rec := newTestService()
	rec.fail = true

	_, err := svc.Create(context.Background(), FolderRequest{Name: "Still saved"}, "u1")
	assert.NoError(t, err)
}

func TestNamesSkipsBlankAndUnknownIDs(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	a, _ := svc.Create(ctx, FolderRequest{Name: "A"}, "u1")

	names, err := svc.Names(ctx, []string{a.ID.Hex(), "", a.ID.Hex(), primitive.NewObjectID().Hex()})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{a.ID.Hex(): "A"}, names)
}
