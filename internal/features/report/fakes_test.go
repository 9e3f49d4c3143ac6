package report

import (
	"context"
	"errors"
	"sync"
	"time"

	"crm-analytics/internal/common/apperror"
	common_models "crm-analytics/internal/common/models"
	"crm-analytics/internal/features/audit"
	"crm-analytics/internal/features/execution"
	"crm-analytics/internal/features/folder"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type memoryReportRepo struct {
	mu      sync.Mutex
	reports []*Report
	stamps  int
}

func (r *memoryReportRepo) Create(ctx context.Context, report *Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	report.ID = primitive.NewObjectID()
	stored := *report
	r.reports = append(r.reports, &stored)
	return nil
}

func (r *memoryReportRepo) Get(ctx context.Context, id string) (*Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rep := range r.reports {
		if rep.ID.Hex() == id {
			out := *rep
			return &out, nil
		}
	}
	return nil, nil
}

func (r *memoryReportRepo) Find(ctx context.Context, query common_models.ListQuery) ([]Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Report{}
	for _, rep := range r.reports {
		if query.Matches(rep.CreatedBy, rep.Visibility, rep.Favorite, rep.FolderID, rep.Name) {
			out = append(out, *rep)
		}
	}
	return out, nil
}

func (r *memoryReportRepo) Update(ctx context.Context, report *Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, rep := range r.reports {
		if rep.ID == report.ID {
			stored := *report
			stored.LastRunAt = rep.LastRunAt
			r.reports[i] = &stored
			return nil
		}
	}
	return errReportNotFound
}

func (r *memoryReportRepo) StampRun(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rep := range r.reports {
		if rep.ID == id {
			rep.LastRunAt = &at
			r.stamps++
			return nil
		}
	}
	return errReportNotFound
}

func (r *memoryReportRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, rep := range r.reports {
		if rep.ID.Hex() == id {
			r.reports = append(r.reports[:i], r.reports[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memoryReportRepo) Names(ctx context.Context, ids []string) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := map[string]string{}
	for _, id := range ids {
		for _, rep := range r.reports {
			if rep.ID.Hex() == id {
				names[id] = rep.Name
			}
		}
	}
	return names, nil
}

func (r *memoryReportRepo) stored(id primitive.ObjectID) *Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rep := range r.reports {
		if rep.ID == id {
			out := *rep
			return &out
		}
	}
	return nil
}

// fakeFolders serves Get and Names from a fixed set of folders.
type fakeFolders struct {
	folder.FolderService
	folders map[string]folder.Folder
}

func (f *fakeFolders) Get(ctx context.Context, id string, userID string) (*folder.Folder, error) {
	fo, ok := f.folders[id]
	if !ok {
		return nil, apperror.NotFound("Folder not found with id: %s", id)
	}
	if !common_models.CanRead(fo.CreatedBy, fo.Visibility, userID) {
		return nil, apperror.Forbidden("You do not have access to this folder")
	}
	return &fo, nil
}

func (f *fakeFolders) Names(ctx context.Context, ids []string) (map[string]string, error) {
	names := map[string]string{}
	for _, id := range ids {
		if fo, ok := f.folders[id]; ok {
			names[id] = fo.Name
		}
	}
	return names, nil
}

type fakeExecution struct {
	mu       sync.Mutex
	requests []execution.Request
	err      error
}

func (f *fakeExecution) Execute(ctx context.Context, req execution.Request, userID string) (*execution.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &execution.Result{Columns: req.Columns, Rows: []execution.Row{}, ExecutedAt: "2024-06-01T12:00:00Z"}, nil
}

func (f *fakeExecution) Export(ctx context.Context, req execution.Request, userID string, format string) (*execution.Export, error) {
	result, err := f.Execute(ctx, req, userID)
	if err != nil {
		return nil, err
	}
	return execution.Render(result, execution.FormatCSV, "Lead", time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
}

type recordingAudit struct {
	mu      sync.Mutex
	actions []common_models.AuditAction
}

func (a *recordingAudit) LogChange(ctx context.Context, action common_models.AuditAction, entity string, entityID string, changes map[string]common_models.Change) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
	return nil
}

func (a *recordingAudit) ListLogs(ctx context.Context, filter audit.Filter, page, limit int64) ([]common_models.AuditLog, error) {
	return nil, errors.New("not used")
}

type testEnv struct {
	svc     *ReportServiceImpl
	repo    *memoryReportRepo
	folders *fakeFolders
	exec    *fakeExecution
	audit   *recordingAudit
}

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestEnv() *testEnv {
	env := &testEnv{
		repo:    &memoryReportRepo{},
		folders: &fakeFolders{folders: map[string]folder.Folder{}},
		exec:    &fakeExecution{},
		audit:   &recordingAudit{},
	}
	env.svc = NewReportService(env.repo, env.folders, env.exec, env.audit, zap.NewNop()).(*ReportServiceImpl)
	env.svc.now = func() time.Time { return testNow }
	return env
}

func (e *testEnv) addFolder(name, owner string, visibility common_models.Visibility) string {
	id := primitive.NewObjectID()
	e.folders.folders[id.Hex()] = folder.Folder{ID: id, Name: name, CreatedBy: owner, Visibility: visibility}
	return id.Hex()
}

func leadRequest(name string) ReportRequest {
	return ReportRequest{
		ReportName: name,
		Module:     "Lead",
		Definition: execution.Definition{Columns: []string{"Lead Name", "Email"}},
	}
}
