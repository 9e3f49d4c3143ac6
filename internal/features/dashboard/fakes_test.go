package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"crm-analytics/internal/common/apperror"
	common_models "crm-analytics/internal/common/models"
	"crm-analytics/internal/config"
	"crm-analytics/internal/crm"
	"crm-analytics/internal/features/audit"
	"crm-analytics/internal/features/execution"
	"crm-analytics/internal/features/folder"
	"crm-analytics/internal/features/report"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type memoryDashboardRepo struct {
	mu         sync.Mutex
	dashboards []*Dashboard
}

func clone(d *Dashboard) *Dashboard {
	out := *d
	out.Tiles = append([]Tile(nil), d.Tiles...)
	return &out
}

func (r *memoryDashboardRepo) Create(ctx context.Context, dashboard *Dashboard) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if dashboard.ID.IsZero() {
		dashboard.ID = primitive.NewObjectID()
	}
	r.dashboards = append(r.dashboards, clone(dashboard))
	return nil
}

func (r *memoryDashboardRepo) Get(ctx context.Context, id string) (*Dashboard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.dashboards {
		if d.ID.Hex() == id {
			return clone(d), nil
		}
	}
	return nil, nil
}

func (r *memoryDashboardRepo) Find(ctx context.Context, query common_models.ListQuery) ([]Dashboard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Dashboard{}
	for _, d := range r.dashboards {
		if query.Matches(d.CreatedBy, d.Visibility, d.Favorite, d.FolderID, d.Name) {
			out = append(out, *clone(d))
		}
	}
	return out, nil
}

func (r *memoryDashboardRepo) Update(ctx context.Context, dashboard *Dashboard) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, d := range r.dashboards {
		if d.ID == dashboard.ID {
			r.dashboards[i] = clone(dashboard)
			return nil
		}
	}
	return errors.New("dashboard not found")
}

func (r *memoryDashboardRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, d := range r.dashboards {
		if d.ID.Hex() == id {
			r.dashboards = append(r.dashboards[:i], r.dashboards[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memoryDashboardRepo) stored(id primitive.ObjectID) *Dashboard {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.dashboards {
		if d.ID == id {
			return clone(d)
		}
	}
	return nil
}

// fakeReports serves Get and Names from a fixed set of reports.
type fakeReports struct {
	report.ReportService
	mu      sync.Mutex
	reports map[string]report.Report
}

func (f *fakeReports) Get(ctx context.Context, id string, userID string) (*report.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reports[id]
	if !ok {
		return nil, apperror.NotFound("Report not found with id: %s", id)
	}
	if !common_models.CanRead(r.CreatedBy, r.Visibility, userID) {
		return nil, apperror.Forbidden("You do not have access to this report")
	}
	return &r, nil
}

func (f *fakeReports) Names(ctx context.Context, ids []string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := map[string]string{}
	for _, id := range ids {
		if r, ok := f.reports[id]; ok {
			names[id] = r.Name
		}
	}
	return names, nil
}

func (f *fakeReports) remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.reports, id)
}

type fakeFolders struct {
	folder.FolderService
	folders map[string]folder.Folder
}

func (f *fakeFolders) Get(ctx context.Context, id string, userID string) (*folder.Folder, error) {
	fo, ok := f.folders[id]
	if !ok {
		return nil, apperror.NotFound("Folder not found with id: %s", id)
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

// fakeExecution answers per module. A module listed in failing returns an
// upstream error, one listed in blocking waits for ctx to end.
type fakeExecution struct {
	failing  map[crm.Module]bool
	blocking map[crm.Module]bool
	// gate, when set, holds every call until that many calls are in flight.
	gate     int32
	inFlight atomic.Int32
	release  chan struct{}
	once     sync.Once
	calls    atomic.Int32
}

func (f *fakeExecution) Execute(ctx context.Context, req execution.Request, userID string) (*execution.Result, error) {
	f.calls.Add(1)
	module := crm.Module(req.Module)

	if f.gate > 0 {
		if f.inFlight.Add(1) == f.gate {
			f.once.Do(func() { close(f.release) })
		}
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if f.blocking[module] {
		<-ctx.Done()
		return nil, apperror.Upstream(fmt.Sprintf("Failed to fetch %s data", module.Label()), ctx.Err())
	}
	if f.failing[module] {
		return nil, apperror.Upstream(fmt.Sprintf("Failed to fetch %s data", module.Label()), errors.New("connection refused"))
	}
	return &execution.Result{
		Columns:      req.Columns,
		Rows:         []execution.Row{},
		TotalRecords: 0,
		ExecutedAt:   "2024-06-01T12:00:00Z",
	}, nil
}

func (f *fakeExecution) Export(ctx context.Context, req execution.Request, userID string, format string) (*execution.Export, error) {
	return nil, errors.New("not used")
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
	return nil, nil
}

type testEnv struct {
	svc     *DashboardServiceImpl
	repo    *memoryDashboardRepo
	reports *fakeReports
	folders *fakeFolders
	exec    *fakeExecution
	audit   *recordingAudit
}

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestEnv() *testEnv {
	env := &testEnv{
		repo:    &memoryDashboardRepo{},
		reports: &fakeReports{reports: map[string]report.Report{}},
		folders: &fakeFolders{folders: map[string]folder.Folder{}},
		exec:    &fakeExecution{release: make(chan struct{})},
		audit:   &recordingAudit{},
	}
	cfg := &config.Config{TileTimeout: time.Second}
	env.svc = NewDashboardService(env.repo, env.reports, env.folders, env.exec, env.audit, cfg, zap.NewNop()).(*DashboardServiceImpl)
	env.svc.now = func() time.Time { return testNow }
	n := 0
	env.svc.newID = func() string {
		n++
		return fmt.Sprintf("tile-%d", n)
	}
	return env
}

func (e *testEnv) addReport(name, owner string, module crm.Module, visibility common_models.Visibility) string {
	id := primitive.NewObjectID()
	e.reports.mu.Lock()
	defer e.reports.mu.Unlock()
	e.reports.reports[id.Hex()] = report.Report{
		ID:         id,
		Name:       name,
		CreatedBy:  owner,
		Module:     module,
		Visibility: visibility,
		Definition: execution.Definition{Version: 1, Columns: []string{"Email"}, Filters: map[string]any{}},
	}
	return id.Hex()
}
