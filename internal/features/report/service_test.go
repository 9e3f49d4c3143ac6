package report

import (
	"context"
	"errors"
	"testing"

	"crm-analytics/internal/common/apperror"
	common_models "crm-analytics/internal/common/models"
	"crm-analytics/internal/crm"
	"crm-analytics/internal/features/execution"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr), "expected *apperror.Error, got %v", err)
	require.Equal(t, apperror.KindValidation, appErr.Kind)
	return appErr.Fields
}

func TestCreateReport(t *testing.T) {
	env := newTestEnv()
	folderID := env.addFolder("Sales", "u1", common_models.VisibilityPrivate)

	req := leadRequest("  Open leads ")
	req.FolderID = folderID
	req.Definition.Groups = []string{" Status ", ""}
	req.Charts = []Chart{{Type: " BAR ", XAxis: "Status", YAxis: "Budget"}, {}}

	report, err := env.svc.Create(context.Background(), req, "u1")
	require.NoError(t, err)

	assert.Equal(t, "Open leads", report.Name)
	assert.Equal(t, crm.ModuleLead, report.Module)
	assert.Equal(t, "u1", report.CreatedBy)
	assert.Equal(t, common_models.VisibilityPrivate, report.Visibility)
	assert.Equal(t, "Sales", report.FolderName)
	assert.Equal(t, execution.CurrentVersion, report.Definition.Version)
	assert.Equal(t, []string{"Status"}, report.Definition.Groups)
	assert.Equal(t, map[string]any{}, report.Definition.Filters)
	assert.Equal(t, []Chart{{Type: "bar", XAxis: "Status", YAxis: "Budget"}}, report.Charts)
	assert.Equal(t, testNow, report.CreatedAt)
	assert.Nil(t, report.LastRunAt)
	assert.Equal(t, []common_models.AuditAction{common_models.AuditActionCreate}, env.audit.actions)
}

func TestCreateReportValidation(t *testing.T) {
	env := newTestEnv()
	otherFolder := env.addFolder("Theirs", "u2", common_models.VisibilityPrivate)

	_, err := env.svc.Create(context.Background(), ReportRequest{
		Module:     "INVOICE",
		Visibility: "team",
		FolderID:   otherFolder,
		Definition: execution.Definition{Version: 7, Columns: []string{"Email", " "}},
	}, "u1")

	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "reportName")
	assert.Contains(t, fields, "module")
	assert.Contains(t, fields, "visibility")
	assert.Contains(t, fields, "folderId")
	assert.Contains(t, fields, "definition.version")
	assert.NotContains(t, fields, "definition.columns")
	assert.Empty(t, env.repo.reports)
	assert.Empty(t, env.audit.actions)
}

func TestReportReadAccess(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	private, err := env.svc.Create(ctx, leadRequest("Private"), "u1")
	require.NoError(t, err)
	sharedReq := leadRequest("Shared")
	sharedReq.Visibility = "SHARED"
	shared, err := env.svc.Create(ctx, sharedReq, "u1")
	require.NoError(t, err)

	_, err = env.svc.Get(ctx, private.ID.Hex(), "u2")
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	got, err := env.svc.Get(ctx, shared.ID.Hex(), "u2")
	require.NoError(t, err)
	assert.Equal(t, "Shared", got.Name)

	_, err = env.svc.Get(ctx, primitive.NewObjectID().Hex(), "u1")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = env.svc.Get(ctx, "not-an-object-id", "u1")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestReportMutationIsOwnerOnly(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	req := leadRequest("Shared")
	req.Visibility = "PUBLIC"
	report, err := env.svc.Create(ctx, req, "u1")
	require.NoError(t, err)
	id := report.ID.Hex()

	_, err = env.svc.Update(ctx, id, leadRequest("Mine now"), "u2")
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	err = env.svc.Delete(ctx, id, "u2")
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = env.svc.ToggleFavorite(ctx, id, "u2")
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = env.svc.Update(ctx, primitive.NewObjectID().Hex(), leadRequest("x"), "u2")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	assert.Equal(t, "Shared", env.repo.stored(report.ID).Name)
}

func TestUpdateReportKeepsModule(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	report, err := env.svc.Create(ctx, leadRequest("Leads"), "u1")
	require.NoError(t, err)
	id := report.ID.Hex()

	changed := leadRequest("Accounts")
	changed.Module = "ACCOUNT"
	_, err = env.svc.Update(ctx, id, changed, "u1")
	assert.Equal(t, "module cannot be changed after creation", fieldsOf(t, err)["module"])

	same := leadRequest("Renamed")
	same.Module = "leads"
	updated, err := env.svc.Update(ctx, id, same, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, crm.ModuleLead, updated.Module)

	omitted := leadRequest("Renamed again")
	omitted.Module = ""
	omitted.Definition.Columns = []string{"Status"}
	updated, err = env.svc.Update(ctx, id, omitted, "u1")
	require.NoError(t, err)
	assert.Equal(t, crm.ModuleLead, updated.Module)
	assert.Equal(t, []string{"Status"}, env.repo.stored(report.ID).Definition.Columns)
}

func TestDeleteReport(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	report, err := env.svc.Create(ctx, leadRequest("Leads"), "u1")
	require.NoError(t, err)

	require.NoError(t, env.svc.Delete(ctx, report.ID.Hex(), "u1"))
	assert.Nil(t, env.repo.stored(report.ID))

	_, err = env.svc.Get(ctx, report.ID.Hex(), "u1")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestRunOnlyStamps(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	report, err := env.svc.Create(ctx, leadRequest("Leads"), "u1")
	require.NoError(t, err)

	ran, err := env.svc.Run(ctx, report.ID.Hex(), "u1")
	require.NoError(t, err)
	require.NotNil(t, ran.LastRunAt)
	assert.Equal(t, testNow, *ran.LastRunAt)
	assert.Equal(t, testNow, *env.repo.stored(report.ID).LastRunAt)
	assert.Empty(t, env.exec.requests)
	assert.Contains(t, env.audit.actions, common_models.AuditActionRun)
}

func TestExecuteSavedReport(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	req := leadRequest("Leads")
	req.Definition.Filters = map[string]any{"show": "MY_LEADS"}
	report, err := env.svc.Create(ctx, req, "u1")
	require.NoError(t, err)

	result, err := env.svc.Execute(ctx, report.ID.Hex(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Lead Name", "Email"}, result.Columns)

	require.Len(t, env.exec.requests, 1)
	sent := env.exec.requests[0]
	assert.Equal(t, "LEAD", sent.Module)
	assert.Equal(t, "MY_LEADS", sent.Filters["show"])
	assert.NotNil(t, env.repo.stored(report.ID).LastRunAt)
}

func TestExecuteSavedReportFailureDoesNotStamp(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	report, err := env.svc.Create(ctx, leadRequest("Leads"), "u1")
	require.NoError(t, err)

	env.exec.err = apperror.Upstream("Failed to fetch Lead data", errors.New("connection refused"))
	_, err = env.svc.Execute(ctx, report.ID.Hex(), "u1")
	assert.True(t, apperror.Is(err, apperror.KindUpstream))
	assert.Nil(t, env.repo.stored(report.ID).LastRunAt)
	assert.Zero(t, env.repo.stamps)
}

func TestExecuteRequiresReadAccess(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	report, err := env.svc.Create(ctx, leadRequest("Leads"), "u1")
	require.NoError(t, err)

	_, err = env.svc.Execute(ctx, report.ID.Hex(), "u2")
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
	_, err = env.svc.Run(ctx, report.ID.Hex(), "u2")
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
	assert.Empty(t, env.exec.requests)
}

func TestExportSavedReport(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	report, err := env.svc.Create(ctx, leadRequest("Leads"), "u1")
	require.NoError(t, err)

	out, err := env.svc.Export(ctx, report.ID.Hex(), "u1", "csv")
	require.NoError(t, err)
	assert.Equal(t, "lead_report_20240601_120000.csv", out.Filename)
	assert.Equal(t, "Lead Name,Email\n", string(out.Data))
	assert.NotNil(t, env.repo.stored(report.ID).LastRunAt)
}

func TestReportListingViews(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	folderID := env.addFolder("Pipeline", "u1", common_models.VisibilityShared)

	create := func(name, owner, visibility, folder string) *Report {
		req := leadRequest(name)
		req.Visibility = visibility
		req.FolderID = folder
		r, err := env.svc.Create(ctx, req, owner)
		require.NoError(t, err)
		return r
	}

	a := create("Alpha leads", "u1", "PRIVATE", folderID)
	create("Beta leads", "u1", "PUBLIC", folderID)
	create("Gamma", "u1", "SHARED", "")
	create("Delta leads", "u2", "PUBLIC", folderID)
	create("Epsilon", "u2", "PRIVATE", folderID)

	names := func(reports []Report, err error) []string {
		require.NoError(t, err)
		out := make([]string, 0, len(reports))
		for _, r := range reports {
			out = append(out, r.Name)
		}
		return out
	}

	assert.ElementsMatch(t, []string{"Alpha leads", "Beta leads", "Gamma"}, names(env.svc.List(ctx, "u1")))
	assert.ElementsMatch(t, []string{"Alpha leads"}, names(env.svc.Private(ctx, "u1")))
	assert.ElementsMatch(t, []string{"Beta leads", "Delta leads"}, names(env.svc.Public(ctx)))
	assert.ElementsMatch(t, []string{"Gamma"}, names(env.svc.ByVisibility(ctx, "shared", "u1")))
	assert.ElementsMatch(t, []string{"Alpha leads", "Beta leads", "Delta leads"}, names(env.svc.ByFolder(ctx, folderID, "u1")))
	assert.ElementsMatch(t, []string{"Beta leads", "Delta leads", "Epsilon"}, names(env.svc.ByFolder(ctx, folderID, "u2")))
	assert.ElementsMatch(t, []string{"Alpha leads", "Beta leads"}, names(env.svc.Search(ctx, "LEADS", "u1")))
	assert.ElementsMatch(t, []string{"Alpha leads", "Beta leads", "Gamma"}, names(env.svc.Search(ctx, "  ", "u1")))

	_, err := env.svc.ByVisibility(ctx, "nobody", "u1")
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	assert.Empty(t, names(env.svc.Favorites(ctx, "u1")))
	_, err = env.svc.ToggleFavorite(ctx, a.ID.Hex(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha leads"}, names(env.svc.Favorites(ctx, "u1")))
	_, err = env.svc.SetFavorite(ctx, a.ID.Hex(), "u1", false)
	require.NoError(t, err)
	assert.Empty(t, names(env.svc.Favorites(ctx, "u1")))

	listed, err := env.svc.List(ctx, "u1")
	require.NoError(t, err)
	for _, r := range listed {
		if r.FolderID == folderID {
			assert.Equal(t, "Pipeline", r.FolderName)
		} else {
			assert.Empty(t, r.FolderName)
		}
	}
}

func TestDeletedFolderResolvesToEmptyName(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	folderID := env.addFolder("Gone soon", "u1", common_models.VisibilityPrivate)

	req := leadRequest("Leads")
	req.FolderID = folderID
	report, err := env.svc.Create(ctx, req, "u1")
	require.NoError(t, err)

	delete(env.folders.folders, folderID)

	got, err := env.svc.Get(ctx, report.ID.Hex(), "u1")
	require.NoError(t, err)
	assert.Equal(t, folderID, got.FolderID)
	assert.Empty(t, got.FolderName)
}

func TestReportNames(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	a, err := env.svc.Create(ctx, leadRequest("A"), "u1")
	require.NoError(t, err)

	names, err := env.svc.Names(ctx, []string{a.ID.Hex(), "", primitive.NewObjectID().Hex()})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{a.ID.Hex(): "A"}, names)
}
