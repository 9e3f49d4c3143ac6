package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"crm-analytics/internal/common/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(handler fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
	app.Get("/", handler)
	return app
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   apperror.Kind
	}{
		{"validation", apperror.ValidationFields(map[string]string{"module": "Module is required"}), 400, apperror.KindValidation},
		{"not found", apperror.NotFound("Report not found"), 404, apperror.KindNotFound},
		{"forbidden", apperror.Forbidden("Access denied"), 403, apperror.KindForbidden},
		{"upstream wrapped", fmt.Errorf("run: %w", apperror.Upstream("Lead down", errors.New("refused"))), 502, apperror.KindUpstream},
		{"fiber not found", fiber.ErrNotFound, 404, apperror.KindNotFound},
		{"plain", errors.New("boom"), 500, apperror.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body Response
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestErrorHandlerCarriesFieldErrors(t *testing.T) {
	app := newTestApp(func(c *fiber.Ctx) error {
		return apperror.ValidationFields(map[string]string{"reportName": "Report name is required"})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	var body Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Report name is required", body.Errors["reportName"])
}

func TestUserIDDefault(t *testing.T) {
	app := newTestApp(func(c *fiber.Ctx) error { return OK(c, "ok", UserID(c)) })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	var body Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, "default-user", body.Data)
}
