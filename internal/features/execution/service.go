package execution

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"crm-analytics/internal/common/apperror"
	"crm-analytics/internal/config"
	"crm-analytics/internal/crm"
	"crm-analytics/internal/upstream"

	"go.uber.org/zap"
)

type ExecutionService interface {
	// Execute runs a definition against live upstream data. Nothing is cached
	// between calls.
	Execute(ctx context.Context, req Request, userID string) (*Result, error)
	// Export runs Execute and renders the result as a downloadable file.
	Export(ctx context.Context, req Request, userID string, format string) (*Export, error)
}

type ExecutionServiceImpl struct {
	Source upstream.Source
	Config *config.Config
	Logger *zap.Logger
	now    func() time.Time
}

func NewExecutionService(source upstream.Source, cfg *config.Config, logger *zap.Logger) ExecutionService {
	return &ExecutionServiceImpl{
		Source: source,
		Config: cfg,
		Logger: logger.With(zap.String("component", "report_execution")),
		now:    time.Now,
	}
}

func (s *ExecutionServiceImpl) Execute(ctx context.Context, req Request, userID string) (*Result, error) {
	module, err := crm.ParseModule(req.Module)
	if err != nil {
		return nil, apperror.ValidationFields(map[string]string{"module": capitalize(err.Error())})
	}
	def := req.Definition.Normalize()
	if errs := def.Validate(); errs != nil {
		return nil, apperror.ValidationFields(errs)
	}

	r, err := bind(module, s.Source)
	if err != nil {
		return nil, apperror.Validation(err.Error())
	}

	result := &Result{Columns: def.Columns}

	fetched, err := r.fetch(ctx)
	if err != nil {
		if warning, degrade := s.degrade(ctx, module, err); degrade {
			result.Warnings = append(result.Warnings, warning)
		} else {
			return nil, apperror.Upstream(fmt.Sprintf("Failed to fetch %s data", module.Label()), err)
		}
	}

	result.Rows = r.rows(def, userID)
	result.TotalRecords = len(result.Rows)
	result.ExecutedAt = s.now().Format(time.RFC3339Nano)

	s.Logger.Info("report executed",
		zap.String("module", string(module)),
		zap.String("userId", userID),
		zap.Int("fetched", fetched),
		zap.Int("rows", result.TotalRecords),
		zap.Int("warnings", len(result.Warnings)),
	)
	return result, nil
}

// degrade reports whether a failed fetch should continue with no records.
// A cancelled or expired caller context always aborts.
func (s *ExecutionServiceImpl) degrade(ctx context.Context, m crm.Module, err error) (string, bool) {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return "", false
	}
	if s.Config.Upstream(m).OnFailure != config.FailureDegrade {
		return "", false
	}
	s.Logger.Warn("upstream unavailable, continuing with empty data",
		zap.String("module", string(m)),
		zap.Error(err),
	)
	return fmt.Sprintf("%s data unavailable: %v", m.Label(), err), true
}

func (s *ExecutionServiceImpl) Export(ctx context.Context, req Request, userID string, format string) (*Export, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, apperror.ValidationFields(map[string]string{"format": err.Error()})
	}
	result, err := s.Execute(ctx, req, userID)
	if err != nil {
		return nil, err
	}
	module, _ := crm.ParseModule(req.Module)
	out, err := Render(result, f, module.Label(), s.now())
	if err != nil {
		return nil, apperror.Internal("Failed to render export", err)
	}
	return out, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
