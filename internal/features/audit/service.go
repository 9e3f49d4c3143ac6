package audit

import (
	"context"
	"time"

	common_models "crm-analytics/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	EntityReport    = "reports"
	EntityDashboard = "dashboards"
	EntityFolder    = "folders"
)

type AuditService interface {
	LogChange(ctx context.Context, action common_models.AuditAction, entity string, entityID string, changes map[string]common_models.Change) error
	ListLogs(ctx context.Context, filter Filter, page, limit int64) ([]common_models.AuditLog, error)
}

type AuditServiceImpl struct {
	Repo   AuditRepository
	Logger *zap.Logger
	now    func() time.Time
}

func NewAuditService(repo AuditRepository, logger *zap.Logger) AuditService {
	return &AuditServiceImpl{
		Repo:   repo,
		Logger: logger,
		now:    time.Now,
	}
}

// LogChange records who changed what. The actor and request id come from ctx.
func (s *AuditServiceImpl) LogChange(ctx context.Context, action common_models.AuditAction, entity string, entityID string, changes map[string]common_models.Change) error {
	log := common_models.AuditLog{
		ID:        primitive.NewObjectID(),
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		ActorID:   common_models.UserIDFrom(ctx),
		RequestID: common_models.RequestIDFrom(ctx),
		Changes:   changes,
		Timestamp: s.now().UTC(),
	}

	if err := s.Repo.Create(ctx, log); err != nil {
		s.Logger.Warn("audit log not written",
			zap.String("entity", entity),
			zap.String("entityId", entityID),
			zap.String("action", string(action)),
			zap.String("userId", log.ActorID),
			zap.String("requestId", log.RequestID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *AuditServiceImpl) ListLogs(ctx context.Context, filter Filter, page, limit int64) ([]common_models.AuditLog, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 200 {
		limit = 200
	}
	offset := (page - 1) * limit
	return s.Repo.List(ctx, filter, limit, offset)
}
