package audit

import (
	"context"

	common_models "crm-analytics/internal/common/models"
	"crm-analytics/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "audit_logs"

// Filter narrows an audit listing. Empty fields match everything.
type Filter struct {
	Entity   string
	EntityID string
}

type AuditRepository interface {
	Create(ctx context.Context, log common_models.AuditLog) error
	List(ctx context.Context, filter Filter, limit, offset int64) ([]common_models.AuditLog, error)
}

type AuditRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewAuditRepository(mongodb *database.MongodbDB) AuditRepository {
	return &AuditRepositoryImpl{
		Collection: mongodb.DB.Collection(collectionName),
	}
}

// Indexes backs the entity lookup used by the audit listing.
func Indexes() database.IndexSpec {
	return database.IndexSpec{
		Collection: collectionName,
		Models: []mongo.IndexModel{
			{Keys: bson.D{{Key: "entity", Value: 1}, {Key: "entity_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		},
	}
}

func (r *AuditRepositoryImpl) Create(ctx context.Context, log common_models.AuditLog) error {
	_, err := r.Collection.InsertOne(ctx, log)
	return err
}

func (r *AuditRepositoryImpl) List(ctx context.Context, filter Filter, limit, offset int64) ([]common_models.AuditLog, error) {
	opts := options.Find().SetLimit(limit).SetSkip(offset).SetSort(bson.M{"timestamp": -1})

	query := bson.M{}
	if filter.Entity != "" {
		query["entity"] = filter.Entity
	}
	if filter.EntityID != "" {
		query["entity_id"] = filter.EntityID
	}

	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	logs := []common_models.AuditLog{}
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
