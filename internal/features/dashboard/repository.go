package dashboard

import (
	"context"
	"errors"

	common_models "crm-analytics/internal/common/models"
	"crm-analytics/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "dashboards"

type DashboardRepository interface {
	Create(ctx context.Context, dashboard *Dashboard) error
	// Get returns nil without error when no dashboard has the id.
	Get(ctx context.Context, id string) (*Dashboard, error)
	Find(ctx context.Context, query common_models.ListQuery) ([]Dashboard, error)
	// Update writes the dashboard including its full tile list in one
	// document update.
	Update(ctx context.Context, dashboard *Dashboard) error
	Delete(ctx context.Context, id string) error
}

type DashboardRepositoryImpl struct {
	collection *mongo.Collection
}

func NewDashboardRepository(db *database.MongodbDB) DashboardRepository {
	return &DashboardRepositoryImpl{
		collection: db.DB.Collection(collectionName),
	}
}

func Indexes() database.IndexSpec {
	return database.IndexSpec{
		Collection: collectionName,
		Models: []mongo.IndexModel{
			{Keys: bson.D{{Key: "created_by", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "folder_id", Value: 1}}},
			{Keys: bson.D{{Key: "visibility", Value: 1}}},
		},
	}
}

func (r *DashboardRepositoryImpl) Create(ctx context.Context, dashboard *Dashboard) error {
	if dashboard.ID.IsZero() {
		dashboard.ID = primitive.NewObjectID()
	}
	for i := range dashboard.Tiles {
		dashboard.Tiles[i].DashboardID = dashboard.ID.Hex()
	}

	_, err := r.collection.InsertOne(ctx, dashboard)
	return err
}

func (r *DashboardRepositoryImpl) Get(ctx context.Context, id string) (*Dashboard, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var dashboard Dashboard
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&dashboard)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dashboard, nil
}

func (r *DashboardRepositoryImpl) Find(ctx context.Context, query common_models.ListQuery) ([]Dashboard, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, query.Filter(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	dashboards := []Dashboard{}
	if err = cursor.All(ctx, &dashboards); err != nil {
		return nil, err
	}
	return dashboards, nil
}

func (r *DashboardRepositoryImpl) Update(ctx context.Context, dashboard *Dashboard) error {
	update := bson.M{
		"$set": bson.M{
			"name":        dashboard.Name,
			"description": dashboard.Description,
			"folder_id":   dashboard.FolderID,
			"visibility":  dashboard.Visibility,
			"favorite":    dashboard.Favorite,
			"tiles":       dashboard.Tiles,
			"updated_at":  dashboard.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": dashboard.ID}, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return errors.New("dashboard not found")
	}

	return nil
}

func (r *DashboardRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
