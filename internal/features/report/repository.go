package report

import (
	"context"
	"errors"
	"time"

	common_models "crm-analytics/internal/common/models"
	"crm-analytics/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "reports"

var errReportNotFound = errors.New("report not found")

type ReportRepository interface {
	Create(ctx context.Context, report *Report) error
	// Get returns nil without error when no report has the id.
	Get(ctx context.Context, id string) (*Report, error)
	Find(ctx context.Context, query common_models.ListQuery) ([]Report, error)
	Update(ctx context.Context, report *Report) error
	StampRun(ctx context.Context, id primitive.ObjectID, at time.Time) error
	Delete(ctx context.Context, id string) error
	Names(ctx context.Context, ids []string) (map[string]string, error)
}

type ReportRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewReportRepository(db *database.MongodbDB) ReportRepository {
	return &ReportRepositoryImpl{
		Collection: db.DB.Collection(collectionName),
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

func (r *ReportRepositoryImpl) Create(ctx context.Context, report *Report) error {
	if report.ID.IsZero() {
		report.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, report)
	return err
}

func (r *ReportRepositoryImpl) Get(ctx context.Context, id string) (*Report, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var report Report
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&report)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepositoryImpl) Find(ctx context.Context, query common_models.ListQuery) ([]Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.Collection.Find(ctx, query.Filter(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reports := []Report{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *ReportRepositoryImpl) Update(ctx context.Context, report *Report) error {
	update := bson.M{
		"$set": bson.M{
			"name":        report.Name,
			"description": report.Description,
			"folder_id":   report.FolderID,
			"definition":  report.Definition,
			"charts":      report.Charts,
			"visibility":  report.Visibility,
			"favorite":    report.Favorite,
			"updated_at":  report.UpdatedAt,
		},
	}
	result, err := r.Collection.UpdateOne(ctx, bson.M{"_id": report.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errReportNotFound
	}
	return nil
}

// StampRun sets last_run_at and nothing else.
func (r *ReportRepositoryImpl) StampRun(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	result, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"last_run_at": at}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errReportNotFound
	}
	return nil
}

func (r *ReportRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

// Names maps report ids to names. Unknown or malformed ids are left out.
func (r *ReportRepositoryImpl) Names(ctx context.Context, ids []string) (map[string]string, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	names := make(map[string]string, len(oids))
	if len(oids) == 0 {
		return names, nil
	}

	opts := options.Find().SetProjection(bson.M{"name": 1})
	cursor, err := r.Collection.Find(ctx, bson.M{"_id": bson.M{"$in": oids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var rep Report
		if err := cursor.Decode(&rep); err != nil {
			return nil, err
		}
		names[rep.ID.Hex()] = rep.Name
	}
	return names, cursor.Err()
}
