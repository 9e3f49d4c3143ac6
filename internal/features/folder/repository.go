package folder

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

const collectionName = "folders"

type FolderRepository interface {
	Create(ctx context.Context, folder *Folder) error
	// Get returns nil without error when no folder has the id.
	Get(ctx context.Context, id string) (*Folder, error)
	Find(ctx context.Context, query common_models.ListQuery) ([]Folder, error)
	Update(ctx context.Context, folder *Folder) error
	Delete(ctx context.Context, id string) error
	Names(ctx context.Context, ids []string) (map[string]string, error)
}

type FolderRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewFolderRepository(db *database.MongodbDB) FolderRepository {
	return &FolderRepositoryImpl{
		Collection: db.DB.Collection(collectionName),
	}
}

func Indexes() database.IndexSpec {
	return database.IndexSpec{
		Collection: collectionName,
		Models: []mongo.IndexModel{
			{Keys: bson.D{{Key: "created_by", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "visibility", Value: 1}}},
		},
	}
}

func (r *FolderRepositoryImpl) Create(ctx context.Context, folder *Folder) error {
	if folder.ID.IsZero() {
		folder.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, folder)
	return err
}

func (r *FolderRepositoryImpl) Get(ctx context.Context, id string) (*Folder, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var folder Folder
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&folder)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

func (r *FolderRepositoryImpl) Find(ctx context.Context, query common_models.ListQuery) ([]Folder, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.Collection.Find(ctx, query.Filter(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	folders := []Folder{}
	if err := cursor.All(ctx, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

func (r *FolderRepositoryImpl) Update(ctx context.Context, folder *Folder) error {
	update := bson.M{
		"$set": bson.M{
			"name":        folder.Name,
			"description": folder.Description,
			"visibility":  folder.Visibility,
			"favorite":    folder.Favorite,
			"updated_at":  folder.UpdatedAt,
		},
	}
	result, err := r.Collection.UpdateOne(ctx, bson.M{"_id": folder.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("folder not found")
	}
	return nil
}

func (r *FolderRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

// Names maps folder ids to names. Unknown or malformed ids are left out.
func (r *FolderRepositoryImpl) Names(ctx context.Context, ids []string) (map[string]string, error) {
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
		var f Folder
		if err := cursor.Decode(&f); err != nil {
			return nil, err
		}
		names[f.ID.Hex()] = f.Name
	}
	return names, cursor.Err()
}
