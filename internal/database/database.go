package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"crm-analytics/internal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
)

// MongodbDB is the shared handle on the metadata database.
type MongodbDB struct {
	DB *mongo.Database
}

// IndexSpec is a set of indexes a repository needs on its collection.
type IndexSpec struct {
	Collection string
	Models     []mongo.IndexModel
}

// NewDatabase creates a new MongoDB database connection with lifecycle management
func NewDatabase(lc fx.Lifecycle, cfg *config.Config) (*MongodbDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	log.Println("Connected to MongoDB!")

	db := client.Database(cfg.DBName)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("Disconnecting from MongoDB...")
			return client.Disconnect(ctx)
		},
	})

	return &MongodbDB{DB: db}, nil
}

// EnsureIndexes creates the given indexes, skipping specs with no models.
func (m *MongodbDB) EnsureIndexes(ctx context.Context, specs ...IndexSpec) error {
	for _, spec := range specs {
		if len(spec.Models) == 0 {
			continue
		}
		if _, err := m.DB.Collection(spec.Collection).Indexes().CreateMany(ctx, spec.Models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", spec.Collection, err)
		}
	}
	return nil
}

// Ping checks the server is reachable.
func (m *MongodbDB) Ping(ctx context.Context) error {
	return m.DB.Client().Ping(ctx, nil)
}
