package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/ahmed7gendy/hr-edecs/internal/models"
)

// ConnectMongoDB establishes a connection to MongoDB
func ConnectMongoDB(ctx context.Context, uri string, log *zap.Logger) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping the primary to verify connection
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	log.Info("connected to MongoDB")
	return client, nil
}

func indexModels() map[string][]mongo.IndexModel {
	asc := func(field string) mongo.IndexModel {
		return mongo.IndexModel{Keys: bson.D{{Key: field, Value: 1}}}
	}

	return map[string][]mongo.IndexModel{
		models.CollectionUsers: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			asc("role"),
			asc("department"),
			asc("status"),
		},
		models.CollectionAttendance: {
			{
				Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
				Options: options.Index().SetUnique(true),
			},
		},
		models.CollectionLeaves:      {asc("userId"), asc("status")},
		models.CollectionPayroll:     {asc("userId"), asc("period")},
		models.CollectionDocuments:   {asc("userId")},
		models.CollectionPerformance: {asc("userId")},
		models.CollectionProjects:    {asc("team")},
		models.CollectionChecklists:  {asc("assignedTo")},
		models.CollectionActivities: {
			{Keys: bson.D{{Key: "timestamp", Value: -1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "timestamp", Value: -1}}},
			asc("relatedId"),
		},
	}
}

// EnsureIndexes creates the unique and foreign-key indexes. It is safe to call
// on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	for name, idx := range indexModels() {
		created, err := db.Collection(name).Indexes().CreateMany(ctx, idx)
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
		log.Debug("indexes ensured", zap.String("collection", name), zap.Strings("indexes", created))
	}
	return nil
}
