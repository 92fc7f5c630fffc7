package database

import (
	"context"
	"fmt"

	"github.com/yukikurage/pm-assistant-api/internal/config"
	"github.com/yukikurage/pm-assistant-api/internal/logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names on the document backend
const (
	CollectionMembers  = "members"
	CollectionProjects = "projects"
	CollectionTasks    = "tasks"
	CollectionTimeLogs = "time_logs"
	CollectionUsers    = "users"
)

// ConnectMongo dials MongoDB and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	logging.Logger.WithField("database", cfg.MongoDB).Info("Connected to MongoDB")
	return client, client.Database(cfg.MongoDB), nil
}

// EnsureMongoIndexes creates the unique and lookup indexes used by the
// repositories. CreateMany is idempotent for identical index specs.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		CollectionMembers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CollectionUsers: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CollectionProjects: {
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "team_member_ids", Value: 1}}},
		},
		CollectionTasks: {
			{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "assigned_to_ids", Value: 1}}},
			{Keys: bson.D{{Key: "dependency_ids", Value: 1}}},
		},
		CollectionTimeLogs: {
			{Keys: bson.D{{Key: "task_id", Value: 1}}},
			{Keys: bson.D{{Key: "member_id", Value: 1}}},
		},
	}

	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}
