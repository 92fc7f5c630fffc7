package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/pm-assistant-api/internal/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewMongoStore builds a Store backed by MongoDB.
func NewMongoStore(db *mongo.Database) Store {
	tasks := db.Collection(database.CollectionTasks)
	timeLogs := db.Collection(database.CollectionTimeLogs)
	projects := db.Collection(database.CollectionProjects)
	return Store{
		Members: &MongoMemberRepository{
			members:  db.Collection(database.CollectionMembers),
			tasks:    tasks,
			projects: projects,
			timeLogs: timeLogs,
		},
		Projects: &MongoProjectRepository{projects: projects, tasks: tasks, timeLogs: timeLogs},
		Tasks:    &MongoTaskRepository{tasks: tasks, timeLogs: timeLogs},
		TimeLogs: &MongoTimeLogRepository{timeLogs: timeLogs},
		Users:    &MongoUserRepository{users: db.Collection(database.CollectionUsers)},
	}
}

func translateMongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

// findOptions sorts by field and applies page/pageSize when page > 0.
func findOptions(sortField string, sortOrder, page, pageSize int) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: sortField, Value: sortOrder}})
	if page > 0 && pageSize > 0 {
		opts.SetSkip(int64((page - 1) * pageSize)).SetLimit(int64(pageSize))
	}
	return opts
}

// findAll counts matches for filter and decodes the requested page into out.
func findAll(ctx context.Context, coll *mongo.Collection, filter bson.M, opts *options.FindOptions, out interface{}) (int64, error) {
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, err
	}
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, out); err != nil {
		return 0, err
	}
	return total, nil
}

func replaceByID(ctx context.Context, coll *mongo.Collection, id string, doc interface{}) error {
	result, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return translateMongoError(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id string) error {
	result, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func countIDs(ctx context.Context, coll *mongo.Collection, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return coll.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": ids}})
}
