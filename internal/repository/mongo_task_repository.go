package repository

import (
	"context"
	"time"

	"github.com/yukikurage/pm-assistant-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoTaskRepository is a MongoDB implementation of TaskRepository
type MongoTaskRepository struct {
	tasks    *mongo.Collection
	timeLogs *mongo.Collection
}

func (r *MongoTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = models.NewID()
	}
	now := time.Now().UTC()
	task.CreatedAt, task.UpdatedAt = now, now
	normalizeTask(task)
	_, err := r.tasks.InsertOne(ctx, task)
	return translateMongoError(err)
}

func (r *MongoTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := r.tasks.FindOne(ctx, bson.M{"_id": id}).Decode(&task); err != nil {
		return nil, translateMongoError(err)
	}
	normalizeTask(&task)
	return &task, nil
}

func (r *MongoTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	tasks := []models.Task{}
	total, err := findAll(ctx, r.tasks, taskQuery(filter), findOptions("created_at", -1, filter.Page, filter.PageSize), &tasks)
	if err != nil {
		return nil, 0, err
	}
	for i := range tasks {
		normalizeTask(&tasks[i])
	}
	return tasks, total, nil
}

// taskQuery translates a TaskFilter into a MongoDB filter document. Array
// fields match when they contain the value.
func taskQuery(filter TaskFilter) bson.M {
	query := bson.M{}
	if filter.ProjectID != "" {
		query["project_id"] = filter.ProjectID
	}

	status := bson.M{}
	if filter.Status != nil {
		status["$eq"] = *filter.Status
	}
	if filter.ExcludeStatus != nil {
		status["$ne"] = *filter.ExcludeStatus
	}
	if len(status) > 0 {
		query["status"] = status
	}

	if filter.AssignedMemberID != "" {
		query["assigned_to_ids"] = filter.AssignedMemberID
	}
	if filter.DependsOnTaskID != "" {
		query["dependency_ids"] = filter.DependsOnTaskID
	}
	return query
}

func (r *MongoTaskRepository) Update(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now().UTC()
	normalizeTask(task)
	return replaceByID(ctx, r.tasks, task.ID, task)
}

func (r *MongoTaskRepository) Delete(ctx context.Context, id string) error {
	if err := deleteByID(ctx, r.tasks, id); err != nil {
		return err
	}
	return deleteMongoTasks(ctx, r.tasks, r.timeLogs, []string{id})
}

func (r *MongoTaskRepository) AssignMembers(ctx context.Context, taskID string, memberIDs []string) error {
	return r.updateAssignees(ctx, taskID, bson.M{
		"$addToSet": bson.M{"assigned_to_ids": bson.M{"$each": memberIDs}},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *MongoTaskRepository) UnassignMembers(ctx context.Context, taskID string, memberIDs []string) error {
	return r.updateAssignees(ctx, taskID, bson.M{
		"$pull": bson.M{"assigned_to_ids": bson.M{"$in": memberIDs}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *MongoTaskRepository) updateAssignees(ctx context.Context, taskID string, update bson.M) error {
	result, err := r.tasks.UpdateOne(ctx, bson.M{"_id": taskID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoTaskRepository) CountExisting(ctx context.Context, ids []string) (int64, error) {
	return countIDs(ctx, r.tasks, ids)
}

// deleteMongoTasks removes tasks with their time logs and pulls them from
// other tasks' dependency sets.
func deleteMongoTasks(ctx context.Context, tasks, timeLogs *mongo.Collection, taskIDs []string) error {
	if len(taskIDs) == 0 {
		return nil
	}
	if _, err := timeLogs.DeleteMany(ctx, bson.M{"task_id": bson.M{"$in": taskIDs}}); err != nil {
		return err
	}
	if _, err := tasks.UpdateMany(ctx,
		bson.M{"dependency_ids": bson.M{"$in": taskIDs}},
		bson.M{"$pull": bson.M{"dependency_ids": bson.M{"$in": taskIDs}}},
	); err != nil {
		return err
	}
	_, err := tasks.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": taskIDs}})
	return err
}
