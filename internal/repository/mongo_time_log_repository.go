package repository

import (
	"context"
	"time"

	"github.com/yukikurage/pm-assistant-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoTimeLogRepository is a MongoDB implementation of TimeLogRepository
type MongoTimeLogRepository struct {
	timeLogs *mongo.Collection
}

func (r *MongoTimeLogRepository) Create(ctx context.Context, log *models.TimeLog) error {
	if log.ID == "" {
		log.ID = models.NewID()
	}
	now := time.Now().UTC()
	log.CreatedAt, log.UpdatedAt = now, now
	_, err := r.timeLogs.InsertOne(ctx, log)
	return translateMongoError(err)
}

func (r *MongoTimeLogRepository) FindByID(ctx context.Context, id string) (*models.TimeLog, error) {
	var log models.TimeLog
	if err := r.timeLogs.FindOne(ctx, bson.M{"_id": id}).Decode(&log); err != nil {
		return nil, translateMongoError(err)
	}
	return &log, nil
}

func (r *MongoTimeLogRepository) List(ctx context.Context, filter TimeLogFilter) ([]models.TimeLog, int64, error) {
	logs := []models.TimeLog{}
	if filter.TaskIDs != nil && len(filter.TaskIDs) == 0 {
		return logs, 0, nil
	}
	total, err := findAll(ctx, r.timeLogs, timeLogQuery(filter), findOptions("log_date", -1, filter.Page, filter.PageSize), &logs)
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func timeLogQuery(filter TimeLogFilter) bson.M {
	query := bson.M{}
	switch {
	case filter.TaskID != "" && filter.TaskIDs != nil:
		query["$and"] = bson.A{
			bson.M{"task_id": filter.TaskID},
			bson.M{"task_id": bson.M{"$in": filter.TaskIDs}},
		}
	case filter.TaskID != "":
		query["task_id"] = filter.TaskID
	case filter.TaskIDs != nil:
		query["task_id"] = bson.M{"$in": filter.TaskIDs}
	}
	if filter.MemberID != "" {
		query["member_id"] = filter.MemberID
	}
	return query
}

func (r *MongoTimeLogRepository) Update(ctx context.Context, log *models.TimeLog) error {
	log.UpdatedAt = time.Now().UTC()
	return replaceByID(ctx, r.timeLogs, log.ID, log)
}

func (r *MongoTimeLogRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.timeLogs, id)
}
