package repository

import (
	"context"
	"time"

	"github.com/yukikurage/pm-assistant-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProjectRepository is a MongoDB implementation of ProjectRepository
type MongoProjectRepository struct {
	projects *mongo.Collection
	tasks    *mongo.Collection
	timeLogs *mongo.Collection
}

func (r *MongoProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID == "" {
		project.ID = models.NewID()
	}
	now := time.Now().UTC()
	project.CreatedAt, project.UpdatedAt = now, now
	normalizeProject(project)
	_, err := r.projects.InsertOne(ctx, project)
	return translateMongoError(err)
}

func (r *MongoProjectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	if err := r.projects.FindOne(ctx, bson.M{"_id": id}).Decode(&project); err != nil {
		return nil, translateMongoError(err)
	}
	normalizeProject(&project)
	return &project, nil
}

func (r *MongoProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error) {
	query := bson.M{}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}
	if filter.TeamMemberID != "" {
		query["team_member_ids"] = filter.TeamMemberID
	}

	projects := []models.Project{}
	total, err := findAll(ctx, r.projects, query, findOptions("created_at", -1, filter.Page, filter.PageSize), &projects)
	if err != nil {
		return nil, 0, err
	}
	for i := range projects {
		normalizeProject(&projects[i])
	}
	return projects, total, nil
}

func (r *MongoProjectRepository) Update(ctx context.Context, project *models.Project) error {
	project.UpdatedAt = time.Now().UTC()
	normalizeProject(project)
	return replaceByID(ctx, r.projects, project.ID, project)
}

// Delete removes the project, then its tasks and their time logs
func (r *MongoProjectRepository) Delete(ctx context.Context, id string) error {
	if err := deleteByID(ctx, r.projects, id); err != nil {
		return err
	}

	cursor, err := r.tasks.Find(ctx, bson.M{"project_id": id}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return err
	}
	var refs []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &refs); err != nil {
		return err
	}
	taskIDs := make([]string, len(refs))
	for i, ref := range refs {
		taskIDs[i] = ref.ID
	}
	return deleteMongoTasks(ctx, r.tasks, r.timeLogs, taskIDs)
}
