package repository

import (
	"context"
	"time"

	"github.com/yukikurage/pm-assistant-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoMemberRepository is a MongoDB implementation of MemberRepository
type MongoMemberRepository struct {
	members  *mongo.Collection
	tasks    *mongo.Collection
	projects *mongo.Collection
	timeLogs *mongo.Collection
}

func (r *MongoMemberRepository) Create(ctx context.Context, member *models.Member) error {
	if member.ID == "" {
		member.ID = models.NewID()
	}
	now := time.Now().UTC()
	member.CreatedAt, member.UpdatedAt = now, now
	normalizeMember(member)
	_, err := r.members.InsertOne(ctx, member)
	return translateMongoError(err)
}

func (r *MongoMemberRepository) FindByID(ctx context.Context, id string) (*models.Member, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoMemberRepository) FindByEmail(ctx context.Context, email string) (*models.Member, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoMemberRepository) findOne(ctx context.Context, filter bson.M) (*models.Member, error) {
	var member models.Member
	if err := r.members.FindOne(ctx, filter).Decode(&member); err != nil {
		return nil, translateMongoError(err)
	}
	normalizeMember(&member)
	return &member, nil
}

func (r *MongoMemberRepository) List(ctx context.Context, filter MemberFilter) ([]models.Member, int64, error) {
	members := []models.Member{}
	total, err := findAll(ctx, r.members, bson.M{}, findOptions("name", 1, filter.Page, filter.PageSize), &members)
	if err != nil {
		return nil, 0, err
	}
	for i := range members {
		normalizeMember(&members[i])
	}
	return members, total, nil
}

func (r *MongoMemberRepository) Update(ctx context.Context, member *models.Member) error {
	member.UpdatedAt = time.Now().UTC()
	normalizeMember(member)
	return replaceByID(ctx, r.members, member.ID, member)
}

// Delete removes the member, then pulls it from task assignments and project
// teams. The time log check and the delete are separate operations, so a log
// written between them is not seen.
func (r *MongoMemberRepository) Delete(ctx context.Context, id string) error {
	logged, err := r.timeLogs.CountDocuments(ctx, bson.M{"member_id": id})
	if err != nil {
		return err
	}
	if logged > 0 {
		return ErrInUse
	}
	if err := deleteByID(ctx, r.members, id); err != nil {
		return err
	}
	if _, err := r.tasks.UpdateMany(ctx,
		bson.M{"assigned_to_ids": id},
		bson.M{"$pull": bson.M{"assigned_to_ids": id}},
	); err != nil {
		return err
	}
	_, err = r.projects.UpdateMany(ctx,
		bson.M{"team_member_ids": id},
		bson.M{"$pull": bson.M{"team_member_ids": id}},
	)
	return err
}

func (r *MongoMemberRepository) CountExisting(ctx context.Context, ids []string) (int64, error) {
	return countIDs(ctx, r.members, ids)
}
