package repository

import (
	"context"

	"github.com/yukikurage/pm-assistant-api/internal/database"
	"github.com/yukikurage/pm-assistant-api/internal/models"
	"gorm.io/gorm"
)

// GormMemberRepository is a GORM implementation of MemberRepository
type GormMemberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &GormMemberRepository{db: db}
}

func (r *GormMemberRepository) Create(ctx context.Context, member *models.Member) error {
	if member.ID == "" {
		member.ID = models.NewID()
	}
	normalizeMember(member)
	return translateGormError(r.db.WithContext(ctx).Create(member).Error)
}

func (r *GormMemberRepository) FindByID(ctx context.Context, id string) (*models.Member, error) {
	var member models.Member
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error; err != nil {
		return nil, translateGormError(err)
	}
	normalizeMember(&member)
	return &member, nil
}

func (r *GormMemberRepository) FindByEmail(ctx context.Context, email string) (*models.Member, error) {
	var member models.Member
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&member).Error; err != nil {
		return nil, translateGormError(err)
	}
	normalizeMember(&member)
	return &member, nil
}

func (r *GormMemberRepository) List(ctx context.Context, filter MemberFilter) ([]models.Member, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Member{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var members []models.Member
	if err := query.Order("name ASC").
		Scopes(database.Paginate(filter.Page, filter.PageSize)).
		Find(&members).Error; err != nil {
		return nil, 0, err
	}
	for i := range members {
		normalizeMember(&members[i])
	}
	return members, total, nil
}

// Update saves every column of an existing member
func (r *GormMemberRepository) Update(ctx context.Context, member *models.Member) error {
	normalizeMember(member)
	return translateGormError(r.db.WithContext(ctx).Save(member).Error)
}

// Delete removes the member and its assignments and team memberships in a transaction
func (r *GormMemberRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var logged int64
		if err := tx.Model(&models.TimeLog{}).Where("member_id = ?", id).Count(&logged).Error; err != nil {
			return err
		}
		if logged > 0 {
			return ErrInUse
		}
		if err := tx.Where("member_id = ?", id).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("member_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		return affectedOrNotFound(tx.Where("id = ?", id).Delete(&models.Member{}))
	})
}

func (r *GormMemberRepository) CountExisting(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Member{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}
