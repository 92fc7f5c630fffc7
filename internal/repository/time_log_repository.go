package repository

import (
	"context"

	"github.com/yukikurage/pm-assistant-api/internal/database"
	"github.com/yukikurage/pm-assistant-api/internal/models"
	"gorm.io/gorm"
)

// GormTimeLogRepository is a GORM implementation of TimeLogRepository
type GormTimeLogRepository struct {
	db *gorm.DB
}

// NewTimeLogRepository creates a new TimeLogRepository
func NewTimeLogRepository(db *gorm.DB) TimeLogRepository {
	return &GormTimeLogRepository{db: db}
}

func (r *GormTimeLogRepository) Create(ctx context.Context, log *models.TimeLog) error {
	if log.ID == "" {
		log.ID = models.NewID()
	}
	return translateGormError(r.db.WithContext(ctx).Create(log).Error)
}

func (r *GormTimeLogRepository) FindByID(ctx context.Context, id string) (*models.TimeLog, error) {
	var log models.TimeLog
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&log).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &log, nil
}

// List retrieves time logs newest first
func (r *GormTimeLogRepository) List(ctx context.Context, filter TimeLogFilter) ([]models.TimeLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.TimeLog{})

	if filter.TaskID != "" {
		query = query.Where("task_id = ?", filter.TaskID)
	}
	if filter.TaskIDs != nil {
		if len(filter.TaskIDs) == 0 {
			return []models.TimeLog{}, 0, nil
		}
		query = query.Where("task_id IN ?", filter.TaskIDs)
	}
	if filter.MemberID != "" {
		query = query.Where("member_id = ?", filter.MemberID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	logs := []models.TimeLog{}
	if err := query.Order("log_date DESC").
		Scopes(database.Paginate(filter.Page, filter.PageSize)).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (r *GormTimeLogRepository) Update(ctx context.Context, log *models.TimeLog) error {
	return translateGormError(r.db.WithContext(ctx).Save(log).Error)
}

func (r *GormTimeLogRepository) Delete(ctx context.Context, id string) error {
	return affectedOrNotFound(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.TimeLog{}))
}
