package repository

import (
	"context"
	"time"

	"github.com/yukikurage/pm-assistant-api/internal/database"
	"github.com/yukikurage/pm-assistant-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create inserts the task with its assignment and dependency rows
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = models.NewID()
	}
	normalizeTask(task)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return translateGormError(err)
		}
		if err := insertAssignments(tx, task.ID, task.AssignedToIDs); err != nil {
			return err
		}
		return replaceDependencies(tx, task.ID, task.DependencyIDs)
	})
}

func (r *GormTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	db := r.db.WithContext(ctx)
	var task models.Task
	if err := db.Where("id = ?", id).First(&task).Error; err != nil {
		return nil, translateGormError(err)
	}
	tasks := []models.Task{task}
	if err := loadTaskRelations(db, tasks); err != nil {
		return nil, err
	}
	return &tasks[0], nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	db := r.db.WithContext(ctx)
	query := db.Model(&models.Task{})

	if filter.ProjectID != "" {
		query = query.Where("tasks.project_id = ?", filter.ProjectID)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.ExcludeStatus != nil {
		query = query.Where("tasks.status <> ?", *filter.ExcludeStatus)
	}
	if filter.AssignedMemberID != "" {
		assignmentSubQuery := db.Model(&models.TaskAssignment{}).
			Select("1").
			Where("task_assignments.task_id = tasks.id").
			Where("task_assignments.member_id = ?", filter.AssignedMemberID)
		query = query.Where("EXISTS (?)", assignmentSubQuery)
	}
	if filter.DependsOnTaskID != "" {
		dependencySubQuery := db.Model(&models.TaskDependency{}).
			Select("1").
			Where("task_dependencies.task_id = tasks.id").
			Where("task_dependencies.depends_on_id = ?", filter.DependsOnTaskID)
		query = query.Where("EXISTS (?)", dependencySubQuery)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.Task
	if err := query.Order("tasks.created_at DESC").
		Scopes(database.Paginate(filter.Page, filter.PageSize)).
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	if err := loadTaskRelations(db, tasks); err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// Update saves the task and replaces its assignment and dependency rows
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	normalizeTask(task)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(task).Error; err != nil {
			return translateGormError(err)
		}
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}
		if err := insertAssignments(tx, task.ID, task.AssignedToIDs); err != nil {
			return err
		}
		return replaceDependencies(tx, task.ID, task.DependencyIDs)
	})
}

// Delete removes the task and everything that references it
func (r *GormTaskRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Task{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return deleteTasks(tx, []string{id})
	})
}

// AssignMembers assigns multiple members to a task
func (r *GormTaskRepository) AssignMembers(ctx context.Context, taskID string, memberIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := touchTask(tx, taskID); err != nil {
			return err
		}
		return insertAssignments(tx, taskID, memberIDs)
	})
}

// UnassignMembers removes member assignments from a task
func (r *GormTaskRepository) UnassignMembers(ctx context.Context, taskID string, memberIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := touchTask(tx, taskID); err != nil {
			return err
		}
		return tx.Where("task_id = ? AND member_id IN ?", taskID, memberIDs).
			Delete(&models.TaskAssignment{}).Error
	})
}

func (r *GormTaskRepository) CountExisting(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Task{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

func touchTask(tx *gorm.DB, taskID string) error {
	return affectedOrNotFound(tx.Model(&models.Task{}).
		Where("id = ?", taskID).
		UpdateColumn("updated_at", time.Now().UTC()))
}

func insertAssignments(tx *gorm.DB, taskID string, memberIDs []string) error {
	if len(memberIDs) == 0 {
		return nil
	}
	rows := make([]models.TaskAssignment, len(memberIDs))
	for i, memberID := range memberIDs {
		rows[i] = models.TaskAssignment{TaskID: taskID, MemberID: memberID}
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func replaceDependencies(tx *gorm.DB, taskID string, dependencyIDs []string) error {
	if err := tx.Where("task_id = ?", taskID).Delete(&models.TaskDependency{}).Error; err != nil {
		return err
	}
	if len(dependencyIDs) == 0 {
		return nil
	}
	rows := make([]models.TaskDependency, len(dependencyIDs))
	for i, dependsOn := range dependencyIDs {
		rows[i] = models.TaskDependency{TaskID: taskID, DependsOnID: dependsOn}
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// deleteTasks removes tasks with their time logs, assignments and dependency edges
func deleteTasks(tx *gorm.DB, taskIDs []string) error {
	if len(taskIDs) == 0 {
		return nil
	}
	if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.TimeLog{}).Error; err != nil {
		return err
	}
	if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.TaskAssignment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("task_id IN ? OR depends_on_id IN ?", taskIDs, taskIDs).Delete(&models.TaskDependency{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", taskIDs).Delete(&models.Task{}).Error
}

func loadTaskRelations(db *gorm.DB, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	ids := make([]string, len(tasks))
	for i := range tasks {
		ids[i] = tasks[i].ID
	}

	var assignments []models.TaskAssignment
	if err := db.Where("task_id IN ?", ids).Order("created_at ASC").Find(&assignments).Error; err != nil {
		return err
	}
	var dependencies []models.TaskDependency
	if err := db.Where("task_id IN ?", ids).Find(&dependencies).Error; err != nil {
		return err
	}

	assigned := make(map[string][]string, len(tasks))
	for _, a := range assignments {
		assigned[a.TaskID] = append(assigned[a.TaskID], a.MemberID)
	}
	dependsOn := make(map[string][]string, len(tasks))
	for _, d := range dependencies {
		dependsOn[d.TaskID] = append(dependsOn[d.TaskID], d.DependsOnID)
	}

	for i := range tasks {
		tasks[i].AssignedToIDs = assigned[tasks[i].ID]
		tasks[i].DependencyIDs = dependsOn[tasks[i].ID]
		normalizeTask(&tasks[i])
	}
	return nil
}
