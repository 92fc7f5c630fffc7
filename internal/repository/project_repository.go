package repository

import (
	"context"

	"github.com/yukikurage/pm-assistant-api/internal/database"
	"github.com/yukikurage/pm-assistant-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create inserts the project and its team rows in a transaction
func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID == "" {
		project.ID = models.NewID()
	}
	normalizeProject(project)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return translateGormError(err)
		}
		return replaceTeam(tx, project.ID, project.TeamMemberIDs)
	})
}

func (r *GormProjectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	db := r.db.WithContext(ctx)
	var project models.Project
	if err := db.Where("id = ?", id).First(&project).Error; err != nil {
		return nil, translateGormError(err)
	}
	projects := []models.Project{project}
	if err := loadTeams(db, projects); err != nil {
		return nil, err
	}
	return &projects[0], nil
}

// List retrieves projects with filtering and pagination
func (r *GormProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error) {
	db := r.db.WithContext(ctx)
	query := db.Model(&models.Project{})

	if filter.Status != nil {
		query = query.Where("projects.status = ?", *filter.Status)
	}
	if filter.TeamMemberID != "" {
		teamSubQuery := db.Model(&models.ProjectMember{}).
			Select("1").
			Where("project_members.project_id = projects.id").
			Where("project_members.member_id = ?", filter.TeamMemberID)
		query = query.Where("EXISTS (?)", teamSubQuery)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	if err := query.Order("projects.created_at DESC").
		Scopes(database.Paginate(filter.Page, filter.PageSize)).
		Find(&projects).Error; err != nil {
		return nil, 0, err
	}
	if err := loadTeams(db, projects); err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// Update saves the project and replaces its team rows
func (r *GormProjectRepository) Update(ctx context.Context, project *models.Project) error {
	normalizeProject(project)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(project).Error; err != nil {
			return translateGormError(err)
		}
		return replaceTeam(tx, project.ID, project.TeamMemberIDs)
	})
}

// Delete removes the project, its team rows and every task in it
func (r *GormProjectRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taskIDs []string
		if err := tx.Model(&models.Task{}).Where("project_id = ?", id).Pluck("id", &taskIDs).Error; err != nil {
			return err
		}
		if err := deleteTasks(tx, taskIDs); err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		return affectedOrNotFound(tx.Where("id = ?", id).Delete(&models.Project{}))
	})
}

func replaceTeam(tx *gorm.DB, projectID string, memberIDs []string) error {
	if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectMember{}).Error; err != nil {
		return err
	}
	if len(memberIDs) == 0 {
		return nil
	}
	rows := make([]models.ProjectMember, len(memberIDs))
	for i, memberID := range memberIDs {
		rows[i] = models.ProjectMember{ProjectID: projectID, MemberID: memberID}
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func loadTeams(db *gorm.DB, projects []models.Project) error {
	if len(projects) == 0 {
		return nil
	}
	ids := make([]string, len(projects))
	for i := range projects {
		ids[i] = projects[i].ID
	}

	var rows []models.ProjectMember
	if err := db.Where("project_id IN ?", ids).Order("joined_at ASC").Find(&rows).Error; err != nil {
		return err
	}

	byProject := make(map[string][]string, len(projects))
	for _, row := range rows {
		byProject[row.ProjectID] = append(byProject[row.ProjectID], row.MemberID)
	}
	for i := range projects {
		projects[i].TeamMemberIDs = byProject[projects[i].ID]
		normalizeProject(&projects[i])
	}
	return nil
}
