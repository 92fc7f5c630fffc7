package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/pm-assistant-api/internal/models"
	"github.com/yukikurage/pm-assistant-api/internal/repository"
	"github.com/yukikurage/pm-assistant-api/internal/validation"
)

var (
	ErrProjectNotFound   = errors.New("project not found")
	ErrInvalidTeamMember = errors.New("one or more team members do not exist")
)

// ProjectService handles project business logic
type ProjectService struct {
	projects repository.ProjectRepository
	members  repository.MemberRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projects repository.ProjectRepository, members repository.MemberRepository) *ProjectService {
	return &ProjectService{
		projects: projects,
		members:  members,
	}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name          string     `json:"name" validate:"required,max=200"`
	Description   string     `json:"description"`
	Status        string     `json:"status" validate:"omitempty,projectstatus"`
	Milestones    []string   `json:"milestones" validate:"dive,required"`
	Deadline      *time.Time `json:"deadline"`
	TeamMemberIDs []string   `json:"team_member_ids" validate:"dive,objectid"`
}

// UpdateProjectInput represents a partial project update
type UpdateProjectInput struct {
	Name          *string    `json:"name" validate:"omitnil,min=1,max=200"`
	Description   *string    `json:"description"`
	Status        *string    `json:"status" validate:"omitnil,projectstatus"`
	Milestones    *[]string  `json:"milestones" validate:"omitnil,dive,required"`
	Deadline      *time.Time `json:"deadline"`
	ClearDeadline bool       `json:"clear_deadline"`
	TeamMemberIDs *[]string  `json:"team_member_ids" validate:"omitnil,dive,objectid"`
}

// ListProjectsInput represents filters for listing projects
type ListProjectsInput struct {
	Status       string
	TeamMemberID string
	Page         int
	PageSize     int
}

// Create validates and stores a new project
func (s *ProjectService) Create(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	team := uniqueStrings(input.TeamMemberIDs)
	if err := s.ensureMembersExist(ctx, team); err != nil {
		return nil, err
	}

	status := models.ProjectStatusNotStarted
	if input.Status != "" {
		status = models.ProjectStatus(input.Status)
	}

	project := &models.Project{
		Name:          input.Name,
		Description:   input.Description,
		Status:        status,
		Milestones:    input.Milestones,
		Deadline:      input.Deadline,
		TeamMemberIDs: team,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

// Get returns a project by ID
func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	if err := checkID("id", id); err != nil {
		return nil, err
	}
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, ErrProjectNotFound, id)
	}
	return project, nil
}

// List returns projects matching the filters, newest first
func (s *ProjectService) List(ctx context.Context, input ListProjectsInput) ([]models.Project, int64, error) {
	filter := repository.ProjectFilter{Page: input.Page, PageSize: input.PageSize}
	if input.Status != "" {
		if !validation.IsProjectStatus(input.Status) {
			return nil, 0, &validation.Error{Fields: []validation.FieldError{{Field: "status", Message: "must be one of Not Started, In Progress, On Hold, Completed"}}}
		}
		status := models.ProjectStatus(input.Status)
		filter.Status = &status
	}
	if input.TeamMemberID != "" {
		if err := checkID("member_id", input.TeamMemberID); err != nil {
			return nil, 0, err
		}
		filter.TeamMemberID = input.TeamMemberID
	}

	projects, total, err := s.projects.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// Update applies the provided fields to an existing project
func (s *ProjectService) Update(ctx context.Context, id string, input UpdateProjectInput) (*models.Project, error) {
	input.Name = trimmed(input.Name)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		project.Status = models.ProjectStatus(*input.Status)
	}
	if input.Milestones != nil {
		project.Milestones = *input.Milestones
	}
	if input.ClearDeadline {
		project.Deadline = nil
	} else if input.Deadline != nil {
		project.Deadline = input.Deadline
	}
	if input.TeamMemberIDs != nil {
		team := uniqueStrings(*input.TeamMemberIDs)
		if err := s.ensureMembersExist(ctx, team); err != nil {
			return nil, err
		}
		project.TeamMemberIDs = team
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// Delete removes a project together with its tasks
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := checkID("id", id); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrProjectNotFound, id)
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

func (s *ProjectService) ensureMembersExist(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	count, err := s.members.CountExisting(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to verify members: %w", err)
	}
	if int(count) != len(ids) {
		return ErrInvalidTeamMember
	}
	return nil
}
