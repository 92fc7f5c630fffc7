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
	ErrTaskNotFound           = errors.New("task not found")
	ErrNoMemberIDsProvided    = errors.New("at least one member ID is required")
	ErrInvalidTaskAssignee    = errors.New("one or more assigned members do not exist")
	ErrInvalidTaskDependency  = errors.New("one or more dependency tasks do not exist")
	ErrSelfDependency         = errors.New("a task cannot depend on itself")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// TaskService handles task business logic
type TaskService struct {
	tasks     repository.TaskRepository
	projects  repository.ProjectRepository
	members   repository.MemberRepository
	aiService TaskDrafter
}

// TaskDrafter suggests tasks for a project.
type TaskDrafter interface {
	DraftTasks(ctx context.Context, project *models.Project) ([]DraftedTask, error)
}

// NewTaskService creates a new TaskService. aiService may be nil.
func NewTaskService(tasks repository.TaskRepository, projects repository.ProjectRepository, members repository.MemberRepository, aiService TaskDrafter) *TaskService {
	return &TaskService{
		tasks:     tasks,
		projects:  projects,
		members:   members,
		aiService: aiService,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	ProjectID  string
	Status     string
	AssignedTo string
	Page       int
	PageSize   int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	ProjectID              string     `json:"project_id" validate:"required,objectid"`
	Name                   string     `json:"name" validate:"required,max=200"`
	Description            string     `json:"description"`
	Status                 string     `json:"status" validate:"omitempty,taskstatus"`
	Priority               string     `json:"priority" validate:"omitempty,priority"`
	EstimatedDurationHours float64    `json:"estimated_duration_hours" validate:"gt=0"`
	AssignedToIDs          []string   `json:"assigned_to_ids" validate:"dive,objectid"`
	DependencyIDs          []string   `json:"dependency_ids" validate:"dive,objectid"`
	DueDate                *time.Time `json:"due_date"`
}

// UpdateTaskInput represents a partial task update
type UpdateTaskInput struct {
	ProjectID              *string    `json:"project_id" validate:"omitnil,objectid"`
	Name                   *string    `json:"name" validate:"omitnil,min=1,max=200"`
	Description            *string    `json:"description"`
	Status                 *string    `json:"status" validate:"omitnil,taskstatus"`
	Priority               *string    `json:"priority" validate:"omitnil,priority"`
	EstimatedDurationHours *float64   `json:"estimated_duration_hours" validate:"omitnil,gt=0"`
	AssignedToIDs          *[]string  `json:"assigned_to_ids" validate:"omitnil,dive,objectid"`
	DependencyIDs          *[]string  `json:"dependency_ids" validate:"omitnil,dive,objectid"`
	DueDate                *time.Time `json:"due_date"`
	ClearDueDate           bool       `json:"clear_due_date"`
}

// ListTasks returns tasks matching the provided filters
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		Page:     input.Page,
		PageSize: input.PageSize,
	}

	if input.ProjectID != "" {
		if err := checkID("project_id", input.ProjectID); err != nil {
			return nil, 0, err
		}
		filter.ProjectID = input.ProjectID
	}
	if input.AssignedTo != "" {
		if err := checkID("assigned_to", input.AssignedTo); err != nil {
			return nil, 0, err
		}
		filter.AssignedMemberID = input.AssignedTo
	}
	if input.Status != "" {
		if !validation.IsTaskStatus(input.Status) {
			return nil, 0, &validation.Error{Fields: []validation.FieldError{{Field: "status", Message: "must be one of To Do, In Progress, Done"}}}
		}
		status := models.TaskStatus(input.Status)
		filter.Status = &status
	}

	tasks, total, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a task by ID
func (s *TaskService) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	if err := checkID("id", taskID); err != nil {
		return nil, err
	}
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, lookupError(err, ErrTaskNotFound, taskID)
	}
	return task, nil
}

// CreateTask validates references and stores a new task
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	if err := s.ensureProjectExists(ctx, input.ProjectID); err != nil {
		return nil, err
	}
	assignees := uniqueStrings(input.AssignedToIDs)
	if err := s.ensureMembersExist(ctx, assignees); err != nil {
		return nil, err
	}
	dependencies := uniqueStrings(input.DependencyIDs)
	if err := s.ensureTasksExist(ctx, dependencies); err != nil {
		return nil, err
	}

	task := &models.Task{
		ProjectID:              input.ProjectID,
		Name:                   input.Name,
		Description:            input.Description,
		Status:                 models.TaskStatusTodo,
		Priority:               models.PriorityMedium,
		EstimatedDurationHours: input.EstimatedDurationHours,
		AssignedToIDs:          assignees,
		DependencyIDs:          dependencies,
		DueDate:                input.DueDate,
	}
	if input.Status != "" {
		task.Status = models.TaskStatus(input.Status)
	}
	if input.Priority != "" {
		task.Priority = models.TaskPriority(input.Priority)
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTask updates an existing task
func (s *TaskService) UpdateTask(ctx context.Context, taskID string, input UpdateTaskInput) (*models.Task, error) {
	input.Name = trimmed(input.Name)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if input.ProjectID != nil && *input.ProjectID != task.ProjectID {
		if err := s.ensureProjectExists(ctx, *input.ProjectID); err != nil {
			return nil, err
		}
		task.ProjectID = *input.ProjectID
	}
	if input.Name != nil {
		task.Name = *input.Name
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = models.TaskStatus(*input.Status)
	}
	if input.Priority != nil {
		task.Priority = models.TaskPriority(*input.Priority)
	}
	if input.EstimatedDurationHours != nil {
		task.EstimatedDurationHours = *input.EstimatedDurationHours
	}
	if input.AssignedToIDs != nil {
		assignees := uniqueStrings(*input.AssignedToIDs)
		if err := s.ensureMembersExist(ctx, assignees); err != nil {
			return nil, err
		}
		task.AssignedToIDs = assignees
	}
	if input.DependencyIDs != nil {
		dependencies := uniqueStrings(*input.DependencyIDs)
		for _, id := range dependencies {
			if id == task.ID {
				return nil, ErrSelfDependency
			}
		}
		if err := s.ensureTasksExist(ctx, dependencies); err != nil {
			return nil, err
		}
		task.DependencyIDs = dependencies
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask deletes a task with its time logs
func (s *TaskService) DeleteTask(ctx context.Context, taskID string) error {
	if err := checkID("id", taskID); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// AssignMembers assigns multiple members to a task with validation
func (s *TaskService) AssignMembers(ctx context.Context, taskID string, memberIDs []string) (*models.Task, error) {
	if len(memberIDs) == 0 {
		return nil, ErrNoMemberIDsProvided
	}
	if err := checkIDs("member_ids", memberIDs); err != nil {
		return nil, err
	}
	if _, err := s.GetTask(ctx, taskID); err != nil {
		return nil, err
	}

	ids := uniqueStrings(memberIDs)
	if err := s.ensureMembersExist(ctx, ids); err != nil {
		return nil, err
	}

	if err := s.tasks.AssignMembers(ctx, taskID, ids); err != nil {
		return nil, fmt.Errorf("failed to assign members: %w", err)
	}

	return s.GetTask(ctx, taskID)
}

// UnassignMembers removes member assignments from a task
func (s *TaskService) UnassignMembers(ctx context.Context, taskID string, memberIDs []string) (*models.Task, error) {
	if len(memberIDs) == 0 {
		return nil, ErrNoMemberIDsProvided
	}
	if err := checkIDs("member_ids", memberIDs); err != nil {
		return nil, err
	}
	if _, err := s.GetTask(ctx, taskID); err != nil {
		return nil, err
	}

	if err := s.tasks.UnassignMembers(ctx, taskID, uniqueStrings(memberIDs)); err != nil {
		return nil, fmt.Errorf("failed to unassign members: %w", err)
	}

	return s.GetTask(ctx, taskID)
}

// DraftTasks asks the AI service for task suggestions for a project. Nothing
// is stored.
func (s *TaskService) DraftTasks(ctx context.Context, projectID string) ([]DraftedTask, error) {
	if err := checkID("id", projectID); err != nil {
		return nil, err
	}
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, lookupError(err, ErrProjectNotFound, projectID)
	}

	drafts, err := s.aiService.DraftTasks(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}
	if len(drafts) == 0 {
		return nil, ErrAINoTasksGenerated
	}

	valid := sanitizeDrafts(drafts)
	if len(valid) == 0 {
		return nil, ErrAINoValidTasks
	}
	return valid, nil
}

func (s *TaskService) ensureProjectExists(ctx context.Context, projectID string) error {
	if _, err := s.projects.FindByID(ctx, projectID); err != nil {
		return lookupError(err, ErrProjectNotFound, projectID)
	}
	return nil
}

func (s *TaskService) ensureMembersExist(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	count, err := s.members.CountExisting(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to verify members: %w", err)
	}
	if int(count) != len(ids) {
		return ErrInvalidTaskAssignee
	}
	return nil
}

func (s *TaskService) ensureTasksExist(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	count, err := s.tasks.CountExisting(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to verify dependencies: %w", err)
	}
	if int(count) != len(ids) {
		return ErrInvalidTaskDependency
	}
	return nil
}
