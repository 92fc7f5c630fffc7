package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/pm-assistant-api/internal/models"
)

var (
	// ErrNotFound is returned by every backend when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique field is already taken.
	ErrDuplicate = errors.New("duplicate key")
	// ErrUnavailable is returned when the store is failing fast after repeated errors.
	ErrUnavailable = errors.New("data store unavailable")
	// ErrInUse is returned when a delete is refused because other records still reference the row.
	ErrInUse = errors.New("record is still referenced")
)

// MemberRepository defines the interface for member data access
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error

	FindByID(ctx context.Context, id string) (*models.Member, error)

	FindByEmail(ctx context.Context, email string) (*models.Member, error)

	List(ctx context.Context, filter MemberFilter) ([]models.Member, int64, error)

	Update(ctx context.Context, member *models.Member) error

	// Delete removes the member and pulls it from task assignments and project
	// teams. It returns ErrInUse while time logs reference the member.
	Delete(ctx context.Context, id string) error

	// CountExisting counts how many of the given member IDs exist
	CountExisting(ctx context.Context, ids []string) (int64, error)
}

// MemberFilter holds pagination options for listing members
type MemberFilter struct {
	Page     int
	PageSize int
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error

	FindByID(ctx context.Context, id string) (*models.Project, error)

	List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error)

	Update(ctx context.Context, project *models.Project) error

	// Delete removes the project together with its tasks and their time logs
	Delete(ctx context.Context, id string) error
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	Status       *models.ProjectStatus
	TeamMemberID string
	Page         int
	PageSize     int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error

	FindByID(ctx context.Context, id string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	Update(ctx context.Context, task *models.Task) error

	// Delete removes the task, its time logs, and references to it from other tasks
	Delete(ctx context.Context, id string) error

	// AssignMembers adds members to the task's assigned set
	AssignMembers(ctx context.Context, taskID string, memberIDs []string) error

	// UnassignMembers removes members from the task's assigned set
	UnassignMembers(ctx context.Context, taskID string, memberIDs []string) error

	// CountExisting counts how many of the given task IDs exist
	CountExisting(ctx context.Context, ids []string) (int64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectID        string
	Status           *models.TaskStatus
	ExcludeStatus    *models.TaskStatus
	AssignedMemberID string
	DependsOnTaskID  string
	Page             int
	PageSize         int
}

// TimeLogRepository defines the interface for time log data access
type TimeLogRepository interface {
	Create(ctx context.Context, log *models.TimeLog) error

	FindByID(ctx context.Context, id string) (*models.TimeLog, error)

	List(ctx context.Context, filter TimeLogFilter) ([]models.TimeLog, int64, error)

	Update(ctx context.Context, log *models.TimeLog) error

	Delete(ctx context.Context, id string) error
}

// TimeLogFilter holds filtering options for listing time logs
type TimeLogFilter struct {
	TaskID   string
	TaskIDs  []string
	MemberID string
	Page     int
	PageSize int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error

	FindByID(ctx context.Context, id string) (*models.User, error)

	FindByUsername(ctx context.Context, username string) (*models.User, error)

	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Store groups the repositories of one backend.
type Store struct {
	Members  MemberRepository
	Projects ProjectRepository
	Tasks    TaskRepository
	TimeLogs TimeLogRepository
	Users    UserRepository
}

func orEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func normalizeTask(task *models.Task) {
	task.AssignedToIDs = orEmpty(task.AssignedToIDs)
	task.DependencyIDs = orEmpty(task.DependencyIDs)
}

func normalizeProject(project *models.Project) {
	project.TeamMemberIDs = orEmpty(project.TeamMemberIDs)
	project.Milestones = orEmpty(project.Milestones)
}

func normalizeMember(member *models.Member) {
	member.Skills = orEmpty(member.Skills)
}
