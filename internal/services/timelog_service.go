package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/pm-assistant-api/internal/models"
	"github.com/yukikurage/pm-assistant-api/internal/repository"
	"github.com/yukikurage/pm-assistant-api/internal/validation"
)

var ErrTimeLogNotFound = errors.New("time log not found")

// TimeLogService handles time log business logic
type TimeLogService struct {
	timeLogs repository.TimeLogRepository
	tasks    repository.TaskRepository
	members  repository.MemberRepository
}

// NewTimeLogService creates a new TimeLogService
func NewTimeLogService(timeLogs repository.TimeLogRepository, tasks repository.TaskRepository, members repository.MemberRepository) *TimeLogService {
	return &TimeLogService{
		timeLogs: timeLogs,
		tasks:    tasks,
		members:  members,
	}
}

// CreateTimeLogInput represents input for logging time
type CreateTimeLogInput struct {
	TaskID     string     `json:"task_id" validate:"required,objectid"`
	MemberID   string     `json:"member_id" validate:"required,objectid"`
	HoursSpent float64    `json:"hours_spent" validate:"gt=0"`
	LogDate    *time.Time `json:"log_date"`
	Notes      string     `json:"notes"`
}

// UpdateTimeLogInput represents a partial time log update
type UpdateTimeLogInput struct {
	TaskID     *string    `json:"task_id" validate:"omitnil,objectid"`
	MemberID   *string    `json:"member_id" validate:"omitnil,objectid"`
	HoursSpent *float64   `json:"hours_spent" validate:"omitnil,gt=0"`
	LogDate    *time.Time `json:"log_date"`
	Notes      *string    `json:"notes"`
}

// ListTimeLogsInput represents filters for listing time logs
type ListTimeLogsInput struct {
	TaskID   string
	MemberID string
	Page     int
	PageSize int
}

// Create validates references and stores a time log
func (s *TimeLogService) Create(ctx context.Context, input CreateTimeLogInput) (*models.TimeLog, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if err := s.ensureTaskExists(ctx, input.TaskID); err != nil {
		return nil, err
	}
	if err := s.ensureMemberExists(ctx, input.MemberID); err != nil {
		return nil, err
	}

	logDate := time.Now().UTC()
	if input.LogDate != nil {
		logDate = *input.LogDate
	}

	log := &models.TimeLog{
		TaskID:     input.TaskID,
		MemberID:   input.MemberID,
		HoursSpent: input.HoursSpent,
		LogDate:    logDate,
		Notes:      input.Notes,
	}
	if err := s.timeLogs.Create(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to create time log: %w", err)
	}
	return log, nil
}

// Get returns a time log by ID
func (s *TimeLogService) Get(ctx context.Context, id string) (*models.TimeLog, error) {
	if err := checkID("id", id); err != nil {
		return nil, err
	}
	log, err := s.timeLogs.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, ErrTimeLogNotFound, id)
	}
	return log, nil
}

// List returns time logs, newest first, optionally filtered by task or member
func (s *TimeLogService) List(ctx context.Context, input ListTimeLogsInput) ([]models.TimeLog, int64, error) {
	if input.TaskID != "" {
		if err := checkID("task_id", input.TaskID); err != nil {
			return nil, 0, err
		}
	}
	if input.MemberID != "" {
		if err := checkID("member_id", input.MemberID); err != nil {
			return nil, 0, err
		}
	}

	logs, total, err := s.timeLogs.List(ctx, repository.TimeLogFilter{
		TaskID:   input.TaskID,
		MemberID: input.MemberID,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list time logs: %w", err)
	}
	return logs, total, nil
}

// Update applies the provided fields to an existing time log
func (s *TimeLogService) Update(ctx context.Context, id string, input UpdateTimeLogInput) (*models.TimeLog, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	log, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.TaskID != nil && *input.TaskID != log.TaskID {
		if err := s.ensureTaskExists(ctx, *input.TaskID); err != nil {
			return nil, err
		}
		log.TaskID = *input.TaskID
	}
	if input.MemberID != nil && *input.MemberID != log.MemberID {
		if err := s.ensureMemberExists(ctx, *input.MemberID); err != nil {
			return nil, err
		}
		log.MemberID = *input.MemberID
	}
	if input.HoursSpent != nil {
		log.HoursSpent = *input.HoursSpent
	}
	if input.LogDate != nil {
		log.LogDate = *input.LogDate
	}
	if input.Notes != nil {
		log.Notes = *input.Notes
	}

	if err := s.timeLogs.Update(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to update time log: %w", err)
	}
	return log, nil
}

// Delete removes a time log
func (s *TimeLogService) Delete(ctx context.Context, id string) error {
	if err := checkID("id", id); err != nil {
		return err
	}
	if err := s.timeLogs.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrTimeLogNotFound, id)
		}
		return fmt.Errorf("failed to delete time log: %w", err)
	}
	return nil
}

func (s *TimeLogService) ensureTaskExists(ctx context.Context, id string) error {
	if _, err := s.tasks.FindByID(ctx, id); err != nil {
		return lookupError(err, ErrTaskNotFound, id)
	}
	return nil
}

func (s *TimeLogService) ensureMemberExists(ctx context.Context, id string) error {
	if _, err := s.members.FindByID(ctx, id); err != nil {
		return lookupError(err, ErrMemberNotFound, id)
	}
	return nil
}
