package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/pm-assistant-api/internal/repository"
)

// ErrDependencyFailure wraps store errors surfaced by analytics reads. The
// engine never retries them.
var ErrDependencyFailure = errors.New("data store failure")

// AnalyticsService computes derived views on every call. Nothing it returns
// is stored or cached.
type AnalyticsService struct {
	gateway repository.AnalyticsGateway
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(gateway repository.AnalyticsGateway) *AnalyticsService {
	return &AnalyticsService{gateway: gateway}
}

// TaskTimeSummary sums the time logged on taskID and compares it with the estimate.
func (s *AnalyticsService) TaskTimeSummary(ctx context.Context, taskID string) (*TaskTimeSummary, error) {
	if err := checkID("task_id", taskID); err != nil {
		return nil, err
	}

	task, err := s.gateway.FindTask(ctx, taskID)
	if err != nil {
		return nil, gatewayError(err, ErrTaskNotFound, taskID)
	}

	logs, err := s.gateway.FindTimeLogsByTask(ctx, taskID)
	if err != nil {
		return nil, gatewayError(err, ErrTaskNotFound, taskID)
	}

	summary := ComputeTimeSummary(*task, logs)
	return &summary, nil
}

// MemberWorkload totals the open work assigned to memberID against weekly capacity.
func (s *AnalyticsService) MemberWorkload(ctx context.Context, memberID string) (*MemberWorkload, error) {
	if err := checkID("member_id", memberID); err != nil {
		return nil, err
	}

	member, err := s.gateway.FindMember(ctx, memberID)
	if err != nil {
		return nil, gatewayError(err, ErrMemberNotFound, memberID)
	}

	tasks, err := s.gateway.FindActiveTasksByMember(ctx, memberID)
	if err != nil {
		return nil, gatewayError(err, ErrMemberNotFound, memberID)
	}

	workload := ComputeWorkload(*member, tasks)
	return &workload, nil
}

// TeamWorkload returns the workload of every member, ordered by name.
func (s *AnalyticsService) TeamWorkload(ctx context.Context) ([]MemberWorkload, error) {
	members, err := s.gateway.FindMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDependencyFailure, err)
	}

	workloads := make([]MemberWorkload, 0, len(members))
	for _, member := range members {
		tasks, err := s.gateway.FindActiveTasksByMember(ctx, member.ID)
		if err != nil {
			return nil, gatewayError(err, ErrMemberNotFound, member.ID)
		}
		workloads = append(workloads, ComputeWorkload(member, tasks))
	}
	return workloads, nil
}

// ProjectSummary reports task counts by status and logged hours for projectID.
func (s *AnalyticsService) ProjectSummary(ctx context.Context, projectID string) (*ProjectSummary, error) {
	if err := checkID("project_id", projectID); err != nil {
		return nil, err
	}

	project, err := s.gateway.FindProject(ctx, projectID)
	if err != nil {
		return nil, gatewayError(err, ErrProjectNotFound, projectID)
	}

	tasks, err := s.gateway.FindTasksByProject(ctx, projectID)
	if err != nil {
		return nil, gatewayError(err, ErrProjectNotFound, projectID)
	}

	taskIDs := make([]string, len(tasks))
	for i, task := range tasks {
		taskIDs[i] = task.ID
	}
	logs, err := s.gateway.FindTimeLogsByTasks(ctx, taskIDs)
	if err != nil {
		return nil, gatewayError(err, ErrProjectNotFound, projectID)
	}

	summary := ComputeProjectSummary(*project, tasks, logs)
	return &summary, nil
}

func gatewayError(err error, notFound error, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", notFound, id)
	}
	return fmt.Errorf("%w: %w", ErrDependencyFailure, err)
}
