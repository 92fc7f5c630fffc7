package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/yukikurage/pm-assistant-api/internal/models"
)

// AnalyticsGateway is the read-only view of the store used to compute
// derived metrics.
type AnalyticsGateway interface {
	FindTask(ctx context.Context, id string) (*models.Task, error)
	FindTimeLogsByTask(ctx context.Context, taskID string) ([]models.TimeLog, error)
	FindMember(ctx context.Context, id string) (*models.Member, error)
	FindMembers(ctx context.Context) ([]models.Member, error)
	FindActiveTasksByMember(ctx context.Context, memberID string) ([]models.Task, error)
	FindProject(ctx context.Context, id string) (*models.Project, error)
	FindTasksByProject(ctx context.Context, projectID string) ([]models.Task, error)
	FindTimeLogsByTasks(ctx context.Context, taskIDs []string) ([]models.TimeLog, error)
}

type storeGateway struct {
	store Store
}

// NewAnalyticsGateway adapts a Store to AnalyticsGateway.
func NewAnalyticsGateway(store Store) AnalyticsGateway {
	return &storeGateway{store: store}
}

func (g *storeGateway) FindTask(ctx context.Context, id string) (*models.Task, error) {
	return g.store.Tasks.FindByID(ctx, id)
}

func (g *storeGateway) FindTimeLogsByTask(ctx context.Context, taskID string) ([]models.TimeLog, error) {
	logs, _, err := g.store.TimeLogs.List(ctx, TimeLogFilter{TaskID: taskID})
	return logs, err
}

func (g *storeGateway) FindMember(ctx context.Context, id string) (*models.Member, error) {
	return g.store.Members.FindByID(ctx, id)
}

func (g *storeGateway) FindMembers(ctx context.Context) ([]models.Member, error) {
	members, _, err := g.store.Members.List(ctx, MemberFilter{})
	return members, err
}

func (g *storeGateway) FindActiveTasksByMember(ctx context.Context, memberID string) ([]models.Task, error) {
	done := models.TaskStatusDone
	tasks, _, err := g.store.Tasks.List(ctx, TaskFilter{AssignedMemberID: memberID, ExcludeStatus: &done})
	return tasks, err
}

func (g *storeGateway) FindProject(ctx context.Context, id string) (*models.Project, error) {
	return g.store.Projects.FindByID(ctx, id)
}

func (g *storeGateway) FindTasksByProject(ctx context.Context, projectID string) ([]models.Task, error) {
	tasks, _, err := g.store.Tasks.List(ctx, TaskFilter{ProjectID: projectID})
	return tasks, err
}

func (g *storeGateway) FindTimeLogsByTasks(ctx context.Context, taskIDs []string) ([]models.TimeLog, error) {
	if taskIDs == nil {
		taskIDs = []string{}
	}
	logs, _, err := g.store.TimeLogs.List(ctx, TimeLogFilter{TaskIDs: taskIDs})
	return logs, err
}

// BreakerSettings configures NewBreakerGateway.
type BreakerSettings struct {
	Name        string
	MaxFailures uint32
	Timeout     time.Duration
	Logger      logrus.FieldLogger
}

type breakerGateway struct {
	next AnalyticsGateway
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerGateway wraps every call to next in a circuit breaker. After
// MaxFailures consecutive store errors calls fail fast with ErrUnavailable
// until Timeout elapses. ErrNotFound and caller cancellation are not failures.
func NewBreakerGateway(next AnalyticsGateway, settings BreakerSettings) AnalyticsGateway {
	if settings.MaxFailures == 0 {
		settings.MaxFailures = 1
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: 1,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if settings.Logger != nil {
				settings.Logger.WithFields(logrus.Fields{
					"breaker": name,
					"from":    from.String(),
					"to":      to.String(),
				}).Warn("circuit breaker state changed")
			}
		},
	})
	return &breakerGateway{next: next, cb: cb}
}

func guarded[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	out, err := cb.Execute(func() (interface{}, error) {
		v, err := fn()
		return v, err
	})
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return zero, err
	}
	return out.(T), nil
}

func (g *breakerGateway) FindTask(ctx context.Context, id string) (*models.Task, error) {
	return guarded(g.cb, func() (*models.Task, error) { return g.next.FindTask(ctx, id) })
}

func (g *breakerGateway) FindTimeLogsByTask(ctx context.Context, taskID string) ([]models.TimeLog, error) {
	return guarded(g.cb, func() ([]models.TimeLog, error) { return g.next.FindTimeLogsByTask(ctx, taskID) })
}

func (g *breakerGateway) FindMember(ctx context.Context, id string) (*models.Member, error) {
	return guarded(g.cb, func() (*models.Member, error) { return g.next.FindMember(ctx, id) })
}

func (g *breakerGateway) FindMembers(ctx context.Context) ([]models.Member, error) {
	return guarded(g.cb, func() ([]models.Member, error) { return g.next.FindMembers(ctx) })
}

func (g *breakerGateway) FindActiveTasksByMember(ctx context.Context, memberID string) ([]models.Task, error) {
	return guarded(g.cb, func() ([]models.Task, error) { return g.next.FindActiveTasksByMember(ctx, memberID) })
}

func (g *breakerGateway) FindProject(ctx context.Context, id string) (*models.Project, error) {
	return guarded(g.cb, func() (*models.Project, error) { return g.next.FindProject(ctx, id) })
}

func (g *breakerGateway) FindTasksByProject(ctx context.Context, projectID string) ([]models.Task, error) {
	return guarded(g.cb, func() ([]models.Task, error) { return g.next.FindTasksByProject(ctx, projectID) })
}

func (g *breakerGateway) FindTimeLogsByTasks(ctx context.Context, taskIDs []string) ([]models.TimeLog, error) {
	return guarded(g.cb, func() ([]models.TimeLog, error) { return g.next.FindTimeLogsByTasks(ctx, taskIDs) })
}
