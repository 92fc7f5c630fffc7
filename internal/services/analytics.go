package services

import (
	"github.com/yukikurage/pm-assistant-api/internal/constants"
	"github.com/yukikurage/pm-assistant-api/internal/models"
)

// BudgetStatus classifies logged time against a task's estimate.
type BudgetStatus string

const (
	BudgetOver  BudgetStatus = "over_budget"
	BudgetOn    BudgetStatus = "on_budget"
	BudgetUnder BudgetStatus = "under_budget"
)

// TaskTimeSummary compares the hours logged on a task with its estimate.
type TaskTimeSummary struct {
	TaskID                 string       `json:"task_id"`
	TaskName               string       `json:"task_name"`
	EstimatedDurationHours float64      `json:"estimated_duration_hours"`
	TotalHoursSpent        float64      `json:"total_hours_spent"`
	LogCount               int          `json:"log_count"`
	Difference             float64      `json:"difference"`
	PercentageUsed         float64      `json:"percentage_used"`
	Status                 BudgetStatus `json:"status"`
}

// MemberWorkload compares a member's open estimated work with weekly capacity.
type MemberWorkload struct {
	MemberID                    string  `json:"member_id"`
	MemberName                  string  `json:"member_name"`
	AvailabilityPercent         float64 `json:"availability_percent"`
	ActiveTasksCount            int     `json:"active_tasks_count"`
	TotalEstimatedHoursAssigned float64 `json:"total_estimated_hours_assigned"`
	WeeklyCapacityHours         float64 `json:"weekly_capacity_hours"`
	UtilizationPercent          float64 `json:"utilization_percent"`
}

// ProjectSummary aggregates task progress and logged time for a project.
type ProjectSummary struct {
	ProjectID           string                    `json:"project_id"`
	ProjectName         string                    `json:"project_name"`
	TotalTasks          int                       `json:"total_tasks"`
	TasksByStatus       map[models.TaskStatus]int `json:"tasks_by_status"`
	TotalEstimatedHours float64                   `json:"total_estimated_hours"`
	TotalHoursLogged    float64                   `json:"total_hours_logged"`
	CompletionPercent   float64                   `json:"completion_percent"`
}

// ComputeTimeSummary derives the time summary of task from its logs. Logs for
// other tasks must already be filtered out.
func ComputeTimeSummary(task models.Task, logs []models.TimeLog) TaskTimeSummary {
	var total float64
	for _, log := range logs {
		total += log.HoursSpent
	}

	estimate := task.EstimatedDurationHours
	var pct float64
	if estimate > 0 {
		pct = total / estimate * 100
	}

	return TaskTimeSummary{
		TaskID:                 task.ID,
		TaskName:               task.Name,
		EstimatedDurationHours: estimate,
		TotalHoursSpent:        total,
		LogCount:               len(logs),
		Difference:             total - estimate,
		PercentageUsed:         pct,
		Status:                 budgetStatus(total, estimate, pct),
	}
}

// budgetEpsilon absorbs float summation error, e.g. 0.1 + 0.2 against 0.3.
const budgetEpsilon = 1e-9

func budgetStatus(total, estimate, pct float64) BudgetStatus {
	switch {
	case total > estimate+budgetEpsilon:
		return BudgetOver
	case pct < constants.NearBudgetPercent-budgetEpsilon:
		return BudgetUnder
	default:
		return BudgetOn
	}
}

// ComputeWorkload derives a member's workload from their assigned tasks. Done
// tasks are skipped even if the caller passes them in.
func ComputeWorkload(member models.Member, tasks []models.Task) MemberWorkload {
	var (
		active int
		hours  float64
	)
	for _, task := range tasks {
		if task.Status == models.TaskStatusDone {
			continue
		}
		active++
		hours += task.EstimatedDurationHours
	}

	capacity := member.AvailabilityPercent / constants.FullPercent * constants.HoursPerWeek
	var utilization float64
	if capacity > 0 {
		utilization = hours / capacity * 100
	}

	return MemberWorkload{
		MemberID:                    member.ID,
		MemberName:                  member.Name,
		AvailabilityPercent:         member.AvailabilityPercent,
		ActiveTasksCount:            active,
		TotalEstimatedHoursAssigned: hours,
		WeeklyCapacityHours:         capacity,
		UtilizationPercent:          utilization,
	}
}

// ComputeProjectSummary derives progress figures for project. logs may cover
// any subset of the project's tasks.
func ComputeProjectSummary(project models.Project, tasks []models.Task, logs []models.TimeLog) ProjectSummary {
	byStatus := make(map[models.TaskStatus]int, len(models.TaskStatuses))
	for _, status := range models.TaskStatuses {
		byStatus[status] = 0
	}

	var estimated float64
	for _, task := range tasks {
		byStatus[task.Status]++
		estimated += task.EstimatedDurationHours
	}

	var logged float64
	for _, log := range logs {
		logged += log.HoursSpent
	}

	var completion float64
	if len(tasks) > 0 {
		completion = float64(byStatus[models.TaskStatusDone]) / float64(len(tasks)) * 100
	}

	return ProjectSummary{
		ProjectID:           project.ID,
		ProjectName:         project.Name,
		TotalTasks:          len(tasks),
		TasksByStatus:       byStatus,
		TotalEstimatedHours: estimated,
		TotalHoursLogged:    logged,
		CompletionPercent:   completion,
	}
}
