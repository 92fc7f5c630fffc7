package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/pm-assistant-api/internal/models"
	"github.com/yukikurage/pm-assistant-api/internal/services"
)

func TestRenderer_TimeSummary(t *testing.T) {
	r := NewRenderer(Default)

	out := r.TimeSummary(services.TaskTimeSummary{
		TaskName:               "Build API",
		EstimatedDurationHours: 10,
		TotalHoursSpent:        12,
		LogCount:               3,
		Difference:             2,
		PercentageUsed:         120,
		Status:                 services.BudgetOver,
	})

	assert.Contains(t, out, "Task: Build API")
	assert.Contains(t, out, "120.0%")
	assert.Contains(t, out, "+2.00")
	assert.Contains(t, out, "over_budget")
}

func TestRenderer_Workloads(t *testing.T) {
	r := NewRenderer(Default)

	out := r.Workloads([]services.MemberWorkload{
		{MemberName: "Alice", ActiveTasksCount: 2, TotalEstimatedHoursAssigned: 25, WeeklyCapacityHours: 40, UtilizationPercent: 62.5},
	})

	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "62.5%")
	assert.Contains(t, r.Workloads(nil), "No members found")
}

func TestRenderer_ProjectSummary(t *testing.T) {
	r := NewRenderer(Default)

	out := r.ProjectSummary(services.ProjectSummary{
		ProjectName:       "Launch",
		TotalTasks:        2,
		TasksByStatus:     map[models.TaskStatus]int{models.TaskStatusTodo: 1, models.TaskStatusDone: 1, models.TaskStatusInProgress: 0},
		CompletionPercent: 50,
	})

	assert.Contains(t, out, "Project: Launch")
	assert.Contains(t, out, "50.0%")
	assert.Less(t, strings.Index(out, "To Do"), strings.Index(out, "Done"))
}

func TestBandColor(t *testing.T) {
	r := NewRenderer(Default)

	assert.Equal(t, Default.Success, r.bandColor(50))
	assert.Equal(t, Default.Warning, r.bandColor(90))
	assert.Equal(t, Default.Warning, r.bandColor(100))
	assert.Equal(t, Default.Error, r.bandColor(100.5))
}

