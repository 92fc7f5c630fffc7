package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yukikurage/pm-assistant-api/internal/constants"
	"github.com/yukikurage/pm-assistant-api/internal/models"
	"github.com/yukikurage/pm-assistant-api/internal/services"
)

// Palette colours the report
type Palette struct {
	Title   lipgloss.Color
	Dim     lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Border  lipgloss.Color
}

// Default is the palette used by the pmreport command
var Default = Palette{
	Title:   lipgloss.Color("#7aa2f7"),
	Dim:     lipgloss.Color("#565f89"),
	Success: lipgloss.Color("#9ece6a"),
	Warning: lipgloss.Color("#e0af68"),
	Error:   lipgloss.Color("#f7768e"),
	Border:  lipgloss.Color("#3b4261"),
}

// Renderer turns analytics results into terminal text
type Renderer struct {
	palette Palette
	title   lipgloss.Style
	label   lipgloss.Style
	box     lipgloss.Style
}

func NewRenderer(palette Palette) *Renderer {
	return &Renderer{
		palette: palette,
		title:   lipgloss.NewStyle().Bold(true).Foreground(palette.Title).MarginBottom(1),
		label:   lipgloss.NewStyle().Foreground(palette.Dim).Width(22),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Border).
			Padding(0, 1),
	}
}

// bandColor picks the colour for a usage percentage: red above 100, amber
// from the near-budget threshold up.
func (r *Renderer) bandColor(percent float64) lipgloss.Color {
	switch {
	case percent > constants.FullPercent:
		return r.palette.Error
	case percent >= constants.NearBudgetPercent:
		return r.palette.Warning
	default:
		return r.palette.Success
	}
}

func (r *Renderer) percent(value float64) string {
	return lipgloss.NewStyle().Foreground(r.bandColor(value)).Render(fmt.Sprintf("%.1f%%", value))
}

func (r *Renderer) row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, r.label.Render(label), value)
}

// TimeSummary renders one task's logged time against its estimate
func (r *Renderer) TimeSummary(s services.TaskTimeSummary) string {
	name := s.TaskName
	if name == "" {
		name = s.TaskID
	}
	rows := []string{
		r.title.Render("Task: " + name),
		r.row("Estimated hours", fmt.Sprintf("%.2f", s.EstimatedDurationHours)),
		r.row("Hours logged", fmt.Sprintf("%.2f (%d logs)", s.TotalHoursSpent, s.LogCount)),
		r.row("Difference", fmt.Sprintf("%+.2f", s.Difference)),
		r.row("Used", r.percent(s.PercentageUsed)),
		r.row("Status", string(s.Status)),
	}
	return r.box.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// Workloads renders a table of member workloads
func (r *Renderer) Workloads(workloads []services.MemberWorkload) string {
	if len(workloads) == 0 {
		return lipgloss.NewStyle().Foreground(r.palette.Dim).Render("No members found")
	}

	header := lipgloss.NewStyle().Bold(true)
	nameCol := lipgloss.NewStyle().Width(24)
	numCol := lipgloss.NewStyle().Width(14).Align(lipgloss.Right)

	lines := []string{
		r.title.Render("Team workload"),
		lipgloss.JoinHorizontal(lipgloss.Top,
			header.Inherit(nameCol).Render("Member"),
			header.Inherit(numCol).Render("Active"),
			header.Inherit(numCol).Render("Assigned h"),
			header.Inherit(numCol).Render("Capacity h"),
			header.Inherit(numCol).Render("Utilization"),
		),
	}
	for _, w := range workloads {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			nameCol.Render(truncate(w.MemberName, 23)),
			numCol.Render(fmt.Sprintf("%d", w.ActiveTasksCount)),
			numCol.Render(fmt.Sprintf("%.1f", w.TotalEstimatedHoursAssigned)),
			numCol.Render(fmt.Sprintf("%.1f", w.WeeklyCapacityHours)),
			numCol.Render(r.percent(w.UtilizationPercent)),
		))
	}
	return r.box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// ProjectSummary renders progress figures for a project
func (r *Renderer) ProjectSummary(s services.ProjectSummary) string {
	rows := []string{
		r.title.Render("Project: " + s.ProjectName),
		r.row("Tasks", fmt.Sprintf("%d", s.TotalTasks)),
	}

	statuses := make([]string, 0, len(s.TasksByStatus))
	for status := range s.TasksByStatus {
		statuses = append(statuses, string(status))
	}
	sort.Slice(statuses, func(i, j int) bool {
		return statusOrder(statuses[i]) < statusOrder(statuses[j])
	})
	for _, status := range statuses {
		rows = append(rows, r.row("  "+status, fmt.Sprintf("%d", s.TasksByStatus[models.TaskStatus(status)])))
	}

	rows = append(rows,
		r.row("Estimated hours", fmt.Sprintf("%.2f", s.TotalEstimatedHours)),
		r.row("Hours logged", fmt.Sprintf("%.2f", s.TotalHoursLogged)),
		r.row("Complete", fmt.Sprintf("%.1f%%", s.CompletionPercent)),
	)
	return r.box.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func statusOrder(status string) int {
	for i, s := range models.TaskStatuses {
		if string(s) == status {
			return i
		}
	}
	return len(models.TaskStatuses)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max-1])) + "…"
}
