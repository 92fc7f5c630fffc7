package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pm-assistant-api/internal/services"
	"github.com/yukikurage/pm-assistant-api/internal/utils"
)

type ProjectHandler struct {
	projectService   *services.ProjectService
	taskService      *services.TaskService
	analyticsService *services.AnalyticsService
}

func NewProjectHandler(projectService *services.ProjectService, taskService *services.TaskService, analyticsService *services.AnalyticsService) *ProjectHandler {
	return &ProjectHandler{
		projectService:   projectService,
		taskService:      taskService,
		analyticsService: analyticsService,
	}
}

// ListProjects returns projects, optionally filtered by status or team member
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	projects, total, err := h.projectService.List(c.Request.Context(), services.ListProjectsInput{
		Status:       c.Query("status"),
		TeamMemberID: c.Query("team_member_id"),
		Page:         params.Page,
		PageSize:     params.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, projects, params, total)
}

// GetProject returns a project by ID
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.projectService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// CreateProject creates a new project
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req services.CreateProjectInput
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

// UpdateProject applies a partial update to a project
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	var req services.UpdateProjectInput
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// DeleteProject deletes a project with all of its tasks
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	if err := h.projectService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetSummary returns task progress and logged time for a project
func (h *ProjectHandler) GetSummary(c *gin.Context) {
	summary, err := h.analyticsService.ProjectSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GenerateTasks drafts task suggestions for a project using AI. Nothing is saved.
func (h *ProjectHandler) GenerateTasks(c *gin.Context) {
	drafts, err := h.taskService.DraftTasks(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": drafts,
		"count": len(drafts),
	})
}
