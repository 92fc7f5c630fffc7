package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pm-assistant-api/internal/services"
	"github.com/yukikurage/pm-assistant-api/internal/utils"
)

type TaskHandler struct {
	taskService      *services.TaskService
	analyticsService *services.AnalyticsService
}

func NewTaskHandler(taskService *services.TaskService, analyticsService *services.AnalyticsService) *TaskHandler {
	return &TaskHandler{
		taskService:      taskService,
		analyticsService: analyticsService,
	}
}

// assignMembersRequest is the body of assign and unassign
type assignMembersRequest struct {
	MemberIDs []string `json:"member_ids"`
}

// ListTasks returns tasks, filtered by project_id, status or assigned_to
func (h *TaskHandler) ListTasks(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), services.ListTasksInput{
		ProjectID:  c.Query("project_id"),
		Status:     c.Query("status"),
		AssignedTo: c.Query("assigned_to"),
		Page:       params.Page,
		PageSize:   params.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, tasks, params, total)
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.taskService.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req services.CreateTaskInput
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// UpdateTask updates an existing task. Omitted fields are left unchanged.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var req services.UpdateTaskInput
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask deletes a task and its time logs
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.taskService.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AssignTask assigns members to a task
func (h *TaskHandler) AssignTask(c *gin.Context) {
	var req assignMembersRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.AssignMembers(c.Request.Context(), c.Param("id"), req.MemberIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Members assigned successfully",
		"task":    task,
	})
}

// UnassignTask removes member assignments from a task
func (h *TaskHandler) UnassignTask(c *gin.Context) {
	var req assignMembersRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.UnassignMembers(c.Request.Context(), c.Param("id"), req.MemberIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Members unassigned successfully",
		"task":    task,
	})
}

// GetTimeSummary compares the time logged on a task with its estimate
func (h *TaskHandler) GetTimeSummary(c *gin.Context) {
	summary, err := h.analyticsService.TaskTimeSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
