package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pm-assistant-api/internal/services"
	"github.com/yukikurage/pm-assistant-api/internal/utils"
)

type TimeLogHandler struct {
	timeLogService *services.TimeLogService
}

func NewTimeLogHandler(timeLogService *services.TimeLogService) *TimeLogHandler {
	return &TimeLogHandler{timeLogService: timeLogService}
}

// ListTimeLogs returns time logs filtered by task_id or member_id
func (h *TimeLogHandler) ListTimeLogs(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	logs, total, err := h.timeLogService.List(c.Request.Context(), services.ListTimeLogsInput{
		TaskID:   c.Query("task_id"),
		MemberID: c.Query("member_id"),
		Page:     params.Page,
		PageSize: params.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, logs, params, total)
}

func (h *TimeLogHandler) GetTimeLog(c *gin.Context) {
	log, err := h.timeLogService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, log)
}

// CreateTimeLog records hours spent by a member on a task
func (h *TimeLogHandler) CreateTimeLog(c *gin.Context) {
	var req services.CreateTimeLogInput
	if !bindJSON(c, &req) {
		return
	}

	log, err := h.timeLogService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, log)
}

func (h *TimeLogHandler) UpdateTimeLog(c *gin.Context) {
	var req services.UpdateTimeLogInput
	if !bindJSON(c, &req) {
		return
	}

	log, err := h.timeLogService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, log)
}

func (h *TimeLogHandler) DeleteTimeLog(c *gin.Context) {
	if err := h.timeLogService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
