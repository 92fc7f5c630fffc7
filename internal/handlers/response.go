package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pm-assistant-api/internal/dto"
	apierrors "github.com/yukikurage/pm-assistant-api/internal/errors"
	"github.com/yukikurage/pm-assistant-api/internal/logging"
	"github.com/yukikurage/pm-assistant-api/internal/services"
	"github.com/yukikurage/pm-assistant-api/internal/utils"
	"github.com/yukikurage/pm-assistant-api/internal/validation"
)

// respondError maps service errors onto API error responses
func respondError(c *gin.Context, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		apierrors.BadRequestWithDetails(c, "Validation failed", verr.Fields)
	case errors.Is(err, services.ErrNoMemberIDsProvided),
		errors.Is(err, services.ErrInvalidTaskAssignee),
		errors.Is(err, services.ErrInvalidTaskDependency),
		errors.Is(err, services.ErrInvalidTeamMember),
		errors.Is(err, services.ErrSelfDependency):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrMemberNotFound),
		errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrTimeLogNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrMemberEmailTaken),
		errors.Is(err, services.ErrMemberHasTimeLogs),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, err.Error())
	case errors.Is(err, services.ErrInactiveUser):
		apierrors.Forbidden(c, err.Error())
	// Checked before ErrDependencyFailure, which wraps the deadline error
	case errors.Is(err, context.DeadlineExceeded):
		apierrors.GatewayTimeout(c, "")
	case errors.Is(err, services.ErrDependencyFailure):
		logging.Logger.WithError(err).Warn("analytics dependency failure")
		apierrors.ServiceUnavailable(c, "Data store is unavailable, try again later")
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
	case errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks):
		apierrors.Unprocessable(c, err.Error())
	default:
		_ = c.Error(err)
		apierrors.InternalError(c, "")
	}
}

// bindJSON decodes the request body and answers 400 itself on failure
func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return false
	}
	return true
}

func respondList[T any](c *gin.Context, items []T, params utils.PaginationParams, total int64) {
	c.JSON(http.StatusOK, dto.NewListResponse(items, params.Page, params.Limit, total))
}
