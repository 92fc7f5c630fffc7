package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "github.com/yukikurage/pm-assistant-api/internal/errors"
	"github.com/yukikurage/pm-assistant-api/internal/models"
	"github.com/yukikurage/pm-assistant-api/internal/repository"
	"github.com/yukikurage/pm-assistant-api/internal/services"
)

// failingGateway answers every task lookup with err
type failingGateway struct {
	repository.AnalyticsGateway
	err error
}

func (g failingGateway) FindTask(ctx context.Context, id string) (*models.Task, error) {
	return nil, g.err
}

func timeSummaryResponse(t *testing.T, gatewayErr error) (*httptest.ResponseRecorder, apierrors.APIError) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler := NewTaskHandler(nil, services.NewAnalyticsService(failingGateway{err: gatewayErr}))
	r := gin.New()
	r.GET("/tasks/:id/time-summary", handler.GetTimeSummary)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks/"+models.NewID()+"/time-summary", nil))

	var body apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return w, body
}

func TestGetTimeSummary_DeadlineIsGatewayTimeout(t *testing.T) {
	w, body := timeSummaryResponse(t, context.DeadlineExceeded)

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, apierrors.ErrCodeRequestTimeout, body.Code)
}

func TestGetTimeSummary_StoreFailureIsUnavailable(t *testing.T) {
	w, body := timeSummaryResponse(t, errors.New("connection refused"))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, apierrors.ErrCodeServiceUnavailable, body.Code)
}

func TestRespondError_WrappedDeadline(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, errors.Join(services.ErrDependencyFailure, context.DeadlineExceeded))

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}
