package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadRequestWithDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	BadRequestWithDetails(c, "Validation failed", []map[string]string{{"field": "name", "message": "is required"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, c.IsAborted())

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ErrCodeInvalidInput, body["code"])
	assert.Len(t, body["details"], 1)
}

func TestDefaultMessages(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		respond func(*gin.Context, string)
		status  int
		code    string
	}{
		{Unauthorized, http.StatusUnauthorized, ErrCodeUnauthorized},
		{Forbidden, http.StatusForbidden, ErrCodeForbidden},
		{NotFound, http.StatusNotFound, ErrCodeNotFound},
		{Conflict, http.StatusConflict, ErrCodeConflict},
		{ServiceUnavailable, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{Unprocessable, http.StatusUnprocessableEntity, ErrCodeUnprocessable},
		{GatewayTimeout, http.StatusGatewayTimeout, ErrCodeRequestTimeout},
		{InvalidCredentials, http.StatusUnauthorized, ErrCodeInvalidCredentials},
		{InternalError, http.StatusInternalServerError, ErrCodeInternalError},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		tt.respond(c, "")

		var body APIError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tt.status, w.Code)
		assert.Equal(t, tt.code, body.Code)
		assert.NotEmpty(t, body.Message)
		assert.Nil(t, body.Details)
	}
}
