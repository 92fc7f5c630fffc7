package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes returned in the "code" field of every error body
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeUnprocessable      = "UNPROCESSABLE"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeRequestTimeout     = "REQUEST_TIMEOUT"
)

// APIError is the JSON body of every error response
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

type errorKind struct {
	status         int
	code           string
	defaultMessage string
}

var (
	kindUnauthorized       = errorKind{http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required"}
	kindInvalidCredentials = errorKind{http.StatusUnauthorized, ErrCodeInvalidCredentials, "Invalid credentials"}
	kindForbidden          = errorKind{http.StatusForbidden, ErrCodeForbidden, "Access denied"}
	kindBadRequest         = errorKind{http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request"}
	kindNotFound           = errorKind{http.StatusNotFound, ErrCodeNotFound, "Resource not found"}
	kindConflict           = errorKind{http.StatusConflict, ErrCodeConflict, "Resource conflict"}
	kindUnprocessable      = errorKind{http.StatusUnprocessableEntity, ErrCodeUnprocessable, "Request could not be processed"}
	kindInternal           = errorKind{http.StatusInternalServerError, ErrCodeInternalError, "Internal server error"}
	kindUnavailable        = errorKind{http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Service temporarily unavailable"}
	kindTimeout            = errorKind{http.StatusGatewayTimeout, ErrCodeRequestTimeout, "Request timed out"}
)

// respond writes the error body and aborts the handler chain.
func respond(c *gin.Context, kind errorKind, message string, details interface{}) {
	if message == "" {
		message = kind.defaultMessage
	}
	c.AbortWithStatusJSON(kind.status, &APIError{
		Code:    kind.code,
		Message: message,
		Details: details,
	})
}

func Unauthorized(c *gin.Context, message string) {
	respond(c, kindUnauthorized, message, nil)
}

// InvalidCredentials is the 401 answer to a failed login
func InvalidCredentials(c *gin.Context, message string) {
	respond(c, kindInvalidCredentials, message, nil)
}

func Forbidden(c *gin.Context, message string) {
	respond(c, kindForbidden, message, nil)
}

func NotFound(c *gin.Context, message string) {
	respond(c, kindNotFound, message, nil)
}

func BadRequest(c *gin.Context, message string) {
	respond(c, kindBadRequest, message, nil)
}

// BadRequestWithDetails answers 400 with per-field details
func BadRequestWithDetails(c *gin.Context, message string, details interface{}) {
	respond(c, kindBadRequest, message, details)
}

func Conflict(c *gin.Context, message string) {
	respond(c, kindConflict, message, nil)
}

// Unprocessable answers 422 when a well-formed request produced nothing usable
func Unprocessable(c *gin.Context, message string) {
	respond(c, kindUnprocessable, message, nil)
}

func InternalError(c *gin.Context, message string) {
	respond(c, kindInternal, message, nil)
}

func ServiceUnavailable(c *gin.Context, message string) {
	respond(c, kindUnavailable, message, nil)
}

// GatewayTimeout answers 504 once the request deadline has passed
func GatewayTimeout(c *gin.Context, message string) {
	respond(c, kindTimeout, message, nil)
}
