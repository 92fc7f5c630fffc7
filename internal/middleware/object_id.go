package middleware

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/pm-assistant-api/internal/errors"
	"github.com/yukikurage/pm-assistant-api/internal/validation"
)

// RequireObjectID rejects requests whose path parameter is not a well-formed id
func RequireObjectID(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := validation.ID(param, c.Param(param)); err != nil {
			apierrors.BadRequestWithDetails(c, "Invalid "+param, err.(*validation.Error).Fields)
			return
		}
		c.Next()
	}
}
