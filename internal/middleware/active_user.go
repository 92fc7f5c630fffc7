package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/pm-assistant-api/internal/errors"
	"github.com/yukikurage/pm-assistant-api/internal/models"
	"github.com/yukikurage/pm-assistant-api/internal/services"
)

const contextKeyUser = "user"

// RequireActiveUser loads the authenticated user and rejects deleted or
// deactivated accounts. It must run after RequireAuth.
func RequireActiveUser(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		user, err := authService.GetUser(c.Request.Context(), userID)
		switch {
		case err == nil:
		case errors.Is(err, services.ErrInactiveUser):
			apierrors.Forbidden(c, err.Error())
			return
		case errors.Is(err, services.ErrUserNotFound), errors.Is(err, services.ErrInvalidID):
			// Token outlived its account
			apierrors.Unauthorized(c, "")
			return
		default:
			apierrors.InternalError(c, "Failed to load user")
			return
		}

		c.Set(contextKeyUser, *user)
		c.Next()
	}
}

// GetUser returns the user loaded by RequireActiveUser
func GetUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get(contextKeyUser)
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}
