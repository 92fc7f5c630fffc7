package middleware

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pm-assistant-api/internal/constants"
	apierrors "github.com/yukikurage/pm-assistant-api/internal/errors"
	"github.com/yukikurage/pm-assistant-api/internal/services"
)

// RequireAuth accepts a Bearer access token and falls back to the session
func RequireAuth(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") {
				apierrors.Unauthorized(c, "Authorization header must use the Bearer scheme")
				return
			}

			claims, err := tokens.Parse(strings.TrimSpace(token))
			if err != nil {
				apierrors.Unauthorized(c, err.Error())
				return
			}

			c.Set(constants.ContextKeyUserID, claims.Subject)
			c.Set(constants.ContextKeyUsername, claims.Username)
			c.Next()
			return
		}

		session := sessions.Default(c)
		userID, ok := session.Get(constants.ContextKeyUserID).(string)
		if !ok || userID == "" {
			apierrors.Unauthorized(c, "")
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(constants.ContextKeyUserID)
	return userID, userID != ""
}
