package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pm-assistant-api/internal/constants"
	"github.com/yukikurage/pm-assistant-api/internal/dto"
	apierrors "github.com/yukikurage/pm-assistant-api/internal/errors"
	"github.com/yukikurage/pm-assistant-api/internal/middleware"
	"github.com/yukikurage/pm-assistant-api/internal/models"
	"github.com/yukikurage/pm-assistant-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService  *services.AuthService
	tokenService *services.TokenService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, tokenService *services.TokenService) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenService: tokenService,
	}
}

// Register creates a new user and returns an access token for it.
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondWithToken(c, http.StatusCreated, user)
}

// Login authenticates a user, initializes the session and returns an access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginInput
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	h.respondWithToken(c, http.StatusOK, user)
}

// Logout removes the authentication session. Bearer tokens stay valid until they expire.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		userID, exists := middleware.GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "Not authenticated")
			return
		}

		found, err := h.authService.GetUser(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		user = *found
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(user))
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, err := h.tokenService.Issue(user)
	if err != nil {
		apierrors.InternalError(c, "Failed to issue access token")
		return
	}

	c.JSON(status, dto.AuthResponse{
		AccessToken: token,
		TokenType:   constants.TokenType,
		ExpiresIn:   int64(h.tokenService.TTL().Seconds()),
		User:        dto.ToUserDTO(*user),
	})
}
