package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"openwonder/api/internal/httpapi"
	"openwonder/api/internal/middleware"
	"openwonder/api/internal/models"
	"openwonder/api/internal/repository"
	"openwonder/api/internal/service"
)

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Platform string `json:"platform"`
}

type userResponse struct {
	ID               string `json:"user_id"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	Status           string `json:"active"`
	FollowPrivacy    string `json:"follow_privacy"`
	ConfirmFollowers bool   `json:"confirm_followers"`
	FollowersCount   int    `json:"followers_count"`
	FollowingCount   int    `json:"following_count"`
}

func toUserResponse(user models.User) userResponse {
	return userResponse{
		ID:               user.ID,
		Username:         user.Username,
		Email:            user.Email,
		Status:           string(user.Status),
		FollowPrivacy:    string(user.FollowPrivacy),
		ConfirmFollowers: user.ConfirmFollowers,
		FollowersCount:   user.FollowersCount,
		FollowingCount:   user.FollowingCount,
	}
}

func (h HandlerSet) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, httpapi.ErrorInvalidParams, err.Error())
		return
	}

	result, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Platform: req.Platform,
	})
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, httpapi.ErrorInvalidParams, err.Error())
		return
	}

	httpapi.OK(c, gin.H{
		"access_token": result.Token,
		"user":         toUserResponse(result.User),
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Platform string `json:"platform"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, httpapi.ErrorInvalidParams, err.Error())
		return
	}

	result, err := h.authService.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Platform: req.Platform,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserInactive) {
			httpapi.Fail(c, http.StatusForbidden, httpapi.ErrorUserInactive, "this account is disabled or banned")
			return
		}
		httpapi.Fail(c, http.StatusUnauthorized, httpapi.ErrorInvalidParams, "invalid email or password")
		return
	}

	httpapi.OK(c, gin.H{
		"access_token": result.Token,
		"user":         toUserResponse(result.User),
	})
}

func (h HandlerSet) Logout(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		httpapi.Fail(c, http.StatusUnauthorized, httpapi.ErrorMissingSession, "no session")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), session.Token); err != nil {
		httpapi.Fail(c, http.StatusInternalServerError, httpapi.ErrorServer, "logout failed")
		return
	}
	httpapi.OK(c, gin.H{"message": "logged out"})
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ChangePassword also revokes every other session of the user; only the
// session performing the change survives.
func (h HandlerSet) ChangePassword(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	session, _ := middleware.CurrentSession(c)

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, httpapi.ErrorInvalidParams, err.Error())
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), user, req.OldPassword, req.NewPassword, session.Token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpapi.Fail(c, http.StatusUnauthorized, httpapi.ErrorInvalidParams, "old password is wrong")
			return
		}
		httpapi.Fail(c, http.StatusInternalServerError, httpapi.ErrorServer, "password change failed")
		return
	}
	httpapi.OK(c, gin.H{"message": "password changed"})
}

func (h HandlerSet) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		httpapi.Fail(c, http.StatusUnauthorized, httpapi.ErrorMissingSession, "no session")
		return
	}
	httpapi.OK(c, gin.H{"user": toUserResponse(user)})
}

type sessionResponse struct {
	ID        string    `json:"id"`
	Platform  string    `json:"platform"`
	CreatedAt time.Time `json:"created_at"`
	Current   bool      `json:"current"`
}

func (h HandlerSet) ListSessions(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	current, _ := middleware.CurrentSession(c)

	sessions, err := h.sessions.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		httpapi.Fail(c, http.StatusInternalServerError, httpapi.ErrorServer, "listing sessions failed")
		return
	}

	resp := make([]sessionResponse, 0, len(sessions))
	for _, session := range sessions {
		resp = append(resp, sessionResponse{
			ID:        session.ID,
			Platform:  session.Platform,
			CreatedAt: session.CreatedAt,
			Current:   session.ID == current.ID,
		})
	}
	httpapi.OK(c, gin.H{"sessions": resp})
}

func (h HandlerSet) RevokeSession(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	current, _ := middleware.CurrentSession(c)

	sessionID := c.Param("id")
	if sessionID == current.ID {
		httpapi.Fail(c, http.StatusBadRequest, httpapi.ErrorInvalidParams, "cannot revoke the current session, use logout")
		return
	}

	if err := h.sessions.RevokeByID(c.Request.Context(), user.ID, sessionID); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			httpapi.Fail(c, http.StatusNotFound, httpapi.ErrorNotFound, "session not found")
			return
		}
		httpapi.Fail(c, http.StatusInternalServerError, httpapi.ErrorServer, "revoke failed")
		return
	}
	httpapi.OK(c, gin.H{"message": "session revoked"})
}
