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

// loadTargetUser resolves the :id path param to a user or writes the 404.
func (h HandlerSet) loadTargetUser(c *gin.Context) (models.User, bool) {
	target, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			httpapi.Fail(c, http.StatusNotFound, httpapi.ErrorNotFound, "user not found")
		} else {
			httpapi.Fail(c, http.StatusInternalServerError, httpapi.ErrorServer, "user lookup failed")
		}
		return models.User{}, false
	}
	return target, true
}

func (h HandlerSet) Follow(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)
	target, ok := h.loadTargetUser(c)
	if !ok {
		return
	}

	status, err := h.followService.Follow(c.Request.Context(), actor, target)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfAction):
			httpapi.Fail(c, http.StatusBadRequest, httpapi.ErrorInvalidParams, "cannot follow yourself")
		case errors.Is(err, service.ErrBlocked), errors.Is(err, service.ErrFollowNotAllowed):
			httpapi.Denied(c)
		default:
			httpapi.Fail(c, http.StatusInternalServerError, httpapi.ErrorServer, "follow failed")
		}
		return
	}

	httpapi.OK(c, gin.H{"follow_status": string(status)})
}

func (h HandlerSet) Unfollow(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)

	err := h.followService.Unfollow(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfAction):
			httpapi.Fail(c, http.StatusBadRequest, httpapi.ErrorInvalidParams, "cannot unfollow yourself")
		case errors.Is(err, repository.ErrFollowNotFound):
			httpapi.Fail(c, http.StatusNotFound, httpapi.ErrorNotFound, "not following this user")
		default:
			httpapi.Fail(c, http.StatusInternalServerError, httpapi.ErrorServer, "unfollow failed")
		}
		return
	}
	httpapi.OK(c, gin.H{"follow_status": "none"})
}

type followEdgeResponse struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (h HandlerSet) Followers(c *gin.Context) {
	if _, ok := h.loadTargetUser(c); !ok {
		return
	}

	edges, err := h.followService.Followers(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.Fail(c, http.StatusInternalServerError, httpapi.ErrorServer, "listing followers failed")
		return
	}

	resp := make([]followEdgeResponse, 0, len(edges))
	for _, edge := range edges {
		resp = append(resp, followEdgeResponse{UserID: edge.FollowerID, CreatedAt: edge.CreatedAt})
	}
	httpapi.OK(c, gin.H{"followers": resp})
}

func (h HandlerSet) Following(c *gin.Context) {
	if _, ok := h.loadTargetUser(c); !ok {
		return
	}

	edges, err := h.followService.Following(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.Fail(c, http.StatusInternalServerError, httpapi.ErrorServer, "listing following failed")
		return
	}

	resp := make([]followEdgeResponse, 0, len(edges))
	for _, edge := range edges {
		resp = append(resp, followEdgeResponse{UserID: edge.FollowingID, CreatedAt: edge.CreatedAt})
	}
	httpapi.OK(c, gin.H{"following": resp})
}

func (h HandlerSet) ListFollowRequests(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)

	edges, err := h.followService.PendingRequests(c.Request.Context(), actor)
	if err != nil {
		httpapi.Fail(c, http.StatusInternalServerError, httpapi.ErrorServer, "listing requests failed")
		return
	}

	resp := make([]followEdgeResponse, 0, len(edges))
	for _, edge := range edges {
		resp = append(resp, followEdgeResponse{UserID: edge.FollowerID, CreatedAt: edge.CreatedAt})
	}
	httpapi.OK(c, gin.H{"requests": resp})
}

func (h HandlerSet) AcceptFollowRequest(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)

	if err := h.followService.Accept(c.Request.Context(), actor, c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrFollowNotFound) {
			httpapi.Fail(c, http.StatusNotFound, httpapi.ErrorNotFound, "no pending request from this user")
			return
		}
		httpapi.Fail(c, http.StatusInternalServerError, httpapi.ErrorServer, "accept failed")
		return
	}
	httpapi.OK(c, gin.H{"message": "request accepted"})
}

func (h HandlerSet) DeclineFollowRequest(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)

	if err := h.followService.Decline(c.Request.Context(), actor, c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrFollowNotFound) {
			httpapi.Fail(c, http.StatusNotFound, httpapi.ErrorNotFound, "no pending request from this user")
			return
		}
		httpapi.Fail(c, http.StatusInternalServerError, httpapi.ErrorServer, "decline failed")
		return
	}
	httpapi.OK(c, gin.H{"message": "request declined"})
}
