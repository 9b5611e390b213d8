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

type postResponse struct {
	ID             string    `json:"post_id"`
	OwnerID        string    `json:"publisher_id"`
	Body           string    `json:"post_text"`
	Privacy        string    `json:"post_privacy"`
	GroupID        string    `json:"group_id,omitempty"`
	CommentsCount  int       `json:"post_comments"`
	ReactionsCount int       `json:"post_likes"`
	CreatedAt      time.Time `json:"created_at"`
}

func toPostResponse(post models.Post) postResponse {
	resp := postResponse{
		ID:             post.ID,
		OwnerID:        post.OwnerID,
		Body:           post.Body,
		Privacy:        string(post.Privacy),
		CommentsCount:  post.CommentsCount,
		ReactionsCount: post.ReactionsCount,
		CreatedAt:      post.CreatedAt,
	}
	if post.GroupID != nil {
		resp.GroupID = *post.GroupID
	}
	return resp
}

// postServiceError maps a post/comment service failure onto the legacy
// envelope. Denied access is always 403; 404 means the row truly is not
// there.
func postServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAccessDenied):
		httpapi.Denied(c)
	case errors.Is(err, service.ErrNotOwner):
		httpapi.Denied(c)
	case errors.Is(err, repository.ErrPostNotFound):
		httpapi.Fail(c, http.StatusNotFound, httpapi.ErrorNotFound, "post not found")
	case errors.Is(err, repository.ErrCommentNotFound):
		httpapi.Fail(c, http.StatusNotFound, httpapi.ErrorNotFound, "comment not found")
	default:
		httpapi.Fail(c, http.StatusInternalServerError, httpapi.ErrorServer, "operation failed")
	}
}

type createPostRequest struct {
	Body    string `json:"post_text" binding:"required"`
	Privacy string `json:"post_privacy" binding:"required"`
	GroupID string `json:"group_id"`
}

func (h HandlerSet) CreatePost(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, httpapi.ErrorInvalidParams, err.Error())
		return
	}

	post, err := h.postService.Create(c.Request.Context(), actor, service.CreatePostInput{
		Body:    req.Body,
		Privacy: req.Privacy,
		GroupID: req.GroupID,
	})
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, httpapi.ErrorInvalidParams, err.Error())
		return
	}

	httpapi.OK(c, gin.H{"post": toPostResponse(post)})
}

func (h HandlerSet) GetPost(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)

	post, err := h.postService.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		postServiceError(c, err)
		return
	}
	httpapi.OK(c, gin.H{"post": toPostResponse(post)})
}

func (h HandlerSet) ListUserPosts(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)
	if _, ok := h.loadTargetUser(c); !ok {
		return
	}

	posts, err := h.postService.ListUserPosts(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		httpapi.Fail(c, http.StatusInternalServerError, httpapi.ErrorServer, "listing posts failed")
		return
	}

	resp := make([]postResponse, 0, len(posts))
	for _, post := range posts {
		resp = append(resp, toPostResponse(post))
	}
	httpapi.OK(c, gin.H{"posts": resp})
}

func (h HandlerSet) DeletePost(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)

	if err := h.postService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		postServiceError(c, err)
		return
	}
	httpapi.OK(c, gin.H{"message": "post deleted"})
}

type commentResponse struct {
	ID        string    `json:"comment_id"`
	PostID    string    `json:"post_id"`
	OwnerID   string    `json:"publisher_id"`
	Body      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func toCommentResponse(comment models.Comment) commentResponse {
	return commentResponse{
		ID:        comment.ID,
		PostID:    comment.PostID,
		OwnerID:   comment.OwnerID,
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
	}
}

type addCommentRequest struct {
	Body string `json:"text" binding:"required"`
}

func (h HandlerSet) AddComment(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)

	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, httpapi.ErrorInvalidParams, err.Error())
		return
	}

	comment, err := h.postService.AddComment(c.Request.Context(), actor, c.Param("id"), req.Body)
	if err != nil {
		postServiceError(c, err)
		return
	}
	httpapi.OK(c, gin.H{"comment": toCommentResponse(comment)})
}

func (h HandlerSet) ListComments(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)

	comments, err := h.postService.ListComments(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		postServiceError(c, err)
		return
	}

	resp := make([]commentResponse, 0, len(comments))
	for _, comment := range comments {
		resp = append(resp, toCommentResponse(comment))
	}
	httpapi.OK(c, gin.H{"comments": resp})
}

func (h HandlerSet) DeleteComment(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)

	if err := h.postService.DeleteComment(c.Request.Context(), actor, c.Param("id")); err != nil {
		postServiceError(c, err)
		return
	}
	httpapi.OK(c, gin.H{"message": "comment deleted"})
}

func (h HandlerSet) ToggleReaction(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)

	liked, err := h.postService.ToggleReaction(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		postServiceError(c, err)
		return
	}
	httpapi.OK(c, gin.H{"liked": liked})
}
