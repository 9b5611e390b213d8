package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"openwonder/api/internal/httpapi"
	"openwonder/api/internal/middleware"
	"openwonder/api/internal/repository"
	"openwonder/api/internal/service"
)

func (h HandlerSet) Block(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)
	target, ok := h.loadTargetUser(c)
	if !ok {
		return
	}

	if err := h.blockService.Block(c.Request.Context(), actor, target.ID); err != nil {
		if errors.Is(err, service.ErrSelfAction) {
			httpapi.Fail(c, http.StatusBadRequest, httpapi.ErrorInvalidParams, "cannot block yourself")
			return
		}
		httpapi.Fail(c, http.StatusInternalServerError, httpapi.ErrorServer, "block failed")
		return
	}
	httpapi.OK(c, gin.H{"message": "user blocked"})
}

func (h HandlerSet) Unblock(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)

	if err := h.blockService.Unblock(c.Request.Context(), actor, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrSelfAction):
			httpapi.Fail(c, http.StatusBadRequest, httpapi.ErrorInvalidParams, "cannot unblock yourself")
		case errors.Is(err, repository.ErrBlockNotFound):
			httpapi.Fail(c, http.StatusNotFound, httpapi.ErrorNotFound, "user is not blocked")
		default:
			httpapi.Fail(c, http.StatusInternalServerError, httpapi.ErrorServer, "unblock failed")
		}
		return
	}
	httpapi.OK(c, gin.H{"message": "user unblocked"})
}

type blockResponse struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (h HandlerSet) ListBlocks(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)

	blocks, err := h.blockService.List(c.Request.Context(), actor)
	if err != nil {
		httpapi.Fail(c, http.StatusInternalServerError, httpapi.ErrorServer, "listing blocks failed")
		return
	}

	resp := make([]blockResponse, 0, len(blocks))
	for _, block := range blocks {
		resp = append(resp, blockResponse{UserID: block.BlockedID, CreatedAt: block.CreatedAt})
	}
	httpapi.OK(c, gin.H{"blocks": resp})
}
