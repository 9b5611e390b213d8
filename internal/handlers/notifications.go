package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"openwonder/api/internal/httpapi"
	"openwonder/api/internal/middleware"
	"openwonder/api/internal/models"
	"openwonder/api/internal/notify"
)

type notificationResponse struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"notifier_id"`
	Type       string    `json:"type"`
	ContextRef string    `json:"url"`
	Seen       bool      `json:"seen"`
	CreatedAt  time.Time `json:"created_at"`
}

func (h HandlerSet) ListNotifications(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)

	notifications, err := h.notifications.ListByRecipient(c.Request.Context(), actor.ID, 50)
	if err != nil {
		httpapi.Fail(c, http.StatusInternalServerError, httpapi.ErrorServer, "listing notifications failed")
		return
	}

	// Reading the list clears the unread badge; badge loss is acceptable,
	// notifications themselves stay until marked seen.
	if h.cache != nil {
		if err := h.cache.Del(c.Request.Context(), notify.UnreadKey(actor.ID)).Err(); err != nil {
			h.log.Warn().Err(err).Str("user_id", actor.ID).Msg("unread badge reset failed")
		}
	}

	resp := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		resp = append(resp, toNotificationResponse(n))
	}
	httpapi.OK(c, gin.H{"notifications": resp})
}

func toNotificationResponse(n models.Notification) notificationResponse {
	return notificationResponse{
		ID:         n.ID,
		ActorID:    n.ActorID,
		Type:       string(n.Type),
		ContextRef: n.ContextRef,
		Seen:       n.Seen,
		CreatedAt:  n.CreatedAt,
	}
}

func (h HandlerSet) MarkNotificationsSeen(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)

	if err := h.notifications.MarkAllSeen(c.Request.Context(), actor.ID); err != nil {
		httpapi.Fail(c, http.StatusInternalServerError, httpapi.ErrorServer, "marking notifications failed")
		return
	}
	httpapi.OK(c, gin.H{"message": "notifications marked seen"})
}
