package notify

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"openwonder/api/internal/events"
	"openwonder/api/internal/ids"
	"openwonder/api/internal/models"
	"openwonder/api/internal/repository"
)

// UnreadKey is the redis key holding a user's unread notification badge.
func UnreadKey(userID string) string {
	return "notify:unread:" + userID
}

// Fanout records a notification for a recipient after an action completes.
// Every step is fire-and-forget: a failed insert, counter bump or event
// publish is logged and swallowed, and must never fail or roll back the
// operation that triggered it. Nothing here is retried; notifications are
// not guaranteed delivery on this platform.
type Fanout struct {
	notifications *repository.NotificationRepository
	cache         *redis.Client
	publisher     *events.Publisher
	log           zerolog.Logger
}

func NewFanout(
	notifications *repository.NotificationRepository,
	cache *redis.Client,
	publisher *events.Publisher,
	log zerolog.Logger,
) *Fanout {
	return &Fanout{
		notifications: notifications,
		cache:         cache,
		publisher:     publisher,
		log:           log,
	}
}

func (f *Fanout) Notify(ctx context.Context, recipientID, actorID string, eventType models.NotificationType, contextRef string) {
	// Self-actions never notify.
	if recipientID == actorID || recipientID == "" {
		return
	}

	n := models.Notification{
		ID:          ids.New(),
		RecipientID: recipientID,
		ActorID:     actorID,
		Type:        eventType,
		ContextRef:  contextRef,
	}

	if err := f.notifications.Create(ctx, n); err != nil {
		f.log.Warn().Err(err).
			Str("recipient_id", recipientID).
			Str("event_type", string(eventType)).
			Msg("notification insert failed")
		return
	}

	if f.cache != nil {
		if err := f.cache.Incr(ctx, UnreadKey(recipientID)).Err(); err != nil {
			f.log.Warn().Err(err).Str("recipient_id", recipientID).Msg("unread counter bump failed")
		}
	}

	if f.publisher != nil {
		err := f.publisher.Publish(events.Event{
			Subject:     "notify." + string(eventType),
			RecipientID: recipientID,
			ActorID:     actorID,
			Type:        string(eventType),
			ContextRef:  contextRef,
			OccurredAt:  time.Now(),
		})
		if err != nil {
			f.log.Warn().Err(err).Str("event_type", string(eventType)).Msg("event publish failed")
		}
	}
}
