package models

import "time"

// FollowEdge is a directed relationship. Active=false is a pending request,
// active=true an accepted follow. Two users are friends iff both directions
// exist and are active; friendship is never stored separately.
type FollowEdge struct {
	FollowerID  string
	FollowingID string
	Active      bool
	CreatedAt   time.Time
}

type BlockEdge struct {
	BlockerID string
	BlockedID string
	CreatedAt time.Time
}

type NotificationType string

const (
	NotificationFollowed       NotificationType = "followed"
	NotificationFollowRequest  NotificationType = "follow_request"
	NotificationFollowAccepted NotificationType = "follow_accepted"
	NotificationComment        NotificationType = "comment"
	NotificationReaction       NotificationType = "reaction"
)

type Notification struct {
	ID          string
	RecipientID string
	ActorID     string
	Type        NotificationType
	ContextRef  string
	Seen        bool
	CreatedAt   time.Time
}
