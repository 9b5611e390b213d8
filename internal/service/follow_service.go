package service

import (
	"context"
	"errors"

	"openwonder/api/internal/models"
	"openwonder/api/internal/repository"
)

var (
	ErrSelfAction       = errors.New("cannot perform this action on yourself")
	ErrBlocked          = errors.New("interaction blocked between these users")
	ErrFollowNotAllowed = errors.New("target does not accept followers")
)

// FollowStore is the slice of FollowRepository the service needs; a fake
// stands in for it in tests.
type FollowStore interface {
	Get(ctx context.Context, followerID, followingID string) (models.FollowEdge, error)
	CreatePending(ctx context.Context, followerID, followingID string) error
	CreateAccepted(ctx context.Context, followerID, followingID string) error
	Accept(ctx context.Context, followerID, followingID string) error
	Delete(ctx context.Context, followerID, followingID string) error
	ListPendingFor(ctx context.Context, userID string) ([]models.FollowEdge, error)
	ListFollowers(ctx context.Context, userID string) ([]models.FollowEdge, error)
	ListFollowing(ctx context.Context, userID string) ([]models.FollowEdge, error)
}

type BlockChecker interface {
	ExistsEitherDirection(ctx context.Context, a, b string) (bool, error)
}

type Notifier interface {
	Notify(ctx context.Context, recipientID, actorID string, eventType models.NotificationType, contextRef string)
}

// FollowStatus is what the follow endpoint reports back: the legacy API told
// clients whether the tap resulted in a follow or a pending request.
type FollowStatus string

const (
	FollowStatusFollowing FollowStatus = "following"
	FollowStatusRequested FollowStatus = "requested"
)

type FollowService struct {
	follows FollowStore
	blocks  BlockChecker
	notify  Notifier
}

func NewFollowService(follows FollowStore, blocks BlockChecker, notify Notifier) *FollowService {
	return &FollowService{follows: follows, blocks: blocks, notify: notify}
}

// Follow creates an edge from actor to target. The edge starts pending when
// the target confirms followers, accepted otherwise. Edge transitions allowed
// here: none -> pending, none -> accepted. An existing edge is reported
// as-is, never rewritten.
func (s *FollowService) Follow(ctx context.Context, actor models.User, target models.User) (FollowStatus, error) {
	if actor.ID == target.ID {
		return "", ErrSelfAction
	}

	blocked, err := s.blocks.ExistsEitherDirection(ctx, actor.ID, target.ID)
	if err != nil {
		return "", err
	}
	if blocked {
		return "", ErrBlocked
	}

	if target.FollowPrivacy == models.FollowPrivacyNobody {
		return "", ErrFollowNotAllowed
	}

	if edge, err := s.follows.Get(ctx, actor.ID, target.ID); err == nil {
		if edge.Active {
			return FollowStatusFollowing, nil
		}
		return FollowStatusRequested, nil
	} else if !errors.Is(err, repository.ErrFollowNotFound) {
		return "", err
	}

	if target.ConfirmFollowers {
		if err := s.follows.CreatePending(ctx, actor.ID, target.ID); err != nil {
			return "", err
		}
		s.notify.Notify(ctx, target.ID, actor.ID, models.NotificationFollowRequest, actor.ID)
		return FollowStatusRequested, nil
	}

	if err := s.follows.CreateAccepted(ctx, actor.ID, target.ID); err != nil {
		return "", err
	}
	s.notify.Notify(ctx, target.ID, actor.ID, models.NotificationFollowed, actor.ID)
	return FollowStatusFollowing, nil
}

// Unfollow removes the edge whatever its state, covering both unfollow and
// cancelling a pending request.
func (s *FollowService) Unfollow(ctx context.Context, actor models.User, targetID string) error {
	if actor.ID == targetID {
		return ErrSelfAction
	}
	return s.follows.Delete(ctx, actor.ID, targetID)
}

// Accept activates a pending request from followerID to the owner.
func (s *FollowService) Accept(ctx context.Context, owner models.User, followerID string) error {
	if err := s.follows.Accept(ctx, followerID, owner.ID); err != nil {
		return err
	}
	s.notify.Notify(ctx, followerID, owner.ID, models.NotificationFollowAccepted, owner.ID)
	return nil
}

// Decline deletes a pending request without ever activating it.
func (s *FollowService) Decline(ctx context.Context, owner models.User, followerID string) error {
	edge, err := s.follows.Get(ctx, followerID, owner.ID)
	if err != nil {
		return err
	}
	if edge.Active {
		// Accepted edges are not declinable; the follower must be removed
		// by blocking instead.
		return repository.ErrFollowNotFound
	}
	return s.follows.Delete(ctx, followerID, owner.ID)
}

func (s *FollowService) PendingRequests(ctx context.Context, owner models.User) ([]models.FollowEdge, error) {
	return s.follows.ListPendingFor(ctx, owner.ID)
}

func (s *FollowService) Followers(ctx context.Context, userID string) ([]models.FollowEdge, error) {
	return s.follows.ListFollowers(ctx, userID)
}

func (s *FollowService) Following(ctx context.Context, userID string) ([]models.FollowEdge, error) {
	return s.follows.ListFollowing(ctx, userID)
}
