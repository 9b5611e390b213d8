package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"openwonder/api/internal/ids"
	"openwonder/api/internal/models"
	"openwonder/api/internal/policy"
)

var (
	ErrAccessDenied = errors.New("access denied")
	ErrNotOwner     = errors.New("only the owner may do this")
)

type PostStore interface {
	Create(ctx context.Context, post models.Post) error
	GetByID(ctx context.Context, id string) (models.Post, error)
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]models.Post, error)
	Delete(ctx context.Context, id string) error
	CreateComment(ctx context.Context, comment models.Comment) error
	GetComment(ctx context.Context, id string) (models.Comment, error)
	ListComments(ctx context.Context, postID string, limit int) ([]models.Comment, error)
	DeleteComment(ctx context.Context, id string) error
	ToggleReaction(ctx context.Context, postID, userID string) (bool, error)
}

const defaultPageSize = 35

type PostService struct {
	posts   PostStore
	oracle  policy.RelationshipOracle
	variant policy.Variant
	notify  Notifier
	log     zerolog.Logger
}

func NewPostService(
	posts PostStore,
	oracle policy.RelationshipOracle,
	variant policy.Variant,
	notify Notifier,
	log zerolog.Logger,
) *PostService {
	return &PostService{
		posts:   posts,
		oracle:  oracle,
		variant: variant,
		notify:  notify,
		log:     log,
	}
}

// resolver builds a per-request visibility resolver. Oracle answers are
// memoized for the duration of the call chain; relationships cannot change
// mid-request.
func (s *PostService) resolver() *policy.Resolver {
	return policy.NewResolver(policy.Memoize(s.oracle), s.variant)
}

type CreatePostInput struct {
	Body    string
	Privacy string
	GroupID string
}

func (s *PostService) Create(ctx context.Context, owner models.User, input CreatePostInput) (models.Post, error) {
	if input.Body == "" {
		return models.Post{}, fmt.Errorf("post body required")
	}
	mode, err := models.ParsePrivacyMode(input.Privacy)
	if err != nil {
		return models.Post{}, err
	}
	if mode == models.PrivacyGroup && input.GroupID == "" {
		return models.Post{}, fmt.Errorf("group privacy requires a group id")
	}

	post := models.Post{
		ID:      ids.New(),
		OwnerID: owner.ID,
		Body:    input.Body,
		Privacy: mode,
	}
	if input.GroupID != "" {
		post.GroupID = &input.GroupID
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return models.Post{}, err
	}
	return post, nil
}

func groupID(post models.Post) string {
	if post.GroupID == nil {
		return ""
	}
	return *post.GroupID
}

// Get loads a post and applies the visibility gate. A post the actor may not
// see comes back as ErrAccessDenied, never as not-found.
func (s *PostService) Get(ctx context.Context, actor models.User, postID string) (models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return models.Post{}, err
	}

	allowed, err := s.resolver().CanView(ctx, actor.ID, post.OwnerID, post.Privacy, groupID(post))
	if err != nil {
		return models.Post{}, err
	}
	if !allowed {
		return models.Post{}, ErrAccessDenied
	}
	return post, nil
}

// ListUserPosts returns the target's posts the actor may see, filtering
// per item. One memoized oracle serves the whole page.
func (s *PostService) ListUserPosts(ctx context.Context, actor models.User, ownerID string) ([]models.Post, error) {
	posts, err := s.posts.ListByOwner(ctx, ownerID, defaultPageSize)
	if err != nil {
		return nil, err
	}

	resolver := s.resolver()
	visible := make([]models.Post, 0, len(posts))
	for _, post := range posts {
		allowed, err := resolver.CanView(ctx, actor.ID, post.OwnerID, post.Privacy, groupID(post))
		if err != nil {
			return nil, err
		}
		if allowed {
			visible = append(visible, post)
		}
	}
	return visible, nil
}

func (s *PostService) Delete(ctx context.Context, actor models.User, postID string) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.OwnerID != actor.ID {
		return ErrNotOwner
	}
	return s.posts.Delete(ctx, postID)
}

func (s *PostService) AddComment(ctx context.Context, actor models.User, postID, body string) (models.Comment, error) {
	if body == "" {
		return models.Comment{}, fmt.Errorf("comment body required")
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return models.Comment{}, err
	}

	allowed, err := s.resolver().CanInteract(ctx, actor.ID, post.OwnerID, post.Privacy, groupID(post))
	if err != nil {
		return models.Comment{}, err
	}
	if !allowed {
		return models.Comment{}, ErrAccessDenied
	}

	comment := models.Comment{
		ID:      ids.New(),
		PostID:  postID,
		OwnerID: actor.ID,
		Body:    body,
	}
	if err := s.posts.CreateComment(ctx, comment); err != nil {
		return models.Comment{}, err
	}

	s.notify.Notify(ctx, post.OwnerID, actor.ID, models.NotificationComment, postID)
	return comment, nil
}

func (s *PostService) ListComments(ctx context.Context, actor models.User, postID string) ([]models.Comment, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.resolver().CanView(ctx, actor.ID, post.OwnerID, post.Privacy, groupID(post))
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrAccessDenied
	}

	return s.posts.ListComments(ctx, postID, defaultPageSize)
}

// DeleteComment is allowed to the comment's author and to the owner of the
// parent post.
func (s *PostService) DeleteComment(ctx context.Context, actor models.User, commentID string) error {
	comment, err := s.posts.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.OwnerID != actor.ID {
		post, err := s.posts.GetByID(ctx, comment.PostID)
		if err != nil {
			return err
		}
		if post.OwnerID != actor.ID {
			return ErrNotOwner
		}
	}
	return s.posts.DeleteComment(ctx, commentID)
}

// ToggleReaction flips the actor's like. Returns true when the post is now
// liked. Only a fresh like notifies the owner.
func (s *PostService) ToggleReaction(ctx context.Context, actor models.User, postID string) (bool, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return false, err
	}

	allowed, err := s.resolver().CanInteract(ctx, actor.ID, post.OwnerID, post.Privacy, groupID(post))
	if err != nil {
		return false, err
	}
	if !allowed {
		return false, ErrAccessDenied
	}

	liked, err := s.posts.ToggleReaction(ctx, postID, actor.ID)
	if err != nil {
		return false, err
	}
	if liked {
		s.notify.Notify(ctx, post.OwnerID, actor.ID, models.NotificationReaction, postID)
	}
	return liked, nil
}
