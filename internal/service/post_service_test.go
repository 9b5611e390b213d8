package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"openwonder/api/internal/models"
	"openwonder/api/internal/policy"
	"openwonder/api/internal/repository"
)

type fakePostStore struct {
	posts    map[string]models.Post
	comments map[string]models.Comment
	likes    map[string]bool // "post:user"
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{
		posts:    map[string]models.Post{},
		comments: map[string]models.Comment{},
		likes:    map[string]bool{},
	}
}

func (f *fakePostStore) Create(_ context.Context, post models.Post) error {
	f.posts[post.ID] = post
	return nil
}

func (f *fakePostStore) GetByID(_ context.Context, id string) (models.Post, error) {
	if p, ok := f.posts[id]; ok {
		return p, nil
	}
	return models.Post{}, repository.ErrPostNotFound
}

func (f *fakePostStore) ListByOwner(_ context.Context, ownerID string, _ int) ([]models.Post, error) {
	var out []models.Post
	for _, p := range f.posts {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePostStore) Delete(_ context.Context, id string) error {
	if _, ok := f.posts[id]; !ok {
		return repository.ErrPostNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePostStore) CreateComment(_ context.Context, comment models.Comment) error {
	f.comments[comment.ID] = comment
	return nil
}

func (f *fakePostStore) GetComment(_ context.Context, id string) (models.Comment, error) {
	if c, ok := f.comments[id]; ok {
		return c, nil
	}
	return models.Comment{}, repository.ErrCommentNotFound
}

func (f *fakePostStore) ListComments(_ context.Context, postID string, _ int) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range f.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakePostStore) DeleteComment(_ context.Context, id string) error {
	if _, ok := f.comments[id]; !ok {
		return repository.ErrCommentNotFound
	}
	delete(f.comments, id)
	return nil
}

func (f *fakePostStore) ToggleReaction(_ context.Context, postID, userID string) (bool, error) {
	k := postID + ":" + userID
	if f.likes[k] {
		delete(f.likes, k)
		return false, nil
	}
	f.likes[k] = true
	return true, nil
}

// oracleStub answers relationship queries from flat sets, like the policy
// package's own test fake.
type oracleStub struct {
	follows map[string]bool
	groups  map[string]bool
}

func (o *oracleStub) IsFollowing(_ context.Context, a, b string) (bool, error) {
	return o.follows[a+">"+b], nil
}

func (o *oracleStub) AreMutualFollowers(ctx context.Context, a, b string) (bool, error) {
	ab, _ := o.IsFollowing(ctx, a, b)
	if !ab {
		return false, nil
	}
	return o.IsFollowing(ctx, b, a)
}

func (o *oracleStub) IsBlockedEitherDirection(_ context.Context, _, _ string) (bool, error) {
	return false, nil
}

func (o *oracleStub) IsGroupMember(_ context.Context, groupID, userID string) (bool, error) {
	return o.groups[groupID+":"+userID], nil
}

func (o *oracleStub) IsOnCustomList(_ context.Context, _, _ string) (bool, error) {
	return false, nil
}

func newPostFixture() (*PostService, *fakePostStore, *fakeNotifier) {
	store := newFakePostStore()
	oracle := &oracleStub{
		follows: map[string]bool{"alice>bob": true, "bob>alice": true},
		groups:  map[string]bool{"42:carol": true},
	}
	notifier := &fakeNotifier{}
	svc := NewPostService(store, oracle, policy.VariantLegacy, notifier, zerolog.Nop())
	return svc, store, notifier
}

var carol = models.User{ID: "carol", Status: models.UserStatusActive}

func TestPostVisibilityGate(t *testing.T) {
	svc, _, _ := newPostFixture()
	ctx := context.Background()

	friendsPost, err := svc.Create(ctx, bob, CreatePostInput{Body: "friends only", Privacy: "friends"})
	if err != nil {
		t.Fatal(err)
	}
	sealedPost, err := svc.Create(ctx, bob, CreatePostInput{Body: "mine", Privacy: "only_me"})
	if err != nil {
		t.Fatal(err)
	}
	groupPost, err := svc.Create(ctx, bob, CreatePostInput{Body: "club", Privacy: "group", GroupID: "42"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Get(ctx, alice, friendsPost.ID); err != nil {
		t.Errorf("mutual follower denied friends post: %v", err)
	}
	if _, err := svc.Get(ctx, carol, friendsPost.ID); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("stranger read friends post: %v", err)
	}

	if _, err := svc.Get(ctx, bob, sealedPost.ID); err != nil {
		t.Errorf("owner denied own only_me post: %v", err)
	}
	if _, err := svc.Get(ctx, alice, sealedPost.ID); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("friend read only_me post: %v", err)
	}

	if _, err := svc.Get(ctx, carol, groupPost.ID); err != nil {
		t.Errorf("group participant denied group post: %v", err)
	}
	if _, err := svc.Get(ctx, alice, groupPost.ID); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("outsider read group post: %v", err)
	}
}

func TestListUserPostsFilters(t *testing.T) {
	svc, _, _ := newPostFixture()
	ctx := context.Background()

	if _, err := svc.Create(ctx, bob, CreatePostInput{Body: "p", Privacy: "public"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, bob, CreatePostInput{Body: "f", Privacy: "friends"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, bob, CreatePostInput{Body: "o", Privacy: "only_me"}); err != nil {
		t.Fatal(err)
	}

	for _, tt := range []struct {
		actor models.User
		want  int
	}{
		{bob, 3},   // owner sees all
		{alice, 2}, // friend: public + friends
		{carol, 1}, // stranger: public only
	} {
		posts, err := svc.ListUserPosts(ctx, tt.actor, "bob")
		if err != nil {
			t.Fatalf("ListUserPosts(%s): %v", tt.actor.ID, err)
		}
		if len(posts) != tt.want {
			t.Errorf("actor %s sees %d posts, want %d", tt.actor.ID, len(posts), tt.want)
		}
	}
}

func TestLegacyNumericPrivacyCodes(t *testing.T) {
	svc, _, _ := newPostFixture()

	post, err := svc.Create(context.Background(), bob, CreatePostInput{Body: "x", Privacy: "2"})
	if err != nil {
		t.Fatal(err)
	}
	if post.Privacy != models.PrivacyOnlyMe {
		t.Errorf("privacy = %s, want only_me", post.Privacy)
	}

	if _, err := svc.Create(context.Background(), bob, CreatePostInput{Body: "x", Privacy: "9"}); err == nil {
		t.Error("unknown privacy code accepted")
	}
}

func TestCommentingRespectsInteractGate(t *testing.T) {
	svc, _, notifier := newPostFixture()
	ctx := context.Background()

	post, err := svc.Create(ctx, bob, CreatePostInput{Body: "friends", Privacy: "friends"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.AddComment(ctx, alice, post.ID, "nice"); err != nil {
		t.Fatalf("friend comment: %v", err)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].eventType != models.NotificationComment {
		t.Errorf("notifications = %+v, want one comment event to owner", notifier.sent)
	}
	if notifier.sent[0].recipient != "bob" {
		t.Errorf("comment notified %s, want bob", notifier.sent[0].recipient)
	}

	if _, err := svc.AddComment(ctx, carol, post.ID, "hi"); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("stranger comment err = %v, want ErrAccessDenied", err)
	}

	// Owner's own comment must not self-notify (fanout drops those), but
	// service-level we just check it succeeds.
	if _, err := svc.AddComment(ctx, bob, post.ID, "thanks"); err != nil {
		t.Errorf("owner comment: %v", err)
	}
}

func TestDeleteCommentPermissions(t *testing.T) {
	svc, _, _ := newPostFixture()
	ctx := context.Background()

	post, err := svc.Create(ctx, bob, CreatePostInput{Body: "hello", Privacy: "public"})
	if err != nil {
		t.Fatal(err)
	}
	comment, err := svc.AddComment(ctx, alice, post.ID, "first")
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteComment(ctx, carol, comment.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("third party delete err = %v, want ErrNotOwner", err)
	}
	// Post owner may remove comments on their post.
	if err := svc.DeleteComment(ctx, bob, comment.ID); err != nil {
		t.Errorf("post owner delete: %v", err)
	}

	comment, err = svc.AddComment(ctx, alice, post.ID, "second")
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteComment(ctx, alice, comment.ID); err != nil {
		t.Errorf("author delete: %v", err)
	}
}

func TestReactionToggle(t *testing.T) {
	svc, _, notifier := newPostFixture()
	ctx := context.Background()

	post, err := svc.Create(ctx, bob, CreatePostInput{Body: "hi", Privacy: "public"})
	if err != nil {
		t.Fatal(err)
	}

	liked, err := svc.ToggleReaction(ctx, alice, post.ID)
	if err != nil || !liked {
		t.Fatalf("first toggle = %v, %v; want liked", liked, err)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].eventType != models.NotificationReaction {
		t.Errorf("notifications = %+v, want one reaction event", notifier.sent)
	}

	liked, err = svc.ToggleReaction(ctx, alice, post.ID)
	if err != nil || liked {
		t.Fatalf("second toggle = %v, %v; want unliked", liked, err)
	}
	if len(notifier.sent) != 1 {
		t.Error("unlike sent a notification")
	}
}

func TestDeletePostOwnerOnly(t *testing.T) {
	svc, store, _ := newPostFixture()
	ctx := context.Background()

	post, err := svc.Create(ctx, bob, CreatePostInput{Body: "hi", Privacy: "public"})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(ctx, alice, post.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("non-owner delete err = %v, want ErrNotOwner", err)
	}
	if err := svc.Delete(ctx, bob, post.ID); err != nil {
		t.Errorf("owner delete: %v", err)
	}
	if _, ok := store.posts[post.ID]; ok {
		t.Error("post survived delete")
	}
}
