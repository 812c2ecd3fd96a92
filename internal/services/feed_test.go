package services

import (
	"context"
	"errors"
	"testing"

	"github.com/chirper-social/chirper/internal/models"
)

func TestGetTimeline(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	if err := env.users.Follow(ctx, alice.ID.String(), bob.ID.String()); err != nil {
		t.Fatalf("follow: %v", err)
	}

	own := env.createChirp(t, alice, "my own post")
	followed := env.createChirp(t, bob, "from bob")
	env.createChirp(t, carol, "from a stranger")
	env.createReply(t, bob, followed, "bob replying")

	timeline, err := env.feed.GetTimeline(ctx, alice.ID.String(), 50)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if len(timeline) != 2 {
		t.Fatalf("timeline has %d chirps, want 2", len(timeline))
	}
	// Newest first: bob's post was created after alice's.
	if timeline[0].ID != followed.ID || timeline[1].ID != own.ID {
		t.Errorf("timeline order = [%s %s], want [bob's, alice's]", timeline[0].ID, timeline[1].ID)
	}
}

func TestGetExplore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	first := env.createChirp(t, alice, "first")
	second := env.createChirp(t, bob, "second")
	env.createReply(t, alice, first, "a reply")

	explore, err := env.feed.GetExplore(ctx, "", 50)
	if err != nil {
		t.Fatalf("explore: %v", err)
	}
	if len(explore) != 2 {
		t.Fatalf("explore has %d chirps, want 2 top-level", len(explore))
	}
	if explore[0].ID != second.ID {
		t.Errorf("explore[0] = %s, want newest chirp %s", explore[0].ID, second.ID)
	}
}

func TestGetReplies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	parent := env.createChirp(t, alice, "parent")
	env.createReply(t, bob, parent, "first reply")
	env.createReply(t, alice, parent, "second reply")

	replies, err := env.feed.GetReplies(ctx, "", parent.ID.String())
	if err != nil {
		t.Fatalf("replies: %v", err)
	}
	if len(replies) != 2 {
		t.Fatalf("got %d replies, want 2", len(replies))
	}

	if _, err := env.feed.GetReplies(ctx, "", "7f000001-0000-4000-8000-000000000000"); !errors.Is(err, models.ErrChirpNotFound) {
		t.Errorf("replies of missing chirp: got %v, want ErrChirpNotFound", err)
	}
}

func TestSearchChirps(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")

	env.createChirp(t, alice, "learning golang today")
	env.createChirp(t, alice, "nothing to see")

	results, err := env.feed.Search(ctx, "", "GOLANG", 50)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}

	if _, err := env.feed.Search(ctx, "", "   ", 50); !errors.Is(err, models.ErrEmptySearchQuery) {
		t.Errorf("blank query: got %v, want ErrEmptySearchQuery", err)
	}
}

func TestGetUserChirps(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	env.createChirp(t, alice, "one")
	env.createChirp(t, alice, "two")
	env.createChirp(t, bob, "other")

	chirps, err := env.feed.GetUserChirps(ctx, "", "alice", 50)
	if err != nil {
		t.Fatalf("user chirps: %v", err)
	}
	if len(chirps) != 2 {
		t.Errorf("got %d chirps, want 2", len(chirps))
	}

	if _, err := env.feed.GetUserChirps(ctx, "", "nobody", 50); !errors.Is(err, models.ErrUserNotFound) {
		t.Errorf("chirps of missing user: got %v, want ErrUserNotFound", err)
	}
}

func TestAnonymousDecoration(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	chirp := env.createChirp(t, alice, "public")

	if err := env.engagement.Like(ctx, bob.ID.String(), chirp.ID.String()); err != nil {
		t.Fatalf("like: %v", err)
	}

	view, err := env.feed.GetChirp(ctx, "", chirp.ID.String())
	if err != nil {
		t.Fatalf("get chirp: %v", err)
	}
	if view.LikeCount != 1 {
		t.Errorf("like count = %d, want 1", view.LikeCount)
	}
	if view.IsLiked || view.IsRechirped {
		t.Error("anonymous viewer has engagement flags set")
	}
}

func TestReplyCountsInViews(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	parent := env.createChirp(t, alice, "thread start")
	env.createReply(t, bob, parent, "one")
	env.createReply(t, bob, parent, "two")

	view, err := env.feed.GetChirp(ctx, "", parent.ID.String())
	if err != nil {
		t.Fatalf("get chirp: %v", err)
	}
	if view.ReplyCount != 2 {
		t.Errorf("reply count = %d, want 2", view.ReplyCount)
	}
}

// TestFollowLikeScenario walks the full loop: a follow puts the
// followee's chirp on the timeline, a like flips the viewer flag and
// lands an unread notification with the author.
func TestFollowLikeScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	if err := env.users.Follow(ctx, alice.ID.String(), bob.ID.String()); err != nil {
		t.Fatalf("follow: %v", err)
	}
	chirp := env.createChirp(t, bob, "hello timeline")

	timeline, err := env.feed.GetTimeline(ctx, alice.ID.String(), 50)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if len(timeline) != 1 || timeline[0].ID != chirp.ID {
		t.Fatalf("timeline = %v, want bob's chirp", timeline)
	}
	if timeline[0].IsLiked {
		t.Error("chirp liked before the like")
	}

	if err := env.engagement.Like(ctx, alice.ID.String(), chirp.ID.String()); err != nil {
		t.Fatalf("like: %v", err)
	}

	timeline, err = env.feed.GetTimeline(ctx, alice.ID.String(), 50)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if !timeline[0].IsLiked || timeline[0].LikeCount != 1 {
		t.Errorf("after like: liked=%v count=%d, want true/1", timeline[0].IsLiked, timeline[0].LikeCount)
	}

	unread, err := env.notifs.UnreadCount(ctx, bob.ID.String())
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	// The follow and the like each leave one unread notification.
	if unread != 2 {
		t.Errorf("bob's unread count = %d, want 2", unread)
	}
}
