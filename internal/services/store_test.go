package services

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/chirper-social/chirper/internal/config"
	"github.com/chirper-social/chirper/internal/models"
	"github.com/chirper-social/chirper/pkg/logger"
)

// memStore is an in-memory implementation of every repository interface.
// Creation timestamps advance one second per record so "newest first"
// assertions are deterministic.
type memStore struct {
	users         map[uuid.UUID]*models.User
	follows       []*models.Follow
	chirps        map[uuid.UUID]*models.Chirp
	likes         []*models.Like
	rechirps      []*models.Rechirp
	notifications map[uuid.UUID]*models.Notification
	trendCounts   map[string]int64
	now           time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:         make(map[uuid.UUID]*models.User),
		chirps:        make(map[uuid.UUID]*models.Chirp),
		notifications: make(map[uuid.UUID]*models.Notification),
		trendCounts:   make(map[string]int64),
		now:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) tick() time.Time {
	m.now = m.now.Add(time.Second)
	return m.now
}

// UserRepository

func (m *memStore) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.New()
	user.CreatedAt = m.tick()
	m.users[user.ID] = user
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return m.users[id], nil
}

func (m *memStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memStore) Update(ctx context.Context, user *models.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *memStore) Suggestions(ctx context.Context, userID uuid.UUID, limit int) ([]*models.User, error) {
	following := map[uuid.UUID]bool{}
	for _, f := range m.follows {
		if f.FollowerID == userID {
			following[f.FollowingID] = true
		}
	}

	var users []*models.User
	for _, u := range m.users {
		if u.ID == userID || following[u.ID] {
			continue
		}
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (m *memStore) Search(ctx context.Context, query string, limit int) ([]*models.User, error) {
	var users []*models.User
	q := strings.ToLower(query)
	for _, u := range m.users {
		if strings.Contains(strings.ToLower(u.Username), q) || strings.Contains(strings.ToLower(u.DisplayName), q) {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

// FollowRepository

type followStore struct{ *memStore }

func (m *followStore) Create(ctx context.Context, follow *models.Follow) error {
	follow.ID = uuid.New()
	follow.CreatedAt = m.tick()
	m.follows = append(m.follows, follow)
	return nil
}

func (m *followStore) Delete(ctx context.Context, followerID, followingID uuid.UUID) error {
	kept := m.follows[:0]
	for _, f := range m.follows {
		if !(f.FollowerID == followerID && f.FollowingID == followingID) {
			kept = append(kept, f)
		}
	}
	m.follows = kept
	return nil
}

func (m *followStore) IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	for _, f := range m.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			return true, nil
		}
	}
	return false, nil
}

func (m *followStore) GetFollowingIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, f := range m.follows {
		if f.FollowerID == userID {
			ids = append(ids, f.FollowingID)
		}
	}
	return ids, nil
}

func (m *followStore) GetFollowers(ctx context.Context, userID uuid.UUID, limit int) ([]*models.User, error) {
	var users []*models.User
	for _, f := range m.follows {
		if f.FollowingID == userID {
			if u := m.users[f.FollowerID]; u != nil {
				users = append(users, u)
			}
		}
	}
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (m *followStore) GetFollowing(ctx context.Context, userID uuid.UUID, limit int) ([]*models.User, error) {
	var users []*models.User
	for _, f := range m.follows {
		if f.FollowerID == userID {
			if u := m.users[f.FollowingID]; u != nil {
				users = append(users, u)
			}
		}
	}
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (m *followStore) CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, f := range m.follows {
		if f.FollowingID == userID {
			count++
		}
	}
	return count, nil
}

func (m *followStore) CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, f := range m.follows {
		if f.FollowerID == userID {
			count++
		}
	}
	return count, nil
}

// ChirpRepository

type chirpStore struct{ *memStore }

func (m *chirpStore) Create(ctx context.Context, chirp *models.Chirp) error {
	chirp.ID = uuid.New()
	chirp.CreatedAt = m.tick()
	m.chirps[chirp.ID] = chirp
	return nil
}

func (m *chirpStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Chirp, error) {
	return m.chirps[id], nil
}

func sortChirpsDesc(chirps []*models.Chirp) {
	sort.Slice(chirps, func(i, j int) bool {
		if !chirps[i].CreatedAt.Equal(chirps[j].CreatedAt) {
			return chirps[i].CreatedAt.After(chirps[j].CreatedAt)
		}
		return chirps[i].ID.String() > chirps[j].ID.String()
	})
}

func (m *chirpStore) GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Chirp, error) {
	var chirps []*models.Chirp
	for _, c := range m.chirps {
		if c.UserID == userID {
			chirps = append(chirps, c)
		}
	}
	sortChirpsDesc(chirps)
	if len(chirps) > limit {
		chirps = chirps[:limit]
	}
	return chirps, nil
}

func (m *chirpStore) GetTimeline(ctx context.Context, authorIDs []uuid.UUID, limit int) ([]*models.Chirp, error) {
	authors := map[uuid.UUID]bool{}
	for _, id := range authorIDs {
		authors[id] = true
	}

	var chirps []*models.Chirp
	for _, c := range m.chirps {
		if authors[c.UserID] && c.ReplyToID == nil {
			chirps = append(chirps, c)
		}
	}
	sortChirpsDesc(chirps)
	if len(chirps) > limit {
		chirps = chirps[:limit]
	}
	return chirps, nil
}

func (m *chirpStore) GetExplore(ctx context.Context, limit int) ([]*models.Chirp, error) {
	var chirps []*models.Chirp
	for _, c := range m.chirps {
		if c.ReplyToID == nil {
			chirps = append(chirps, c)
		}
	}
	sortChirpsDesc(chirps)
	if len(chirps) > limit {
		chirps = chirps[:limit]
	}
	return chirps, nil
}

func (m *chirpStore) GetReplies(ctx context.Context, chirpID uuid.UUID) ([]*models.Chirp, error) {
	var chirps []*models.Chirp
	for _, c := range m.chirps {
		if c.ReplyToID != nil && *c.ReplyToID == chirpID {
			chirps = append(chirps, c)
		}
	}
	sortChirpsDesc(chirps)
	return chirps, nil
}

func (m *chirpStore) Search(ctx context.Context, query string, limit int) ([]*models.Chirp, error) {
	var chirps []*models.Chirp
	q := strings.ToLower(query)
	for _, c := range m.chirps {
		if strings.Contains(strings.ToLower(c.Content), q) {
			chirps = append(chirps, c)
		}
	}
	sortChirpsDesc(chirps)
	if len(chirps) > limit {
		chirps = chirps[:limit]
	}
	return chirps, nil
}

func (m *chirpStore) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, c := range m.chirps {
		if c.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *chirpStore) CountReplies(ctx context.Context, chirpID uuid.UUID) (int64, error) {
	var count int64
	for _, c := range m.chirps {
		if c.ReplyToID != nil && *c.ReplyToID == chirpID {
			count++
		}
	}
	return count, nil
}

func (m *chirpStore) DeleteCascade(ctx context.Context, chirpID uuid.UUID) error {
	for id, c := range m.chirps {
		if id == chirpID || (c.ReplyToID != nil && *c.ReplyToID == chirpID) {
			delete(m.chirps, id)
		}
	}
	for id, n := range m.notifications {
		if n.ChirpID != nil && *n.ChirpID == chirpID {
			delete(m.notifications, id)
		}
	}
	return nil
}

// LikeRepository

type likeStore struct{ *memStore }

func (m *likeStore) Create(ctx context.Context, like *models.Like) error {
	like.ID = uuid.New()
	like.CreatedAt = m.tick()
	m.likes = append(m.likes, like)
	return nil
}

func (m *likeStore) Delete(ctx context.Context, userID, chirpID uuid.UUID) error {
	kept := m.likes[:0]
	for _, l := range m.likes {
		if !(l.UserID == userID && l.ChirpID == chirpID) {
			kept = append(kept, l)
		}
	}
	m.likes = kept
	return nil
}

func (m *likeStore) IsLiked(ctx context.Context, userID, chirpID uuid.UUID) (bool, error) {
	for _, l := range m.likes {
		if l.UserID == userID && l.ChirpID == chirpID {
			return true, nil
		}
	}
	return false, nil
}

func (m *likeStore) CountByChirpID(ctx context.Context, chirpID uuid.UUID) (int64, error) {
	var count int64
	for _, l := range m.likes {
		if l.ChirpID == chirpID {
			count++
		}
	}
	return count, nil
}

func (m *likeStore) GetByChirpID(ctx context.Context, chirpID uuid.UUID, limit int) ([]*models.Like, error) {
	var likes []*models.Like
	for _, l := range m.likes {
		if l.ChirpID == chirpID {
			likes = append(likes, l)
		}
	}
	if len(likes) > limit {
		likes = likes[:limit]
	}
	return likes, nil
}

// RechirpRepository

type rechirpStore struct{ *memStore }

func (m *rechirpStore) Create(ctx context.Context, rechirp *models.Rechirp) error {
	rechirp.ID = uuid.New()
	rechirp.CreatedAt = m.tick()
	m.rechirps = append(m.rechirps, rechirp)
	return nil
}

func (m *rechirpStore) Delete(ctx context.Context, userID, chirpID uuid.UUID) error {
	kept := m.rechirps[:0]
	for _, r := range m.rechirps {
		if !(r.UserID == userID && r.ChirpID == chirpID) {
			kept = append(kept, r)
		}
	}
	m.rechirps = kept
	return nil
}

func (m *rechirpStore) IsRechirped(ctx context.Context, userID, chirpID uuid.UUID) (bool, error) {
	for _, r := range m.rechirps {
		if r.UserID == userID && r.ChirpID == chirpID {
			return true, nil
		}
	}
	return false, nil
}

func (m *rechirpStore) CountByChirpID(ctx context.Context, chirpID uuid.UUID) (int64, error) {
	var count int64
	for _, r := range m.rechirps {
		if r.ChirpID == chirpID {
			count++
		}
	}
	return count, nil
}

// NotificationRepository

type notificationStore struct{ *memStore }

func (m *notificationStore) Create(ctx context.Context, notification *models.Notification) error {
	notification.ID = uuid.New()
	notification.CreatedAt = m.tick()
	m.notifications[notification.ID] = notification
	return nil
}

func (m *notificationStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	return m.notifications[id], nil
}

func (m *notificationStore) GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Notification, error) {
	var notifications []*models.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			notifications = append(notifications, n)
		}
	}
	sort.Slice(notifications, func(i, j int) bool {
		if !notifications[i].CreatedAt.Equal(notifications[j].CreatedAt) {
			return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
		}
		return notifications[i].ID.String() > notifications[j].ID.String()
	})
	if len(notifications) > limit {
		notifications = notifications[:limit]
	}
	return notifications, nil
}

func (m *notificationStore) MarkRead(ctx context.Context, id uuid.UUID) error {
	if n := m.notifications[id]; n != nil {
		n.IsRead = true
	}
	return nil
}

func (m *notificationStore) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	for _, n := range m.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (m *notificationStore) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

// TrendRepository

type trendStore struct{ *memStore }

func (m *trendStore) Increment(ctx context.Context, hashtag string) error {
	m.trendCounts[hashtag]++
	return nil
}

func (m *trendStore) Top(ctx context.Context, n int) ([]models.Trend, error) {
	var trends []models.Trend
	for hashtag, count := range m.trendCounts {
		trends = append(trends, models.Trend{Hashtag: hashtag, Count: count, Category: "Trending"})
	}
	sort.Slice(trends, func(i, j int) bool { return trends[i].Count > trends[j].Count })
	if len(trends) > n {
		trends = trends[:n]
	}
	return trends, nil
}

// nopPublisher satisfies EventPublisher; tests do not assert on the
// event stream.
type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	return nil
}

// testEnv wires every service against one shared memStore, with the
// real NotificationService as the fan-out hook.
type testEnv struct {
	store      *memStore
	users      *UserService
	chirps     *ChirpService
	engagement *EngagementService
	feed       *FeedService
	notifs     *NotificationService
	trends     *TrendService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newMemStore()
	log := logger.NewLogger("error")
	feedCfg := &config.FeedConfig{DefaultLimit: 50, MaxLimit: 100, SuggestionLimit: 10, TrendSize: 10}

	notifs := NewNotificationService(&notificationStore{store}, store, log)
	users := NewUserService(store, &followStore{store}, &chirpStore{store}, notifs, nopPublisher{}, log)
	chirps := NewChirpService(&chirpStore{store}, store, notifs, nopPublisher{}, log)
	engagement := NewEngagementService(&chirpStore{store}, &likeStore{store}, &rechirpStore{store}, notifs, nopPublisher{}, log)
	feed := NewFeedService(&chirpStore{store}, &followStore{store}, &likeStore{store}, &rechirpStore{store}, store, feedCfg, log)
	trends := NewTrendService(&trendStore{store}, feedCfg.TrendSize, log)

	return &testEnv{
		store:      store,
		users:      users,
		chirps:     chirps,
		engagement: engagement,
		feed:       feed,
		notifs:     notifs,
		trends:     trends,
	}
}

func (e *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user, err := e.users.Register(context.Background(), &RegisterRequest{
		Username:    username,
		Email:       username + "@example.com",
		Password:    "password123",
		DisplayName: username,
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return user
}

func (e *testEnv) createChirp(t *testing.T, author *models.User, content string) *models.Chirp {
	t.Helper()
	chirp, err := e.chirps.CreateChirp(context.Background(), author.ID.String(), &CreateChirpRequest{Content: content})
	if err != nil {
		t.Fatalf("create chirp: %v", err)
	}
	return chirp
}

func (e *testEnv) createReply(t *testing.T, author *models.User, parent *models.Chirp, content string) *models.Chirp {
	t.Helper()
	chirp, err := e.chirps.CreateChirp(context.Background(), author.ID.String(), &CreateChirpRequest{
		Content:   content,
		ReplyToID: parent.ID.String(),
	})
	if err != nil {
		t.Fatalf("create reply: %v", err)
	}
	return chirp
}

// notificationsFor collects the notifications owned by a user, unsorted.
func (e *testEnv) notificationsFor(userID uuid.UUID) []*models.Notification {
	var out []*models.Notification
	for _, n := range e.store.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}
