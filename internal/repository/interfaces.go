package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/chirper-social/chirper/internal/models"
)

// Repositories are consumed through these interfaces so services can be
// unit-tested against in-memory implementations.

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Suggestions(ctx context.Context, userID uuid.UUID, limit int) ([]*models.User, error)
	Search(ctx context.Context, query string, limit int) ([]*models.User, error)
}

type FollowRepository interface {
	Create(ctx context.Context, follow *models.Follow) error
	Delete(ctx context.Context, followerID, followingID uuid.UUID) error
	IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
	GetFollowingIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	GetFollowers(ctx context.Context, userID uuid.UUID, limit int) ([]*models.User, error)
	GetFollowing(ctx context.Context, userID uuid.UUID, limit int) ([]*models.User, error)
	CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error)
	CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error)
}

type ChirpRepository interface {
	Create(ctx context.Context, chirp *models.Chirp) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Chirp, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Chirp, error)
	GetTimeline(ctx context.Context, authorIDs []uuid.UUID, limit int) ([]*models.Chirp, error)
	GetExplore(ctx context.Context, limit int) ([]*models.Chirp, error)
	GetReplies(ctx context.Context, chirpID uuid.UUID) ([]*models.Chirp, error)
	Search(ctx context.Context, query string, limit int) ([]*models.Chirp, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	CountReplies(ctx context.Context, chirpID uuid.UUID) (int64, error)
	// DeleteCascade removes the chirp, its direct replies and every
	// notification referencing the chirp as a single transaction.
	DeleteCascade(ctx context.Context, chirpID uuid.UUID) error
}

type LikeRepository interface {
	Create(ctx context.Context, like *models.Like) error
	Delete(ctx context.Context, userID, chirpID uuid.UUID) error
	IsLiked(ctx context.Context, userID, chirpID uuid.UUID) (bool, error)
	CountByChirpID(ctx context.Context, chirpID uuid.UUID) (int64, error)
	GetByChirpID(ctx context.Context, chirpID uuid.UUID, limit int) ([]*models.Like, error)
}

type RechirpRepository interface {
	Create(ctx context.Context, rechirp *models.Rechirp) error
	Delete(ctx context.Context, userID, chirpID uuid.UUID) error
	IsRechirped(ctx context.Context, userID, chirpID uuid.UUID) (bool, error)
	CountByChirpID(ctx context.Context, chirpID uuid.UUID) (int64, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

type TrendRepository interface {
	Increment(ctx context.Context, hashtag string) error
	Top(ctx context.Context, n int) ([]models.Trend, error)
}
