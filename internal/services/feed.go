package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/chirper-social/chirper/internal/config"
	"github.com/chirper-social/chirper/internal/models"
	"github.com/chirper-social/chirper/internal/repository"
	"github.com/chirper-social/chirper/pkg/logger"
)

// FeedService assembles feeds at read time from the chirps and follows
// tables. Nothing is materialized or cached; counters are fresh count
// queries per returned chirp.
type FeedService struct {
	chirpRepo   repository.ChirpRepository
	followRepo  repository.FollowRepository
	likeRepo    repository.LikeRepository
	rechirpRepo repository.RechirpRepository
	userRepo    repository.UserRepository
	config      *config.FeedConfig
	logger      *logger.Logger
}

func NewFeedService(
	chirpRepo repository.ChirpRepository,
	followRepo repository.FollowRepository,
	likeRepo repository.LikeRepository,
	rechirpRepo repository.RechirpRepository,
	userRepo repository.UserRepository,
	config *config.FeedConfig,
	logger *logger.Logger,
) *FeedService {
	return &FeedService{
		chirpRepo:   chirpRepo,
		followRepo:  followRepo,
		likeRepo:    likeRepo,
		rechirpRepo: rechirpRepo,
		userRepo:    userRepo,
		config:      config,
		logger:      logger,
	}
}

// GetTimeline returns top-level chirps by the user and everyone they
// follow, newest first.
func (s *FeedService) GetTimeline(ctx context.Context, userID string, limit int) ([]*models.ChirpView, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}

	followingIDs, err := s.followRepo.GetFollowingIDs(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to get following IDs: %w", err)
	}

	authorIDs := append(followingIDs, userUUID)
	chirps, err := s.chirpRepo.GetTimeline(ctx, authorIDs, s.clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to get timeline: %w", err)
	}

	return s.decorate(ctx, chirps, userID)
}

// GetExplore returns all top-level chirps, newest first. The viewer may
// be empty for anonymous requests.
func (s *FeedService) GetExplore(ctx context.Context, viewerID string, limit int) ([]*models.ChirpView, error) {
	chirps, err := s.chirpRepo.GetExplore(ctx, s.clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to get explore feed: %w", err)
	}

	return s.decorate(ctx, chirps, viewerID)
}

// GetReplies returns the direct replies of a chirp, newest first. Reply
// counts on the returned views cover one level only.
func (s *FeedService) GetReplies(ctx context.Context, viewerID, chirpID string) ([]*models.ChirpView, error) {
	chirpUUID, err := uuid.Parse(chirpID)
	if err != nil {
		return nil, models.ErrChirpNotFound
	}

	chirp, err := s.chirpRepo.GetByID(ctx, chirpUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chirp: %w", err)
	}
	if chirp == nil {
		return nil, models.ErrChirpNotFound
	}

	replies, err := s.chirpRepo.GetReplies(ctx, chirpUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to get replies: %w", err)
	}

	return s.decorate(ctx, replies, viewerID)
}

func (s *FeedService) Search(ctx context.Context, viewerID, query string, limit int) ([]*models.ChirpView, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.ErrEmptySearchQuery
	}

	chirps, err := s.chirpRepo.Search(ctx, query, s.clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to search chirps: %w", err)
	}

	return s.decorate(ctx, chirps, viewerID)
}

func (s *FeedService) GetUserChirps(ctx context.Context, viewerID, username string, limit int) ([]*models.ChirpView, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, models.ErrUserNotFound
	}

	chirps, err := s.chirpRepo.GetByUserID(ctx, user.ID, s.clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to get user chirps: %w", err)
	}

	return s.decorate(ctx, chirps, viewerID)
}

func (s *FeedService) GetChirp(ctx context.Context, viewerID, chirpID string) (*models.ChirpView, error) {
	chirpUUID, err := uuid.Parse(chirpID)
	if err != nil {
		return nil, models.ErrChirpNotFound
	}

	chirp, err := s.chirpRepo.GetByID(ctx, chirpUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chirp: %w", err)
	}
	if chirp == nil {
		return nil, models.ErrChirpNotFound
	}

	views, err := s.decorate(ctx, []*models.Chirp{chirp}, viewerID)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// decorate attaches derived counters and viewer-relative flags to each
// chirp. With no viewer the flags stay false.
func (s *FeedService) decorate(ctx context.Context, chirps []*models.Chirp, viewerID string) ([]*models.ChirpView, error) {
	var viewerUUID uuid.UUID
	hasViewer := false
	if viewerID != "" {
		parsed, err := uuid.Parse(viewerID)
		if err != nil {
			return nil, fmt.Errorf("invalid viewer ID: %w", err)
		}
		viewerUUID = parsed
		hasViewer = true
	}

	views := make([]*models.ChirpView, 0, len(chirps))
	for _, chirp := range chirps {
		view := &models.ChirpView{Chirp: *chirp}

		likeCount, err := s.likeRepo.CountByChirpID(ctx, chirp.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count likes: %w", err)
		}
		view.LikeCount = likeCount

		rechirpCount, err := s.rechirpRepo.CountByChirpID(ctx, chirp.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count rechirps: %w", err)
		}
		view.RechirpCount = rechirpCount

		replyCount, err := s.chirpRepo.CountReplies(ctx, chirp.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count replies: %w", err)
		}
		view.ReplyCount = replyCount

		if hasViewer {
			liked, err := s.likeRepo.IsLiked(ctx, viewerUUID, chirp.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to check like status: %w", err)
			}
			view.IsLiked = liked

			rechirped, err := s.rechirpRepo.IsRechirped(ctx, viewerUUID, chirp.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to check rechirp status: %w", err)
			}
			view.IsRechirped = rechirped
		}

		views = append(views, view)
	}

	return views, nil
}

func (s *FeedService) clampLimit(limit int) int {
	if limit <= 0 {
		return s.config.DefaultLimit
	}
	if limit > s.config.MaxLimit {
		return s.config.MaxLimit
	}
	return limit
}
