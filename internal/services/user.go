package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/chirper-social/chirper/internal/models"
	"github.com/chirper-social/chirper/internal/repository"
	"github.com/chirper-social/chirper/pkg/logger"
	"github.com/chirper-social/chirper/pkg/queue"
)

type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	chirpRepo  repository.ChirpRepository
	notifier   Notifier
	producer   EventPublisher
	logger     *logger.Logger
}

func NewUserService(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	chirpRepo repository.ChirpRepository,
	notifier Notifier,
	producer EventPublisher,
	logger *logger.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		followRepo: followRepo,
		chirpRepo:  chirpRepo,
		notifier:   notifier,
		producer:   producer,
		logger:     logger,
	}
}

type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=30"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6,max=50"`
	DisplayName string `json:"display_name" binding:"max=50"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest uses pointers for the three-state contract: a nil
// field is left unchanged, a pointer to "" clears the stored value.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=50"`
	Avatar      *string `json:"avatar"`
	Bio         *string `json:"bio" binding:"omitempty,max=500"`
	Location    *string `json:"location" binding:"omitempty,max=100"`
	Website     *string `json:"website" binding:"omitempty,max=200"`
}

func (s *UserService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	existing, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, models.ErrUsernameExists
	}

	existing, err = s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, models.ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:    req.Username,
		Email:       req.Email,
		Password:    string(hashedPassword),
		DisplayName: req.DisplayName,
		IsActive:    true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.publishEvent(ctx, user.ID.String(), queue.EventUserRegistered, map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})

	s.logger.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

func (s *UserService) Login(ctx context.Context, req *LoginRequest) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, models.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, models.ErrInvalidCredentials
	}

	s.logger.WithField("user_id", user.ID).Info("User logged in")
	return user, nil
}

// GetProfile returns the public profile with counters derived at read
// time. The viewer id may be empty, in which case is_following stays
// false.
func (s *UserService) GetProfile(ctx context.Context, username, viewerID string) (*models.Profile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, models.ErrUserNotFound
	}

	tweetsCount, err := s.chirpRepo.CountByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count chirps: %w", err)
	}

	followersCount, err := s.followRepo.CountFollowers(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count followers: %w", err)
	}

	followingCount, err := s.followRepo.CountFollowing(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count following: %w", err)
	}

	profile := &models.Profile{
		User:           *user,
		TweetsCount:    tweetsCount,
		FollowersCount: followersCount,
		FollowingCount: followingCount,
	}

	if viewerID != "" {
		viewerUUID, err := uuid.Parse(viewerID)
		if err != nil {
			return nil, fmt.Errorf("invalid viewer ID: %w", err)
		}
		isFollowing, err := s.followRepo.IsFollowing(ctx, viewerUUID, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check follow status: %w", err)
		}
		profile.IsFollowing = isFollowing
	}

	return profile, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*models.User, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, models.ErrUserNotFound
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Location != nil {
		user.Location = *req.Location
	}
	if req.Website != nil {
		user.Website = *req.Website
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.publishEvent(ctx, userID, queue.EventUserUpdated, map[string]interface{}{
		"user_id": user.ID,
	})

	s.logger.WithField("user_id", user.ID).Info("Profile updated")
	return user, nil
}

func (s *UserService) Follow(ctx context.Context, actorID, targetID string) error {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return fmt.Errorf("invalid actor ID: %w", err)
	}

	targetUUID, err := uuid.Parse(targetID)
	if err != nil {
		return models.ErrUserNotFound
	}

	if actorUUID == targetUUID {
		return models.ErrCannotFollowSelf
	}

	target, err := s.userRepo.GetByID(ctx, targetUUID)
	if err != nil {
		return fmt.Errorf("failed to get target user: %w", err)
	}
	if target == nil {
		return models.ErrUserNotFound
	}

	isFollowing, err := s.followRepo.IsFollowing(ctx, actorUUID, targetUUID)
	if err != nil {
		return fmt.Errorf("failed to check follow status: %w", err)
	}
	if isFollowing {
		return models.ErrAlreadyFollowing
	}

	follow := &models.Follow{
		FollowerID:  actorUUID,
		FollowingID: targetUUID,
	}
	if err := s.followRepo.Create(ctx, follow); err != nil {
		return fmt.Errorf("failed to create follow: %w", err)
	}

	if err := s.notifier.Emit(ctx, models.NotificationKindFollow, actorUUID, targetUUID, nil); err != nil {
		s.logger.WithError(err).Error("Failed to emit follow notification")
	}

	s.publishEvent(ctx, actorID, queue.EventFollowCreated, queue.FollowEventData{
		FollowerID:  actorID,
		FollowingID: targetID,
	})

	s.logger.WithFields(map[string]interface{}{
		"follower_id":  actorID,
		"following_id": targetID,
	}).Info("User followed")

	return nil
}

func (s *UserService) Unfollow(ctx context.Context, actorID, targetID string) error {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return fmt.Errorf("invalid actor ID: %w", err)
	}

	targetUUID, err := uuid.Parse(targetID)
	if err != nil {
		return models.ErrUserNotFound
	}

	isFollowing, err := s.followRepo.IsFollowing(ctx, actorUUID, targetUUID)
	if err != nil {
		return fmt.Errorf("failed to check follow status: %w", err)
	}
	if !isFollowing {
		return models.ErrNotFollowing
	}

	if err := s.followRepo.Delete(ctx, actorUUID, targetUUID); err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}

	s.publishEvent(ctx, actorID, queue.EventFollowDeleted, queue.FollowEventData{
		FollowerID:  actorID,
		FollowingID: targetID,
	})

	s.logger.WithFields(map[string]interface{}{
		"follower_id":  actorID,
		"following_id": targetID,
	}).Info("User unfollowed")

	return nil
}

func (s *UserService) Suggestions(ctx context.Context, actorID string, limit int) ([]*models.User, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}

	users, err := s.userRepo.Suggestions(ctx, actorUUID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestions: %w", err)
	}
	return users, nil
}

func (s *UserService) GetFollowers(ctx context.Context, username string, limit int) ([]*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, models.ErrUserNotFound
	}

	return s.followRepo.GetFollowers(ctx, user.ID, limit)
}

func (s *UserService) GetFollowing(ctx context.Context, username string, limit int) ([]*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, models.ErrUserNotFound
	}

	return s.followRepo.GetFollowing(ctx, user.ID, limit)
}

func (s *UserService) SearchUsers(ctx context.Context, query string, limit int) ([]*models.User, error) {
	return s.userRepo.Search(ctx, query, limit)
}

func (s *UserService) publishEvent(ctx context.Context, key string, eventType queue.EventType, data interface{}) {
	event, err := queue.NewEvent(eventType, data)
	if err != nil {
		s.logger.WithError(err).Error("Failed to build event")
		return
	}
	if err := s.producer.Publish(ctx, key, event); err != nil {
		s.logger.WithError(err).Error("Failed to publish event")
	}
}
