package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/chirper-social/chirper/internal/models"
	"github.com/chirper-social/chirper/internal/repository"
	"github.com/chirper-social/chirper/pkg/logger"
	"github.com/chirper-social/chirper/pkg/queue"
)

// EngagementService applies like and rechirp operations. Duplicate
// actions are rejected so a round trip (like then unlike) always returns
// the engagement set to its previous state.
type EngagementService struct {
	chirpRepo   repository.ChirpRepository
	likeRepo    repository.LikeRepository
	rechirpRepo repository.RechirpRepository
	notifier    Notifier
	producer    EventPublisher
	logger      *logger.Logger
}

func NewEngagementService(
	chirpRepo repository.ChirpRepository,
	likeRepo repository.LikeRepository,
	rechirpRepo repository.RechirpRepository,
	notifier Notifier,
	producer EventPublisher,
	logger *logger.Logger,
) *EngagementService {
	return &EngagementService{
		chirpRepo:   chirpRepo,
		likeRepo:    likeRepo,
		rechirpRepo: rechirpRepo,
		notifier:    notifier,
		producer:    producer,
		logger:      logger,
	}
}

func (s *EngagementService) Like(ctx context.Context, userID, chirpID string) error {
	userUUID, chirp, err := s.resolve(ctx, userID, chirpID)
	if err != nil {
		return err
	}

	liked, err := s.likeRepo.IsLiked(ctx, userUUID, chirp.ID)
	if err != nil {
		return fmt.Errorf("failed to check like status: %w", err)
	}
	if liked {
		return models.ErrAlreadyLiked
	}

	like := &models.Like{
		UserID:  userUUID,
		ChirpID: chirp.ID,
	}
	if err := s.likeRepo.Create(ctx, like); err != nil {
		return fmt.Errorf("failed to create like: %w", err)
	}

	if err := s.notifier.Emit(ctx, models.NotificationKindLike, userUUID, chirp.UserID, &chirp.ID); err != nil {
		s.logger.WithError(err).Error("Failed to emit like notification")
	}

	s.publishEvent(ctx, userID, queue.EventLikeCreated, queue.EngagementEventData{
		UserID:  userID,
		ChirpID: chirpID,
	})

	s.logger.WithFields(map[string]interface{}{
		"user_id":  userID,
		"chirp_id": chirpID,
	}).Info("Chirp liked")

	return nil
}

func (s *EngagementService) Unlike(ctx context.Context, userID, chirpID string) error {
	userUUID, chirp, err := s.resolve(ctx, userID, chirpID)
	if err != nil {
		return err
	}

	liked, err := s.likeRepo.IsLiked(ctx, userUUID, chirp.ID)
	if err != nil {
		return fmt.Errorf("failed to check like status: %w", err)
	}
	if !liked {
		return models.ErrNotLiked
	}

	if err := s.likeRepo.Delete(ctx, userUUID, chirp.ID); err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}

	s.publishEvent(ctx, userID, queue.EventLikeDeleted, queue.EngagementEventData{
		UserID:  userID,
		ChirpID: chirpID,
	})

	s.logger.WithFields(map[string]interface{}{
		"user_id":  userID,
		"chirp_id": chirpID,
	}).Info("Chirp unliked")

	return nil
}

func (s *EngagementService) Rechirp(ctx context.Context, userID, chirpID string) error {
	userUUID, chirp, err := s.resolve(ctx, userID, chirpID)
	if err != nil {
		return err
	}

	rechirped, err := s.rechirpRepo.IsRechirped(ctx, userUUID, chirp.ID)
	if err != nil {
		return fmt.Errorf("failed to check rechirp status: %w", err)
	}
	if rechirped {
		return models.ErrAlreadyRechirped
	}

	rechirp := &models.Rechirp{
		UserID:  userUUID,
		ChirpID: chirp.ID,
	}
	if err := s.rechirpRepo.Create(ctx, rechirp); err != nil {
		return fmt.Errorf("failed to create rechirp: %w", err)
	}

	if err := s.notifier.Emit(ctx, models.NotificationKindRechirp, userUUID, chirp.UserID, &chirp.ID); err != nil {
		s.logger.WithError(err).Error("Failed to emit rechirp notification")
	}

	s.publishEvent(ctx, userID, queue.EventRechirpCreated, queue.EngagementEventData{
		UserID:  userID,
		ChirpID: chirpID,
	})

	s.logger.WithFields(map[string]interface{}{
		"user_id":  userID,
		"chirp_id": chirpID,
	}).Info("Chirp rechirped")

	return nil
}

func (s *EngagementService) Unrechirp(ctx context.Context, userID, chirpID string) error {
	userUUID, chirp, err := s.resolve(ctx, userID, chirpID)
	if err != nil {
		return err
	}

	rechirped, err := s.rechirpRepo.IsRechirped(ctx, userUUID, chirp.ID)
	if err != nil {
		return fmt.Errorf("failed to check rechirp status: %w", err)
	}
	if !rechirped {
		return models.ErrNotRechirped
	}

	if err := s.rechirpRepo.Delete(ctx, userUUID, chirp.ID); err != nil {
		return fmt.Errorf("failed to delete rechirp: %w", err)
	}

	s.publishEvent(ctx, userID, queue.EventRechirpDeleted, queue.EngagementEventData{
		UserID:  userID,
		ChirpID: chirpID,
	})

	s.logger.WithFields(map[string]interface{}{
		"user_id":  userID,
		"chirp_id": chirpID,
	}).Info("Chirp unrechirped")

	return nil
}

func (s *EngagementService) GetChirpLikes(ctx context.Context, chirpID string, limit int) ([]*models.Like, error) {
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

	likes, err := s.likeRepo.GetByChirpID(ctx, chirpUUID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get chirp likes: %w", err)
	}
	return likes, nil
}

func (s *EngagementService) resolve(ctx context.Context, userID, chirpID string) (uuid.UUID, *models.Chirp, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("invalid user ID: %w", err)
	}

	chirpUUID, err := uuid.Parse(chirpID)
	if err != nil {
		return uuid.Nil, nil, models.ErrChirpNotFound
	}

	chirp, err := s.chirpRepo.GetByID(ctx, chirpUUID)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to get chirp: %w", err)
	}
	if chirp == nil {
		return uuid.Nil, nil, models.ErrChirpNotFound
	}

	return userUUID, chirp, nil
}

func (s *EngagementService) publishEvent(ctx context.Context, key string, eventType queue.EventType, data interface{}) {
	event, err := queue.NewEvent(eventType, data)
	if err != nil {
		s.logger.WithError(err).Error("Failed to build event")
		return
	}
	if err := s.producer.Publish(ctx, key, event); err != nil {
		s.logger.WithError(err).Error("Failed to publish event")
	}
}
