package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/chirper-social/chirper/internal/models"
	"github.com/chirper-social/chirper/internal/repository"
	"github.com/chirper-social/chirper/pkg/logger"
)

type NotificationService struct {
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
	logger    *logger.Logger
}

func NewNotificationService(notifRepo repository.NotificationRepository, userRepo repository.UserRepository, logger *logger.Logger) *NotificationService {
	return &NotificationService{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

// Emit creates one notification for the recipient. Self-directed events
// (liking your own chirp, replying to yourself) are dropped here so
// callers never have to special-case them.
func (s *NotificationService) Emit(ctx context.Context, kind string, actorID, recipientID uuid.UUID, chirpID *uuid.UUID) error {
	if actorID == recipientID {
		return nil
	}

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("failed to get actor: %w", err)
	}
	if actor == nil {
		return models.ErrUserNotFound
	}

	notification := &models.Notification{
		UserID:  recipientID,
		ActorID: actorID,
		Kind:    kind,
		ChirpID: chirpID,
		Message: notificationMessage(kind, actor),
	}

	if err := s.notifRepo.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"kind":         kind,
		"actor_id":     actorID,
		"recipient_id": recipientID,
	}).Debug("Notification emitted")

	return nil
}

func notificationMessage(kind string, actor *models.User) string {
	name := actor.DisplayName
	if name == "" {
		name = actor.Username
	}

	switch kind {
	case models.NotificationKindLike:
		return fmt.Sprintf("%s liked your chirp", name)
	case models.NotificationKindRechirp:
		return fmt.Sprintf("%s rechirped your chirp", name)
	case models.NotificationKindReply:
		return fmt.Sprintf("%s replied to your chirp", name)
	case models.NotificationKindFollow:
		return fmt.Sprintf("%s followed you", name)
	case models.NotificationKindMention:
		return fmt.Sprintf("%s mentioned you in a chirp", name)
	default:
		return fmt.Sprintf("%s interacted with you", name)
	}
}

func (s *NotificationService) List(ctx context.Context, requesterID string, limit int) ([]*models.Notification, error) {
	userUUID, err := uuid.Parse(requesterID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}

	notifications, err := s.notifRepo.GetByUserID(ctx, userUUID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, requesterID, notificationID string) error {
	userUUID, err := uuid.Parse(requesterID)
	if err != nil {
		return fmt.Errorf("invalid user ID: %w", err)
	}

	notifUUID, err := uuid.Parse(notificationID)
	if err != nil {
		return models.ErrNotificationNotFound
	}

	notification, err := s.notifRepo.GetByID(ctx, notifUUID)
	if err != nil {
		return fmt.Errorf("failed to get notification: %w", err)
	}
	if notification == nil {
		return models.ErrNotificationNotFound
	}
	if notification.UserID != userUUID {
		return models.ErrNotNotificationOwner
	}

	if err := s.notifRepo.MarkRead(ctx, notifUUID); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, requesterID string) error {
	userUUID, err := uuid.Parse(requesterID)
	if err != nil {
		return fmt.Errorf("invalid user ID: %w", err)
	}

	if err := s.notifRepo.MarkAllRead(ctx, userUUID); err != nil {
		return fmt.Errorf("failed to mark all notifications read: %w", err)
	}
	return nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, requesterID string) (int64, error) {
	userUUID, err := uuid.Parse(requesterID)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID: %w", err)
	}

	return s.notifRepo.CountUnread(ctx, userUUID)
}
