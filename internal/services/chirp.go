package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/chirper-social/chirper/internal/models"
	"github.com/chirper-social/chirper/internal/repository"
	"github.com/chirper-social/chirper/pkg/logger"
	"github.com/chirper-social/chirper/pkg/queue"
)

var mentionPattern = regexp.MustCompile(`@(\w+)`)

type ChirpService struct {
	chirpRepo repository.ChirpRepository
	userRepo  repository.UserRepository
	notifier  Notifier
	producer  EventPublisher
	logger    *logger.Logger
}

func NewChirpService(
	chirpRepo repository.ChirpRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
	producer EventPublisher,
	logger *logger.Logger,
) *ChirpService {
	return &ChirpService{
		chirpRepo: chirpRepo,
		userRepo:  userRepo,
		notifier:  notifier,
		producer:  producer,
		logger:    logger,
	}
}

type CreateChirpRequest struct {
	Content   string   `json:"content"`
	ReplyToID string   `json:"reply_to_id"`
	MediaURLs []string `json:"media_urls"`
}

func (s *ChirpService) CreateChirp(ctx context.Context, authorID string, req *CreateChirpRequest) (*models.Chirp, error) {
	authorUUID, err := uuid.Parse(authorID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, models.ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > models.MaxChirpLength {
		return nil, models.ErrContentTooLong
	}

	var parent *models.Chirp
	var replyToID *uuid.UUID
	if req.ReplyToID != "" {
		parentUUID, err := uuid.Parse(req.ReplyToID)
		if err != nil {
			return nil, models.ErrParentNotFound
		}
		parent, err = s.chirpRepo.GetByID(ctx, parentUUID)
		if err != nil {
			return nil, fmt.Errorf("failed to get parent chirp: %w", err)
		}
		if parent == nil {
			return nil, models.ErrParentNotFound
		}
		replyToID = &parentUUID
	}

	chirp := &models.Chirp{
		UserID:    authorUUID,
		Content:   content,
		ReplyToID: replyToID,
		MediaURLs: req.MediaURLs,
	}

	if err := s.chirpRepo.Create(ctx, chirp); err != nil {
		return nil, fmt.Errorf("failed to create chirp: %w", err)
	}

	if parent != nil {
		// The notification references the parent so it is cleaned up
		// together with the parent's cascade.
		if err := s.notifier.Emit(ctx, models.NotificationKindReply, authorUUID, parent.UserID, &parent.ID); err != nil {
			s.logger.WithError(err).Error("Failed to emit reply notification")
		}
	}

	s.emitMentions(ctx, chirp, parent)

	s.publishEvent(ctx, authorID, queue.EventChirpCreated, queue.ChirpEventData{
		ChirpID:   chirp.ID.String(),
		UserID:    authorID,
		Content:   chirp.Content,
		ReplyToID: req.ReplyToID,
		CreatedAt: chirp.CreatedAt.Format("2006-01-02T15:04:05Z"),
	})

	s.logger.WithFields(map[string]interface{}{
		"chirp_id": chirp.ID,
		"user_id":  authorID,
	}).Info("Chirp created")

	return chirp, nil
}

// emitMentions notifies every @username resolving to a real user, except
// the author and the parent author who already got a reply notification.
func (s *ChirpService) emitMentions(ctx context.Context, chirp *models.Chirp, parent *models.Chirp) {
	seen := map[string]bool{}
	for _, match := range mentionPattern.FindAllStringSubmatch(chirp.Content, -1) {
		username := match[1]
		if seen[username] {
			continue
		}
		seen[username] = true

		user, err := s.userRepo.GetByUsername(ctx, username)
		if err != nil {
			s.logger.WithError(err).Error("Failed to resolve mention")
			continue
		}
		if user == nil || user.ID == chirp.UserID {
			continue
		}
		if parent != nil && user.ID == parent.UserID {
			continue
		}
		if err := s.notifier.Emit(ctx, models.NotificationKindMention, chirp.UserID, user.ID, &chirp.ID); err != nil {
			s.logger.WithError(err).Error("Failed to emit mention notification")
		}
	}
}

// DeleteChirp removes the chirp, its direct replies and the notifications
// referencing it. Only the author may delete.
func (s *ChirpService) DeleteChirp(ctx context.Context, requesterID, chirpID string) error {
	chirpUUID, err := uuid.Parse(chirpID)
	if err != nil {
		return models.ErrChirpNotFound
	}

	chirp, err := s.chirpRepo.GetByID(ctx, chirpUUID)
	if err != nil {
		return fmt.Errorf("failed to get chirp: %w", err)
	}
	if chirp == nil {
		return models.ErrChirpNotFound
	}

	if chirp.UserID.String() != requesterID {
		return models.ErrNotChirpOwner
	}

	if err := s.chirpRepo.DeleteCascade(ctx, chirpUUID); err != nil {
		return fmt.Errorf("failed to delete chirp: %w", err)
	}

	s.publishEvent(ctx, requesterID, queue.EventChirpDeleted, map[string]interface{}{
		"chirp_id": chirpID,
		"user_id":  requesterID,
	})

	s.logger.WithFields(map[string]interface{}{
		"chirp_id": chirpID,
		"user_id":  requesterID,
	}).Info("Chirp deleted")

	return nil
}

func (s *ChirpService) publishEvent(ctx context.Context, key string, eventType queue.EventType, data interface{}) {
	event, err := queue.NewEvent(eventType, data)
	if err != nil {
		s.logger.WithError(err).Error("Failed to build event")
		return
	}
	if err := s.producer.Publish(ctx, key, event); err != nil {
		s.logger.WithError(err).Error("Failed to publish event")
	}
}
