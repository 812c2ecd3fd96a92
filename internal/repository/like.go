package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chirper-social/chirper/internal/models"
)

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Create(ctx context.Context, like *models.Like) error {
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		return fmt.Errorf("failed to create like: %w", err)
	}
	return nil
}

func (r *likeRepository) Delete(ctx context.Context, userID, chirpID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND chirp_id = ?", userID, chirpID).
		Delete(&models.Like{}).Error; err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	return nil
}

func (r *likeRepository) IsLiked(ctx context.Context, userID, chirpID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND chirp_id = ?", userID, chirpID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check like status: %w", err)
	}
	return count > 0, nil
}

func (r *likeRepository) CountByChirpID(ctx context.Context, chirpID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("chirp_id = ?", chirpID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

func (r *likeRepository) GetByChirpID(ctx context.Context, chirpID uuid.UUID, limit int) ([]*models.Like, error) {
	var likes []*models.Like
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("chirp_id = ?", chirpID).
		Order("created_at DESC").
		Limit(limit).
		Find(&likes).Error; err != nil {
		return nil, fmt.Errorf("failed to get likes by chirp: %w", err)
	}
	return likes, nil
}
