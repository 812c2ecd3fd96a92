package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chirper-social/chirper/internal/models"
)

type chirpRepository struct {
	db *gorm.DB
}

func NewChirpRepository(db *gorm.DB) ChirpRepository {
	return &chirpRepository{db: db}
}

func (r *chirpRepository) Create(ctx context.Context, chirp *models.Chirp) error {
	if err := r.db.WithContext(ctx).Create(chirp).Error; err != nil {
		return fmt.Errorf("failed to create chirp: %w", err)
	}
	return nil
}

func (r *chirpRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Chirp, error) {
	var chirp models.Chirp
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(&chirp, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get chirp: %w", err)
	}
	return &chirp, nil
}

func (r *chirpRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Chirp, error) {
	var chirps []*models.Chirp
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&chirps).Error; err != nil {
		return nil, fmt.Errorf("failed to get chirps by user: %w", err)
	}
	return chirps, nil
}

// GetTimeline returns top-level chirps authored by any of the given users,
// newest first. The id tie-break keeps equal timestamps deterministic.
func (r *chirpRepository) GetTimeline(ctx context.Context, authorIDs []uuid.UUID, limit int) ([]*models.Chirp, error) {
	var chirps []*models.Chirp
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id IN ? AND reply_to_id IS NULL", authorIDs).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&chirps).Error; err != nil {
		return nil, fmt.Errorf("failed to get timeline: %w", err)
	}
	return chirps, nil
}

func (r *chirpRepository) GetExplore(ctx context.Context, limit int) ([]*models.Chirp, error) {
	var chirps []*models.Chirp
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("reply_to_id IS NULL").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&chirps).Error; err != nil {
		return nil, fmt.Errorf("failed to get explore feed: %w", err)
	}
	return chirps, nil
}

func (r *chirpRepository) GetReplies(ctx context.Context, chirpID uuid.UUID) ([]*models.Chirp, error) {
	var chirps []*models.Chirp
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("reply_to_id = ?", chirpID).
		Order("created_at DESC, id DESC").
		Find(&chirps).Error; err != nil {
		return nil, fmt.Errorf("failed to get replies: %w", err)
	}
	return chirps, nil
}

func (r *chirpRepository) Search(ctx context.Context, query string, limit int) ([]*models.Chirp, error) {
	var chirps []*models.Chirp
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("content ILIKE ?", "%"+query+"%").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&chirps).Error; err != nil {
		return nil, fmt.Errorf("failed to search chirps: %w", err)
	}
	return chirps, nil
}

func (r *chirpRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Chirp{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count chirps: %w", err)
	}
	return count, nil
}

func (r *chirpRepository) CountReplies(ctx context.Context, chirpID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Chirp{}).
		Where("reply_to_id = ?", chirpID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count replies: %w", err)
	}
	return count, nil
}

// DeleteCascade removes the chirp, its direct replies and every
// notification referencing the chirp in one transaction, so a crash in
// the middle cannot leave a half-applied cascade. Replies to replies are
// left in place and become orphans.
func (r *chirpRepository) DeleteCascade(ctx context.Context, chirpID uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reply_to_id = ?", chirpID).Delete(&models.Chirp{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", chirpID).Delete(&models.Chirp{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chirp_id = ?", chirpID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete chirp: %w", err)
	}
	return nil
}
