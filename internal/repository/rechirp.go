package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chirper-social/chirper/internal/models"
)

type rechirpRepository struct {
	db *gorm.DB
}

func NewRechirpRepository(db *gorm.DB) RechirpRepository {
	return &rechirpRepository{db: db}
}

func (r *rechirpRepository) Create(ctx context.Context, rechirp *models.Rechirp) error {
	if err := r.db.WithContext(ctx).Create(rechirp).Error; err != nil {
		return fmt.Errorf("failed to create rechirp: %w", err)
	}
	return nil
}

func (r *rechirpRepository) Delete(ctx context.Context, userID, chirpID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND chirp_id = ?", userID, chirpID).
		Delete(&models.Rechirp{}).Error; err != nil {
		return fmt.Errorf("failed to delete rechirp: %w", err)
	}
	return nil
}

func (r *rechirpRepository) IsRechirped(ctx context.Context, userID, chirpID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Rechirp{}).
		Where("user_id = ? AND chirp_id = ?", userID, chirpID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check rechirp status: %w", err)
	}
	return count > 0, nil
}

func (r *rechirpRepository) CountByChirpID(ctx context.Context, chirpID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Rechirp{}).
		Where("chirp_id = ?", chirpID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count rechirps: %w", err)
	}
	return count, nil
}
