package services

import (
	"context"
	"fmt"

	"github.com/chirper-social/chirper/internal/models"
	"github.com/chirper-social/chirper/internal/repository"
	"github.com/chirper-social/chirper/pkg/logger"
)

// fallbackTrends is served when the counter store has no data yet, so
// the trends panel never renders empty.
var fallbackTrends = []models.Trend{
	{Hashtag: "#welcome", Count: 0, Category: "Trending"},
	{Hashtag: "#introductions", Count: 0, Category: "Trending"},
	{Hashtag: "#chirper", Count: 0, Category: "Trending"},
}

type TrendService struct {
	trendRepo repository.TrendRepository
	size      int
	logger    *logger.Logger
}

func NewTrendService(trendRepo repository.TrendRepository, size int, logger *logger.Logger) *TrendService {
	if size <= 0 {
		size = 10
	}
	return &TrendService{
		trendRepo: trendRepo,
		size:      size,
		logger:    logger,
	}
}

func (s *TrendService) GetTrends(ctx context.Context) ([]models.Trend, error) {
	trends, err := s.trendRepo.Top(ctx, s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to get trends: %w", err)
	}

	if len(trends) == 0 {
		return fallbackTrends, nil
	}
	return trends, nil
}
