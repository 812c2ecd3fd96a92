package repository

import (
	"context"
	"fmt"

	"github.com/chirper-social/chirper/internal/models"
	"github.com/chirper-social/chirper/pkg/cache"
)

const trendKey = "trends:hashtags"

// trendRepository keeps hashtag counters in a redis sorted set. The API
// only reads from it; the trend worker owns the writes.
type trendRepository struct {
	cache *cache.RedisClient
}

func NewTrendRepository(cache *cache.RedisClient) TrendRepository {
	return &trendRepository{cache: cache}
}

func (r *trendRepository) Increment(ctx context.Context, hashtag string) error {
	if err := r.cache.ZIncrBy(ctx, trendKey, 1, hashtag); err != nil {
		return fmt.Errorf("failed to increment trend counter: %w", err)
	}
	return nil
}

func (r *trendRepository) Top(ctx context.Context, n int) ([]models.Trend, error) {
	members, err := r.cache.ZRevRangeWithScores(ctx, trendKey, 0, int64(n-1))
	if err != nil {
		return nil, fmt.Errorf("failed to get top trends: %w", err)
	}

	trends := make([]models.Trend, 0, len(members))
	for _, m := range members {
		hashtag, ok := m.Member.(string)
		if !ok {
			continue
		}
		trends = append(trends, models.Trend{
			Hashtag:  hashtag,
			Count:    int64(m.Score),
			Category: "Trending",
		})
	}
	return trends, nil
}
