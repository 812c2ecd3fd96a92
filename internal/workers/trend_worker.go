package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/chirper-social/chirper/internal/repository"
	"github.com/chirper-social/chirper/pkg/logger"
	"github.com/chirper-social/chirper/pkg/queue"
)

var hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)

// TrendWorker is the trending-topic aggregator. It consumes chirp
// events and bumps a hashtag counter per occurrence; the API only reads
// the resulting ranking.
type TrendWorker struct {
	consumer  *queue.KafkaConsumer
	trendRepo repository.TrendRepository
	logger    *logger.Logger
}

func NewTrendWorker(consumer *queue.KafkaConsumer, trendRepo repository.TrendRepository, logger *logger.Logger) *TrendWorker {
	return &TrendWorker{
		consumer:  consumer,
		trendRepo: trendRepo,
		logger:    logger,
	}
}

func (w *TrendWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting trend worker...")

	return w.consumer.Subscribe(ctx, func(msg queue.Message) error {
		var event queue.Event
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("failed to unmarshal event: %w", err)
		}

		if event.Type != queue.EventChirpCreated {
			return nil
		}

		var data queue.ChirpEventData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return fmt.Errorf("failed to unmarshal chirp event data: %w", err)
		}

		return w.handleChirpCreated(ctx, data)
	})
}

func (w *TrendWorker) Stop() error {
	w.logger.Info("Stopping trend worker...")
	return w.consumer.Close()
}

func (w *TrendWorker) handleChirpCreated(ctx context.Context, data queue.ChirpEventData) error {
	for _, hashtag := range ExtractHashtags(data.Content) {
		if err := w.trendRepo.Increment(ctx, hashtag); err != nil {
			w.logger.WithError(err).WithField("hashtag", hashtag).Error("Failed to increment trend counter")
			continue
		}
	}
	return nil
}

// ExtractHashtags returns the unique hashtags in content, lowercased,
// with the leading # kept.
func ExtractHashtags(content string) []string {
	seen := map[string]bool{}
	var hashtags []string
	for _, match := range hashtagPattern.FindAllStringSubmatch(content, -1) {
		hashtag := "#" + strings.ToLower(match[1])
		if seen[hashtag] {
			continue
		}
		seen[hashtag] = true
		hashtags = append(hashtags, hashtag)
	}
	return hashtags
}
