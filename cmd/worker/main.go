package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/chirper-social/chirper/internal/config"
	"github.com/chirper-social/chirper/internal/repository"
	"github.com/chirper-social/chirper/internal/workers"
	"github.com/chirper-social/chirper/pkg/cache"
	"github.com/chirper-social/chirper/pkg/logger"
	"github.com/chirper-social/chirper/pkg/queue"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logger.NewLogger(cfg.Log.Level)
	logger.Info("Starting Chirper trend worker...")

	redisClient := cache.NewRedisClient(
		cfg.Redis.Addr(),
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
		cfg.Redis.MinIdleConns,
	)
	defer redisClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := redisClient.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}

	consumer := queue.NewKafkaConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topics.ChirpEvents, "trend-worker-group")

	trendRepo := repository.NewTrendRepository(redisClient)
	worker := workers.NewTrendWorker(consumer, trendRepo, logger)

	go func() {
		if err := worker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.WithError(err).Error("Trend worker stopped with error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down trend worker...")
	cancel()

	if err := worker.Stop(); err != nil {
		logger.WithError(err).Error("Failed to stop trend worker")
	}

	logger.Info("Trend worker exited")
}
