package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chirper-social/chirper/internal/config"
	"github.com/chirper-social/chirper/internal/handlers"
	"github.com/chirper-social/chirper/internal/middleware"
	"github.com/chirper-social/chirper/internal/repository"
	"github.com/chirper-social/chirper/internal/services"
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
	logger.Info("Starting Chirper API server...")

	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		logger.WithError(err).Fatal("Failed to migrate database")
	}

	redisClient := cache.NewRedisClient(
		cfg.Redis.Addr(),
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
		cfg.Redis.MinIdleConns,
	)
	defer redisClient.Close()

	ctx := context.Background()
	if err := redisClient.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}

	chirpEventsProducer := queue.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.ChirpEvents)
	defer chirpEventsProducer.Close()

	userEventsProducer := queue.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.UserEvents)
	defer userEventsProducer.Close()

	userRepo := repository.NewUserRepository(db.DB)
	followRepo := repository.NewFollowRepository(db.DB)
	chirpRepo := repository.NewChirpRepository(db.DB)
	likeRepo := repository.NewLikeRepository(db.DB)
	rechirpRepo := repository.NewRechirpRepository(db.DB)
	notifRepo := repository.NewNotificationRepository(db.DB)
	trendRepo := repository.NewTrendRepository(redisClient)

	notificationService := services.NewNotificationService(notifRepo, userRepo, logger)
	userService := services.NewUserService(userRepo, followRepo, chirpRepo, notificationService, userEventsProducer, logger)
	chirpService := services.NewChirpService(chirpRepo, userRepo, notificationService, chirpEventsProducer, logger)
	engagementService := services.NewEngagementService(chirpRepo, likeRepo, rechirpRepo, notificationService, chirpEventsProducer, logger)
	feedService := services.NewFeedService(chirpRepo, followRepo, likeRepo, rechirpRepo, userRepo, &cfg.Feed, logger)
	trendService := services.NewTrendService(trendRepo, cfg.Feed.TrendSize, logger)

	userHandler := handlers.NewUserHandler(userService, cfg.JWT.Secret, cfg.JWT.ExpireTime, &cfg.Feed)
	chirpHandler := handlers.NewChirpHandler(chirpService, engagementService, feedService, &cfg.Feed)
	feedHandler := handlers.NewFeedHandler(feedService, &cfg.Feed)
	notificationHandler := handlers.NewNotificationHandler(notificationService, &cfg.Feed)
	trendHandler := handlers.NewTrendHandler(trendService)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	jwtConfig := &middleware.JWTConfig{Secret: cfg.JWT.Secret}

	api := router.Group("/api/v1")
	{
		api.POST("/users/register", userHandler.Register)
		api.POST("/users/login", userHandler.Login)
		api.GET("/trends", trendHandler.GetTrends)

		// Read endpoints decorate results for the viewer when a valid
		// token is present but never require one.
		public := api.Group("")
		public.Use(middleware.NewOptionalJWTAuth(jwtConfig))
		{
			public.GET("/users/search", userHandler.SearchUsers)
			public.GET("/users/:username", userHandler.GetProfile)
			public.GET("/explore", feedHandler.GetExplore)
			public.GET("/search", feedHandler.Search)
			public.GET("/chirps/:id", chirpHandler.GetChirp)
			public.GET("/chirps/:id/replies", feedHandler.GetReplies)
			public.GET("/chirps/:id/likes", chirpHandler.GetChirpLikes)
		}

		protected := api.Group("")
		protected.Use(middleware.NewJWTAuth(jwtConfig))
		{
			protected.PUT("/users/profile", userHandler.UpdateProfile)
			protected.POST("/users/follow", userHandler.Follow)
			protected.DELETE("/users/unfollow/:id", userHandler.Unfollow)
			protected.GET("/users/suggestions", userHandler.Suggestions)
			protected.GET("/users/:username/followers", userHandler.GetFollowers)
			protected.GET("/users/:username/following", userHandler.GetFollowing)

			protected.POST("/chirps", chirpHandler.CreateChirp)
			protected.DELETE("/chirps/:id", chirpHandler.DeleteChirp)
			protected.POST("/chirps/:id/like", chirpHandler.LikeChirp)
			protected.DELETE("/chirps/:id/like", chirpHandler.UnlikeChirp)
			protected.POST("/chirps/:id/rechirp", chirpHandler.RechirpChirp)
			protected.DELETE("/chirps/:id/rechirp", chirpHandler.UnrechirpChirp)

			protected.GET("/timeline", feedHandler.GetTimeline)
			protected.GET("/users/:username/chirps", feedHandler.GetUserChirps)

			protected.GET("/notifications", notificationHandler.List)
			protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
			protected.PUT("/notifications/:id/read", notificationHandler.MarkRead)
			protected.PUT("/notifications/read-all", notificationHandler.MarkAllRead)
		}
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

func init() {
	dirs := []string{"logs", "configs"}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Printf("Failed to create directory %s: %v", dir, err)
		}
	}

	configPath := "configs/config.yaml"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := createDefaultConfig(configPath); err != nil {
			log.Printf("Failed to create default config: %v", err)
		}
	}
}

func createDefaultConfig(path string) error {
	defaultConfig := `server:
  port: ":8080"
  mode: "debug"
  read_timeout: 30s
  write_timeout: 30s

database:
  host: "localhost"
  port: 5432
  user: "chirper"
  password: "chirper"
  dbname: "chirper"
  sslmode: "disable"
  max_open_conns: 100
  max_idle_conns: 10

redis:
  host: "localhost"
  port: 6379
  password: ""
  db: 0
  pool_size: 100
  min_idle_conns: 10

kafka:
  brokers:
    - "localhost:9092"
  topics:
    user_events: "user-events"
    chirp_events: "chirp-events"

jwt:
  secret: "your-secret-key-change-in-production"
  expire_time: 24h

feed:
  default_limit: 50
  max_limit: 100
  suggestion_limit: 10
  trend_size: 10

log:
  level: "info"`

	return os.WriteFile(path, []byte(defaultConfig), 0644)
}
