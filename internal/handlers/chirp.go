package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chirper-social/chirper/internal/config"
	"github.com/chirper-social/chirper/internal/middleware"
	"github.com/chirper-social/chirper/internal/services"
)

type ChirpHandler struct {
	chirpService      *services.ChirpService
	engagementService *services.EngagementService
	feedService       *services.FeedService
	feed              *config.FeedConfig
}

func NewChirpHandler(chirpService *services.ChirpService, engagementService *services.EngagementService, feedService *services.FeedService, feed *config.FeedConfig) *ChirpHandler {
	return &ChirpHandler{
		chirpService:      chirpService,
		engagementService: engagementService,
		feedService:       feedService,
		feed:              feed,
	}
}

func (h *ChirpHandler) CreateChirp(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req services.CreateChirpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chirp, err := h.chirpService.CreateChirp(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Chirp created successfully",
		"chirp":   chirp,
	})
}

func (h *ChirpHandler) GetChirp(c *gin.Context) {
	viewerID := middleware.GetUserID(c)
	chirpID := c.Param("id")

	chirp, err := h.feedService.GetChirp(c.Request.Context(), viewerID, chirpID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"chirp": chirp})
}

func (h *ChirpHandler) DeleteChirp(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.chirpService.DeleteChirp(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Chirp deleted successfully"})
}

func (h *ChirpHandler) LikeChirp(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.engagementService.Like(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Chirp liked successfully"})
}

func (h *ChirpHandler) UnlikeChirp(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.engagementService.Unlike(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Chirp unliked successfully"})
}

func (h *ChirpHandler) RechirpChirp(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.engagementService.Rechirp(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Chirp rechirped successfully"})
}

func (h *ChirpHandler) UnrechirpChirp(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.engagementService.Unrechirp(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Chirp unrechirped successfully"})
}

func (h *ChirpHandler) GetChirpLikes(c *gin.Context) {
	limit := parseLimit(c, h.feed.DefaultLimit, h.feed.MaxLimit)
	likes, err := h.engagementService.GetChirpLikes(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"likes": likes})
}
