package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chirper-social/chirper/internal/config"
	"github.com/chirper-social/chirper/internal/middleware"
	"github.com/chirper-social/chirper/internal/services"
)

type FeedHandler struct {
	feedService *services.FeedService
	feed        *config.FeedConfig
}

func NewFeedHandler(feedService *services.FeedService, feed *config.FeedConfig) *FeedHandler {
	return &FeedHandler{feedService: feedService, feed: feed}
}

func (h *FeedHandler) GetTimeline(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	limit := parseLimit(c, h.feed.DefaultLimit, h.feed.MaxLimit)
	chirps, err := h.feedService.GetTimeline(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"chirps": chirps})
}

func (h *FeedHandler) GetExplore(c *gin.Context) {
	viewerID := middleware.GetUserID(c)
	limit := parseLimit(c, h.feed.DefaultLimit, h.feed.MaxLimit)

	chirps, err := h.feedService.GetExplore(c.Request.Context(), viewerID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"chirps": chirps})
}

func (h *FeedHandler) GetReplies(c *gin.Context) {
	viewerID := middleware.GetUserID(c)

	replies, err := h.feedService.GetReplies(c.Request.Context(), viewerID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"replies": replies})
}

func (h *FeedHandler) Search(c *gin.Context) {
	viewerID := middleware.GetUserID(c)
	query := c.Query("q")
	limit := parseLimit(c, h.feed.DefaultLimit, h.feed.MaxLimit)

	chirps, err := h.feedService.Search(c.Request.Context(), viewerID, query, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"chirps": chirps,
		"query":  query,
	})
}

func (h *FeedHandler) GetUserChirps(c *gin.Context) {
	viewerID := middleware.GetUserID(c)
	limit := parseLimit(c, h.feed.DefaultLimit, h.feed.MaxLimit)

	chirps, err := h.feedService.GetUserChirps(c.Request.Context(), viewerID, c.Param("username"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"chirps": chirps})
}
