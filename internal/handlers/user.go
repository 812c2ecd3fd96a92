package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chirper-social/chirper/internal/config"
	"github.com/chirper-social/chirper/internal/middleware"
	"github.com/chirper-social/chirper/internal/services"
)

type UserHandler struct {
	userService *services.UserService
	jwtSecret   string
	jwtTTL      time.Duration
	feed        *config.FeedConfig
}

func NewUserHandler(userService *services.UserService, jwtSecret string, jwtTTL time.Duration, feed *config.FeedConfig) *UserHandler {
	return &UserHandler{
		userService: userService,
		jwtSecret:   jwtSecret,
		jwtTTL:      jwtTTL,
		feed:        feed,
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user,
	})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := middleware.GenerateToken(user.ID.String(), user.Username, h.jwtSecret, h.jwtTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username is required"})
		return
	}

	viewerID := middleware.GetUserID(c)
	profile, err := h.userService.GetProfile(c.Request.Context(), username, viewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

type FollowRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func (h *UserHandler) Follow(c *gin.Context) {
	actorID := middleware.GetUserID(c)
	if actorID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req FollowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.Follow(c.Request.Context(), actorID, req.UserID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Followed successfully"})
}

func (h *UserHandler) Unfollow(c *gin.Context) {
	actorID := middleware.GetUserID(c)
	if actorID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	targetID := c.Param("id")
	if targetID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Target user ID is required"})
		return
	}

	if err := h.userService.Unfollow(c.Request.Context(), actorID, targetID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unfollowed successfully"})
}

func (h *UserHandler) Suggestions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	limit := parseLimit(c, h.feed.SuggestionLimit, h.feed.MaxLimit)
	users, err := h.userService.Suggestions(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *UserHandler) GetFollowers(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username is required"})
		return
	}

	limit := parseLimit(c, h.feed.DefaultLimit, h.feed.MaxLimit)
	followers, err := h.userService.GetFollowers(c.Request.Context(), username, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"followers": followers})
}

func (h *UserHandler) GetFollowing(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username is required"})
		return
	}

	limit := parseLimit(c, h.feed.DefaultLimit, h.feed.MaxLimit)
	following, err := h.userService.GetFollowing(c.Request.Context(), username, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": following})
}

func (h *UserHandler) SearchUsers(c *gin.Context) {
	query := c.Query("q")
	limit := parseLimit(c, h.feed.DefaultLimit, h.feed.MaxLimit)

	users, err := h.userService.SearchUsers(c.Request.Context(), query, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"query": query,
	})
}
