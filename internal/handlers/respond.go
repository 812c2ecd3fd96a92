package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chirper-social/chirper/internal/models"
)

// respondError maps the domain error taxonomy to HTTP statuses in one
// place. Anything outside the taxonomy is an infrastructure failure and
// surfaces as an opaque 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrChirpNotFound),
		errors.Is(err, models.ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, models.ErrNotChirpOwner),
		errors.Is(err, models.ErrNotNotificationOwner),
		errors.Is(err, models.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

	case errors.Is(err, models.ErrEmptyContent),
		errors.Is(err, models.ErrContentTooLong),
		errors.Is(err, models.ErrParentNotFound),
		errors.Is(err, models.ErrEmptySearchQuery),
		errors.Is(err, models.ErrCannotFollowSelf),
		errors.Is(err, models.ErrAlreadyFollowing),
		errors.Is(err, models.ErrNotFollowing),
		errors.Is(err, models.ErrAlreadyLiked),
		errors.Is(err, models.ErrNotLiked),
		errors.Is(err, models.ErrAlreadyRechirped),
		errors.Is(err, models.ErrNotRechirped),
		errors.Is(err, models.ErrUsernameExists),
		errors.Is(err, models.ErrEmailExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func parseLimit(c *gin.Context, fallback, max int) int {
	raw := c.Query("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return fallback
	}
	if limit > max {
		limit = max
	}
	return limit
}
