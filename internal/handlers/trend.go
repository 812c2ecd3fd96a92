package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chirper-social/chirper/internal/services"
)

type TrendHandler struct {
	trendService *services.TrendService
}

func NewTrendHandler(trendService *services.TrendService) *TrendHandler {
	return &TrendHandler{trendService: trendService}
}

func (h *TrendHandler) GetTrends(c *gin.Context) {
	trends, err := h.trendService.GetTrends(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trends": trends})
}
