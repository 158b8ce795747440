package handlers

import (
	"net/http"

	"salesboard-be/internal/models"
	"salesboard-be/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	columns repository.ColumnStore
	cards   repository.CardStore
	log     *zap.Logger
}

func NewAnalyticsHandler(columns repository.ColumnStore, cards repository.CardStore, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{columns: columns, cards: cards, log: log}
}

// GetPipelineAnalytics godoc
// @Summary Pipeline value and card counts per column
// @Tags analytics
// @Produce json
// @Success 200 {object} models.PipelineAnalytics
// @Router /api/analytics/pipeline [get]
func (h *AnalyticsHandler) GetPipelineAnalytics(c *gin.Context) {
	ctx := c.Request.Context()

	columns, err := h.columns.List(ctx)
	if err != nil {
		h.log.Error("failed to list columns", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to compute analytics",
		})
		return
	}

	cards, err := h.cards.List(ctx)
	if err != nil {
		h.log.Error("failed to list cards", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to compute analytics",
		})
		return
	}

	stats := make(map[string]models.ColumnStats, len(columns))
	for _, col := range columns {
		stats[col.ID] = models.ColumnStats{Title: col.Title}
	}

	var totalValue float64
	for _, card := range cards {
		totalValue += card.EstimatedValue
		if s, ok := stats[card.ColumnID]; ok {
			s.Count++
			s.TotalValue += card.EstimatedValue
			stats[card.ColumnID] = s
		}
	}

	c.JSON(http.StatusOK, models.PipelineAnalytics{
		ColumnStats:        stats,
		TotalCards:         len(cards),
		TotalPipelineValue: totalValue,
		Columns:            columns,
	})
}
