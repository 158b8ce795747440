package handlers

import (
	"net/http"
	"time"

	"salesboard-be/internal/models"
	"salesboard-be/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultConfidenceThreshold = 0.7

type IntentHandler struct {
	intents repository.IntentStore
	log     *zap.Logger
}

func NewIntentHandler(intents repository.IntentStore, log *zap.Logger) *IntentHandler {
	return &IntentHandler{intents: intents, log: log}
}

// GetIntents godoc
// @Summary List configured intents
// @Tags intents
// @Produce json
// @Success 200 {array} models.Intent
// @Router /api/intents [get]
func (h *IntentHandler) GetIntents(c *gin.Context) {
	intents, err := h.intents.List(c.Request.Context())
	if err != nil {
		h.log.Error("failed to list intents", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to list intents",
		})
		return
	}
	c.JSON(http.StatusOK, intents)
}

// CreateIntent godoc
// @Summary Create an intent configuration
// @Tags intents
// @Accept json
// @Produce json
// @Param intent body models.CreateIntentRequest true "Intent"
// @Success 201 {object} models.Intent
// @Router /api/intents [post]
func (h *IntentHandler) CreateIntent(c *gin.Context) {
	var req models.CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	threshold := defaultConfidenceThreshold
	if req.ConfidenceThreshold != nil {
		if *req.ConfidenceThreshold < 0 || *req.ConfidenceThreshold > 1 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "invalid_request",
				Message: "confidence_threshold must be between 0 and 1",
			})
			return
		}
		threshold = *req.ConfidenceThreshold
	}

	keywords := req.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	intent := &models.Intent{
		ID:                        uuid.NewString(),
		Name:                      req.Name,
		Description:               req.Description,
		Keywords:                  keywords,
		ConfidenceThreshold:       threshold,
		AutomatedResponseTemplate: req.AutomatedResponseTemplate,
		TargetColumnID:            req.TargetColumnID,
		CreatedAt:                 time.Now().UTC(),
	}

	if err := h.intents.Insert(c.Request.Context(), intent); err != nil {
		h.log.Error("failed to create intent", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to create intent",
		})
		return
	}

	c.JSON(http.StatusCreated, intent)
}
