package handlers

import (
	"net/http"

	"salesboard-be/internal/models"
	"salesboard-be/internal/repository"
	"salesboard-be/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CardHandler struct {
	cards   repository.CardStore
	service *services.CardService
	log     *zap.Logger
}

func NewCardHandler(cards repository.CardStore, service *services.CardService, log *zap.Logger) *CardHandler {
	return &CardHandler{cards: cards, service: service, log: log}
}

// CreateCard godoc
// @Summary Create a card at the end of its column
// @Tags cards
// @Accept json
// @Produce json
// @Param card body models.CreateCardRequest true "Card"
// @Success 201 {object} models.Card
// @Router /api/cards [post]
func (h *CardHandler) CreateCard(c *gin.Context) {
	var req models.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	card, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.log.Error("failed to create card", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to create card",
		})
		return
	}

	c.JSON(http.StatusCreated, card)
}

// GetCards godoc
// @Summary List cards, optionally filtered by column
// @Tags cards
// @Produce json
// @Param column_id query string false "Column ID"
// @Success 200 {array} models.Card
// @Router /api/cards [get]
func (h *CardHandler) GetCards(c *gin.Context) {
	var (
		cards []*models.Card
		err   error
	)
	if columnID := c.Query("column_id"); columnID != "" {
		cards, err = h.cards.ListByColumn(c.Request.Context(), columnID)
	} else {
		cards, err = h.cards.List(c.Request.Context())
	}
	if err != nil {
		h.log.Error("failed to list cards", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to list cards",
		})
		return
	}
	c.JSON(http.StatusOK, cards)
}

// UpdateCard godoc
// @Summary Patch card fields
// @Tags cards
// @Accept json
// @Produce json
// @Param card_id path string true "Card ID"
// @Param card body models.UpdateCardRequest true "Fields to update"
// @Success 200 {object} models.Card
// @Failure 404 {object} models.ErrorResponse
// @Router /api/cards/{card_id} [put]
func (h *CardHandler) UpdateCard(c *gin.Context) {
	var req models.UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	card, err := h.cards.Get(c.Request.Context(), c.Param("card_id"))
	if err == repository.ErrNotFound {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "Card not found",
		})
		return
	}
	if err != nil {
		h.log.Error("failed to load card", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to update card",
		})
		return
	}

	if !applyCardPatch(card, req) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "No valid fields to update",
		})
		return
	}

	if err := h.cards.Replace(c.Request.Context(), card); err != nil {
		h.log.Error("failed to update card", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to update card",
		})
		return
	}

	c.JSON(http.StatusOK, card)
}

func applyCardPatch(card *models.Card, req models.UpdateCardRequest) bool {
	changed := false
	if req.Title != nil {
		card.Title = *req.Title
		changed = true
	}
	if req.Description != nil {
		card.Description = *req.Description
		changed = true
	}
	if req.ContactName != nil {
		card.ContactName = *req.ContactName
		changed = true
	}
	if req.ContactEmail != nil {
		card.ContactEmail = *req.ContactEmail
		changed = true
	}
	if req.ContactPhone != nil {
		card.ContactPhone = *req.ContactPhone
		changed = true
	}
	if req.EstimatedValue != nil {
		card.EstimatedValue = *req.EstimatedValue
		changed = true
	}
	if req.Priority != nil {
		card.Priority = *req.Priority
		changed = true
	}
	if req.AssignedTo != nil {
		card.AssignedTo = *req.AssignedTo
		changed = true
	}
	if req.Tags != nil {
		card.Tags = *req.Tags
		changed = true
	}
	if req.DueDate != nil {
		card.DueDate = req.DueDate
		changed = true
	}
	if req.ColumnID != nil {
		card.ColumnID = *req.ColumnID
		changed = true
	}
	if req.Position != nil {
		card.Position = *req.Position
		changed = true
	}
	return changed
}

// DeleteCard godoc
// @Summary Delete a card
// @Tags cards
// @Produce json
// @Param card_id path string true "Card ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} models.ErrorResponse
// @Router /api/cards/{card_id} [delete]
func (h *CardHandler) DeleteCard(c *gin.Context) {
	err := h.cards.Delete(c.Request.Context(), c.Param("card_id"))
	if err == repository.ErrNotFound {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "Card not found",
		})
		return
	}
	if err != nil {
		h.log.Error("failed to delete card", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to delete card",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Card deleted successfully"})
}

// MoveCard godoc
// @Summary Move a card to a column position
// @Tags cards
// @Accept json
// @Produce json
// @Param move body models.MoveCardRequest true "Move"
// @Success 200 {object} map[string]string
// @Failure 404 {object} models.ErrorResponse
// @Router /api/cards/move [post]
func (h *CardHandler) MoveCard(c *gin.Context) {
	var req models.MoveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	err := h.service.Move(c.Request.Context(), req.CardID, req.DestinationColumnID, req.Position)
	if err == repository.ErrNotFound {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "Card not found",
		})
		return
	}
	if err != nil {
		h.log.Error("failed to move card",
			zap.String("card_id", req.CardID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to move card",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Card moved successfully"})
}
