package handlers

import (
	"net/http"
	"strconv"

	"salesboard-be/internal/models"
	"salesboard-be/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultCommunicationLimit = 50
	maxCommunicationLimit     = 200
)

type ContactHandler struct {
	contacts repository.ContactStore
	comms    repository.CommunicationStore
	log      *zap.Logger
}

func NewContactHandler(contacts repository.ContactStore, comms repository.CommunicationStore, log *zap.Logger) *ContactHandler {
	return &ContactHandler{contacts: contacts, comms: comms, log: log}
}

// GetContacts godoc
// @Summary List all contacts
// @Tags contacts
// @Produce json
// @Success 200 {array} models.Contact
// @Router /api/contacts [get]
func (h *ContactHandler) GetContacts(c *gin.Context) {
	contacts, err := h.contacts.List(c.Request.Context())
	if err != nil {
		h.log.Error("failed to list contacts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to list contacts",
		})
		return
	}
	c.JSON(http.StatusOK, contacts)
}

// GetContactCommunications godoc
// @Summary Communication history for one contact, newest first
// @Tags contacts
// @Produce json
// @Param contact_id path string true "Contact ID"
// @Param limit query int false "Max results (default 50, cap 200)"
// @Success 200 {array} models.Communication
// @Failure 404 {object} models.ErrorResponse
// @Router /api/contacts/{contact_id}/communications [get]
func (h *ContactHandler) GetContactCommunications(c *gin.Context) {
	contactID := c.Param("contact_id")

	if _, err := h.contacts.Get(c.Request.Context(), contactID); err != nil {
		if err == repository.ErrNotFound {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "not_found",
				Message: "Contact not found",
			})
			return
		}
		h.log.Error("failed to load contact", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to list communications",
		})
		return
	}

	comms, err := h.comms.ListByContact(c.Request.Context(), contactID, parseLimit(c))
	if err != nil {
		h.log.Error("failed to list communications",
			zap.String("contact_id", contactID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to list communications",
		})
		return
	}
	c.JSON(http.StatusOK, comms)
}

// GetCommunications godoc
// @Summary List communications across all contacts, newest first
// @Tags communications
// @Produce json
// @Param channel query string false "Filter by channel"
// @Param contact_id query string false "Filter by contact"
// @Param limit query int false "Max results (default 50, cap 200)"
// @Success 200 {array} models.Communication
// @Router /api/communications [get]
func (h *ContactHandler) GetCommunications(c *gin.Context) {
	filter := models.CommunicationFilter{
		Channel:   c.Query("channel"),
		ContactID: c.Query("contact_id"),
		Limit:     parseLimit(c),
	}

	comms, err := h.comms.List(c.Request.Context(), filter)
	if err != nil {
		h.log.Error("failed to list communications", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to list communications",
		})
		return
	}
	c.JSON(http.StatusOK, comms)
}

func parseLimit(c *gin.Context) int {
	limit := defaultCommunicationLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxCommunicationLimit {
		limit = maxCommunicationLimit
	}
	return limit
}
