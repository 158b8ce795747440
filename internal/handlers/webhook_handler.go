package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"salesboard-be/config"
	"salesboard-be/internal/models"
	"salesboard-be/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookHandler implements the Messenger platform webhook: the GET
// verification handshake and the POST event receiver.
type WebhookHandler struct {
	verifyToken string
	appSecret   string
	inbound     *services.InboundService
	log         *zap.Logger
}

func NewWebhookHandler(cfg *config.Config, inbound *services.InboundService, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		verifyToken: cfg.MessengerVerifyToken,
		appSecret:   cfg.MessengerAppSecret,
		inbound:     inbound,
		log:         log,
	}
}

// Verify godoc
// @Summary Messenger webhook verification handshake
// @Tags webhook
// @Produce plain
// @Param hub.mode query string true "Must be subscribe"
// @Param hub.verify_token query string true "Verify token"
// @Param hub.challenge query string true "Challenge to echo"
// @Success 200 {string} string
// @Failure 403 {string} string
// @Router /api/messenger/verify [get]
func (h *WebhookHandler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token != "" && token == h.verifyToken {
		c.String(http.StatusOK, challenge)
		return
	}
	c.String(http.StatusForbidden, "Forbidden")
}

// Receive godoc
// @Summary Receive Messenger platform events
// @Tags webhook
// @Accept json
// @Produce plain
// @Success 200 {string} string
// @Failure 400 {string} string
// @Failure 403 {string} string
// @Router /api/messenger/webhook [post]
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusBadRequest, "Bad Request")
		return
	}

	if h.appSecret != "" && !h.validSignature(body, c.GetHeader("X-Hub-Signature-256")) {
		h.log.Warn("webhook signature mismatch")
		c.String(http.StatusForbidden, "Forbidden")
		return
	}

	var event models.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.String(http.StatusBadRequest, "Bad Request")
		return
	}

	if err := h.inbound.ProcessEvent(c.Request.Context(), &event); err != nil {
		h.log.Error("webhook event processing failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "ERROR")
		return
	}

	c.String(http.StatusOK, "EVENT_RECEIVED")
}

func (h *WebhookHandler) validSignature(body []byte, header string) bool {
	sig := strings.TrimPrefix(header, "sha256=")
	if sig == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.appSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(sig), []byte(expected))
}
