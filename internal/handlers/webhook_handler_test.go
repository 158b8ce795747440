package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"salesboard-be/config"
	"salesboard-be/internal/models"
	"salesboard-be/internal/repository"
	"salesboard-be/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type noopClassifier struct{}

func (noopClassifier) Classify(ctx context.Context, text string) (*models.Classification, error) {
	return nil, nil
}

type noopMessenger struct{}

func (noopMessenger) SendText(ctx context.Context, recipientID, text string) error {
	return nil
}

func setupWebhookRouter(t *testing.T, cfg *config.Config) (*gin.Engine, *repository.Stores) {
	t.Helper()
	stores := repository.NewMemoryStores()
	log := zap.NewNop()
	cardSvc := services.NewCardService(stores.Cards, log)
	contactSvc := services.NewContactService(stores.Contacts, stores.Columns, stores.Cards, nil, log)
	automation := services.NewAutomationService(cfg.AutomationConfidence, noopMessenger{}, stores.Intents, stores.Communications, cardSvc, log)
	inbound := services.NewInboundService(contactSvc, noopClassifier{}, stores.Communications, stores.Cards, automation, log)
	h := NewWebhookHandler(cfg, inbound, log)

	r := newTestRouter()
	r.GET("/api/messenger/verify", h.Verify)
	r.POST("/api/messenger/webhook", h.Receive)
	return r, stores
}

func TestVerifyEchoesChallenge(t *testing.T) {
	r, _ := setupWebhookRouter(t, &config.Config{MessengerVerifyToken: "verify-me"})

	w := doJSON(r, http.MethodGet, "/api/messenger/verify?hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=12345", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "12345", w.Body.String())
}

func TestVerifyRejectsWrongToken(t *testing.T) {
	r, _ := setupWebhookRouter(t, &config.Config{MessengerVerifyToken: "verify-me"})

	w := doJSON(r, http.MethodGet, "/api/messenger/verify?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestVerifyRejectsWrongMode(t *testing.T) {
	r, _ := setupWebhookRouter(t, &config.Config{MessengerVerifyToken: "verify-me"})

	w := doJSON(r, http.MethodGet, "/api/messenger/verify?hub.mode=unsubscribe&hub.verify_token=verify-me&hub.challenge=12345", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReceiveProcessesEvent(t *testing.T) {
	r, stores := setupWebhookRouter(t, &config.Config{})

	body := `{"object":"page","entry":[{"id":"p","messaging":[{"sender":{"id":"psid-1"},"message":{"mid":"m1","text":"hello"}}]}]}`
	w := doJSON(r, http.MethodPost, "/api/messenger/webhook", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "EVENT_RECEIVED", w.Body.String())

	contact, err := stores.Contacts.FindByPlatformID(context.Background(), "messenger", "psid-1")
	require.NoError(t, err)
	comms, err := stores.Communications.ListByContact(context.Background(), contact.ID, 10)
	require.NoError(t, err)
	assert.Len(t, comms, 1)
}

func TestReceiveRejectsMalformedBody(t *testing.T) {
	r, _ := setupWebhookRouter(t, &config.Config{})

	w := doJSON(r, http.MethodPost, "/api/messenger/webhook", "not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReceiveValidatesSignatureWhenSecretSet(t *testing.T) {
	cfg := &config.Config{MessengerAppSecret: "app-secret"}
	r, _ := setupWebhookRouter(t, cfg)
	body := `{"object":"page","entry":[]}`

	// Missing signature
	w := doJSON(r, http.MethodPost, "/api/messenger/webhook", body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Wrong signature
	req := httptest.NewRequest(http.MethodPost, "/api/messenger/webhook", strings.NewReader(body))
	req.Header.Set("X-Hub-Signature-256", "sha256=deadbeef")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Correct signature
	mac := hmac.New(sha256.New, []byte("app-secret"))
	mac.Write([]byte(body))
	sig := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	req = httptest.NewRequest(http.MethodPost, "/api/messenger/webhook", strings.NewReader(body))
	req.Header.Set("X-Hub-Signature-256", sig)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReceiveIgnoresSignatureWhenSecretUnset(t *testing.T) {
	r, _ := setupWebhookRouter(t, &config.Config{})

	w := doJSON(r, http.MethodPost, "/api/messenger/webhook", `{"object":"page","entry":[]}`)
	assert.Equal(t, http.StatusOK, w.Code)
}
