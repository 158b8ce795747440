package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"salesboard-be/internal/models"
	"salesboard-be/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupIntentRouter(t *testing.T) (*gin.Engine, *repository.Stores) {
	t.Helper()
	stores := repository.NewMemoryStores()
	h := NewIntentHandler(stores.Intents, zap.NewNop())

	r := newTestRouter()
	r.GET("/api/intents", h.GetIntents)
	r.POST("/api/intents", h.CreateIntent)
	return r, stores
}

func TestCreateIntentDefaultsThreshold(t *testing.T) {
	r, _ := setupIntentRouter(t)

	w := doJSON(r, http.MethodPost, "/api/intents", `{"name":"pricing_inquiry","keywords":["price","cost"]}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var intent models.Intent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &intent))
	assert.InDelta(t, 0.7, intent.ConfidenceThreshold, 1e-9)
	assert.NotEmpty(t, intent.ID)
}

func TestCreateIntentRejectsOutOfRangeThreshold(t *testing.T) {
	r, _ := setupIntentRouter(t)

	w := doJSON(r, http.MethodPost, "/api/intents", `{"name":"x","confidence_threshold":1.5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/intents", `{"name":"x","confidence_threshold":-0.1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateIntentRequiresName(t *testing.T) {
	r, _ := setupIntentRouter(t)

	w := doJSON(r, http.MethodPost, "/api/intents", `{"keywords":["price"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetIntentsReturnsCreated(t *testing.T) {
	r, _ := setupIntentRouter(t)

	w := doJSON(r, http.MethodPost, "/api/intents", `{"name":"demo_request","target_column_id":"col-2"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodGet, "/api/intents", "")
	require.Equal(t, http.StatusOK, w.Code)

	var intents []models.Intent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &intents))
	require.Len(t, intents, 1)
	assert.Equal(t, "demo_request", intents[0].Name)
	assert.Equal(t, "col-2", intents[0].TargetColumnID)
}
