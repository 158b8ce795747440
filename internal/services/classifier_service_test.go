package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"salesboard-be/internal/models"
	"salesboard-be/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newClassifierFixture(t *testing.T) (*IntentClassifier, *repository.Stores) {
	t.Helper()
	stores := repository.NewMemoryStores()
	cls := &IntentClassifier{
		intents:  stores.Intents,
		provider: "gemini",
		client:   &http.Client{Timeout: 5 * time.Second},
		log:      zap.NewNop(),
	}
	return cls, stores
}

func geminiResponse(text string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"parts": []map[string]string{{"text": text}},
				},
			},
		},
	})
	return string(body)
}

func TestClassifyParsesModelOutput(t *testing.T) {
	cls, _ := newClassifierFixture(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(geminiResponse(`{"intent":"pricing_inquiry","confidence":0.92,"summary":"Asking about cost","suggested_response":"Our plans start at $49/mo.","urgency":"medium","next_action":"send_proposal"}`)))
	}))
	defer srv.Close()

	cls.apiKey = "test-key"
	cls.geminiBaseURL = srv.URL

	got, err := cls.Classify(context.Background(), "How much does it cost?")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "pricing_inquiry", got.Intent)
	assert.InDelta(t, 0.92, got.Confidence, 1e-9)
	assert.Equal(t, "send_proposal", got.NextAction)
}

func TestClassifyStripsMarkdownFences(t *testing.T) {
	cls, _ := newClassifierFixture(t)

	fenced := "```json\n{\"intent\":\"interested\",\"confidence\":0.8,\"summary\":\"s\",\"suggested_response\":\"r\",\"urgency\":\"low\",\"next_action\":\"follow_up\"}\n```"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(geminiResponse(fenced)))
	}))
	defer srv.Close()

	cls.apiKey = "test-key"
	cls.geminiBaseURL = srv.URL

	got, err := cls.Classify(context.Background(), "Sounds great, tell me more")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "interested", got.Intent)
}

func TestClassifyFallsBackOnUnparseableOutput(t *testing.T) {
	cls, stores := newClassifierFixture(t)
	seedPricingIntent(t, stores)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(geminiResponse("I think the customer wants pricing information.")))
	}))
	defer srv.Close()

	cls.apiKey = "test-key"
	cls.geminiBaseURL = srv.URL

	got, err := cls.Classify(context.Background(), "what is the price of the premium plan")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "pricing_inquiry", got.Intent)
}

func TestClassifyFallsBackOnServerError(t *testing.T) {
	cls, stores := newClassifierFixture(t)
	seedPricingIntent(t, stores)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	cls.apiKey = "test-key"
	cls.geminiBaseURL = srv.URL

	got, err := cls.Classify(context.Background(), "how much does the price plan cost")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "pricing_inquiry", got.Intent)
}

func TestKeywordFallbackScoresByKeywordShare(t *testing.T) {
	cls, stores := newClassifierFixture(t)
	seedPricingIntent(t, stores)

	got, err := cls.Classify(context.Background(), "what is the price")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "pricing_inquiry", got.Intent)
	assert.InDelta(t, 0.5, got.Confidence, 1e-9)
	assert.Equal(t, "Our pricing page has the details.", got.SuggestedResponse)
}

func TestKeywordFallbackFoldsAccents(t *testing.T) {
	cls, stores := newClassifierFixture(t)
	require.NoError(t, stores.Intents.Insert(context.Background(), &models.Intent{
		ID:       "intent-2",
		Name:     "demo_request",
		Keywords: []string{"démo"},
	}))

	got, err := cls.Classify(context.Background(), "can I get a demo next week")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "demo_request", got.Intent)
}

func TestKeywordFallbackNoMatchReturnsNil(t *testing.T) {
	cls, stores := newClassifierFixture(t)
	seedPricingIntent(t, stores)

	got, err := cls.Classify(context.Background(), "thanks, talk soon")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClassifyEmptyTextReturnsNil(t *testing.T) {
	cls, _ := newClassifierFixture(t)

	got, err := cls.Classify(context.Background(), "   ")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func seedPricingIntent(t *testing.T, stores *repository.Stores) {
	t.Helper()
	require.NoError(t, stores.Intents.Insert(context.Background(), &models.Intent{
		ID:                        "intent-1",
		Name:                      "pricing_inquiry",
		Keywords:                  []string{"price", "quotation"},
		ConfidenceThreshold:       0.7,
		AutomatedResponseTemplate: "Our pricing page has the details.",
	}))
}
