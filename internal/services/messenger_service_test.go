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

func newMessengerFixture(t *testing.T, handler http.HandlerFunc) (*GraphMessenger, *repository.Stores, *httptest.Server) {
	t.Helper()
	stores := repository.NewMemoryStores()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	m := &GraphMessenger{
		pageToken: "page-token",
		client:    &http.Client{Timeout: 5 * time.Second},
		baseURL:   srv.URL,
		contacts:  stores.Contacts,
		comms:     stores.Communications,
		log:       zap.NewNop(),
	}
	return m, stores, srv
}

func TestSendTextRecordsOutgoingCommunication(t *testing.T) {
	var gotBody map[string]interface{}
	m, stores, _ := newMessengerFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"recipient_id":"psid-1","message_id":"mid-out-1"}`))
	})
	ctx := context.Background()

	require.NoError(t, stores.Contacts.Insert(ctx, &models.Contact{
		ID:          "contact-1",
		Name:        "Jane",
		PlatformIDs: map[string]string{"messenger": "psid-1"},
		CardID:      "card-1",
	}))

	require.NoError(t, m.SendText(ctx, "psid-1", "Our plans start at $49/mo."))

	recipient := gotBody["recipient"].(map[string]interface{})
	assert.Equal(t, "psid-1", recipient["id"])
	message := gotBody["message"].(map[string]interface{})
	assert.Equal(t, "Our plans start at $49/mo.", message["text"])

	comms, err := stores.Communications.ListByContact(ctx, "contact-1", 10)
	require.NoError(t, err)
	require.Len(t, comms, 1)
	assert.Equal(t, models.DirectionOutgoing, comms[0].Direction)
	assert.True(t, comms[0].AutomatedResponse)
	assert.Equal(t, "mid-out-1", comms[0].PlatformMessageID)
	assert.Equal(t, "card-1", comms[0].CardID)
}

func TestSendTextRecordsEvenWithoutKnownContact(t *testing.T) {
	m, stores, _ := newMessengerFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"recipient_id":"psid-x","message_id":"mid-2"}`))
	})
	ctx := context.Background()

	require.NoError(t, m.SendText(ctx, "psid-x", "hello"))

	comms, err := stores.Communications.List(ctx, models.CommunicationFilter{Channel: "messenger"})
	require.NoError(t, err)
	require.Len(t, comms, 1)
	assert.Empty(t, comms[0].ContactID)
}

func TestSendTextAPIErrorReturnsError(t *testing.T) {
	m, stores, _ := newMessengerFixture(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid token"}}`, http.StatusBadRequest)
	})
	ctx := context.Background()

	err := m.SendText(ctx, "psid-1", "hello")
	require.Error(t, err)

	comms, err2 := stores.Communications.List(ctx, models.CommunicationFilter{})
	require.NoError(t, err2)
	assert.Empty(t, comms)
}

func TestFetchProfileReturnsNameFields(t *testing.T) {
	m, _, _ := newMessengerFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/psid-1", r.URL.Path)
		assert.Equal(t, "first_name,last_name,profile_pic", r.URL.Query().Get("fields"))
		assert.Equal(t, "page-token", r.URL.Query().Get("access_token"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"first_name":"Jane","last_name":"Doe","id":"psid-1"}`))
	})

	profile, err := m.FetchProfile(context.Background(), "psid-1")
	require.NoError(t, err)
	assert.Equal(t, "Jane", profile["first_name"])
	assert.Equal(t, "Doe", profile["last_name"])
}

func TestFetchProfileAPIErrorReturnsError(t *testing.T) {
	m, _, _ := newMessengerFixture(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid token"}}`, http.StatusBadRequest)
	})

	_, err := m.FetchProfile(context.Background(), "psid-1")
	assert.Error(t, err)
}

func TestFetchProfileWithoutPageToken(t *testing.T) {
	m, _, _ := newMessengerFixture(t, func(w http.ResponseWriter, r *http.Request) {})
	m.pageToken = ""

	_, err := m.FetchProfile(context.Background(), "psid-1")
	assert.Error(t, err)
}

func TestSendTextWithoutPageToken(t *testing.T) {
	m, _, _ := newMessengerFixture(t, func(w http.ResponseWriter, r *http.Request) {})
	m.pageToken = ""

	err := m.SendText(context.Background(), "psid-1", "hello")
	assert.Error(t, err)
}
