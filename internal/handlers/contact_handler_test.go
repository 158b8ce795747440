package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"salesboard-be/internal/models"
	"salesboard-be/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupContactRouter(t *testing.T) (*gin.Engine, *repository.Stores) {
	t.Helper()
	stores := repository.NewMemoryStores()
	h := NewContactHandler(stores.Contacts, stores.Communications, zap.NewNop())

	r := newTestRouter()
	r.GET("/api/contacts", h.GetContacts)
	r.GET("/api/contacts/:contact_id/communications", h.GetContactCommunications)
	r.GET("/api/communications", h.GetCommunications)
	return r, stores
}

func seedCommunications(t *testing.T, stores *repository.Stores, contactID string, n int) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, stores.Contacts.Insert(ctx, &models.Contact{
		ID:          contactID,
		Name:        "Jane",
		PlatformIDs: map[string]string{"messenger": "psid-" + contactID},
	}))
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < n; i++ {
		require.NoError(t, stores.Communications.Insert(ctx, &models.Communication{
			ID:        fmt.Sprintf("%s-comm-%d", contactID, i),
			ContactID: contactID,
			Channel:   "messenger",
			Direction: models.DirectionIncoming,
			Content:   fmt.Sprintf("message %d", i),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}
}

func TestGetContactCommunicationsNewestFirst(t *testing.T) {
	r, stores := setupContactRouter(t)
	seedCommunications(t, stores, "contact-1", 3)

	w := doJSON(r, http.MethodGet, "/api/contacts/contact-1/communications", "")
	require.Equal(t, http.StatusOK, w.Code)

	var comms []models.Communication
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comms))
	require.Len(t, comms, 3)
	assert.Equal(t, "message 2", comms[0].Content)
	assert.Equal(t, "message 0", comms[2].Content)
}

func TestGetContactCommunicationsUnknownContact(t *testing.T) {
	r, _ := setupContactRouter(t)

	w := doJSON(r, http.MethodGet, "/api/contacts/missing/communications", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCommunicationsAppliesLimit(t *testing.T) {
	r, stores := setupContactRouter(t)
	seedCommunications(t, stores, "contact-1", 10)

	w := doJSON(r, http.MethodGet, "/api/communications?limit=4", "")
	require.Equal(t, http.StatusOK, w.Code)

	var comms []models.Communication
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comms))
	assert.Len(t, comms, 4)
}

func TestGetCommunicationsCapsLimit(t *testing.T) {
	r, stores := setupContactRouter(t)
	seedCommunications(t, stores, "contact-1", 2)

	w := doJSON(r, http.MethodGet, "/api/communications?limit=100000", "")
	require.Equal(t, http.StatusOK, w.Code)

	var comms []models.Communication
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comms))
	assert.Len(t, comms, 2)
}

func TestGetCommunicationsFiltersByChannelAndContact(t *testing.T) {
	r, stores := setupContactRouter(t)
	seedCommunications(t, stores, "contact-1", 2)
	seedCommunications(t, stores, "contact-2", 2)

	w := doJSON(r, http.MethodGet, "/api/communications?contact_id=contact-2", "")
	require.Equal(t, http.StatusOK, w.Code)

	var comms []models.Communication
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comms))
	require.Len(t, comms, 2)
	for _, comm := range comms {
		assert.Equal(t, "contact-2", comm.ContactID)
	}

	w = doJSON(r, http.MethodGet, "/api/communications?channel=email", "")
	require.Equal(t, http.StatusOK, w.Code)
	comms = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comms))
	assert.Empty(t, comms)
}

func TestGetContactsListsAll(t *testing.T) {
	r, stores := setupContactRouter(t)
	seedCommunications(t, stores, "contact-1", 1)

	w := doJSON(r, http.MethodGet, "/api/contacts", "")
	require.Equal(t, http.StatusOK, w.Code)

	var contacts []models.Contact
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &contacts))
	require.Len(t, contacts, 1)
	assert.Equal(t, "Jane", contacts[0].Name)
}
