package services

import (
	"context"
	"testing"

	"salesboard-be/internal/models"
	"salesboard-be/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubProfileFetcher struct {
	profile map[string]interface{}
	err     error
	calls   int
}

func (s *stubProfileFetcher) FetchProfile(ctx context.Context, externalID string) (map[string]interface{}, error) {
	s.calls++
	return s.profile, s.err
}

func newContactFixture(t *testing.T) (*ContactService, *repository.Stores) {
	t.Helper()
	stores := repository.NewMemoryStores()
	return NewContactService(stores.Contacts, stores.Columns, stores.Cards, nil, zap.NewNop()), stores
}

func seedIntakeColumn(t *testing.T, stores *repository.Stores) *models.Column {
	t.Helper()
	col := &models.Column{ID: "col-intake", Title: "Prospects", Position: 0, BoardID: "board-1"}
	require.NoError(t, stores.Columns.Insert(context.Background(), col))
	require.NoError(t, stores.Columns.Insert(context.Background(), &models.Column{
		ID: "col-later", Title: "Contact Made", Position: 1, BoardID: "board-1",
	}))
	return col
}

func TestResolveCreatesContactAndIntakeCard(t *testing.T) {
	svc, stores := newContactFixture(t)
	seedIntakeColumn(t, stores)
	ctx := context.Background()

	contact, err := svc.Resolve(ctx, "messenger", "psid-1", map[string]interface{}{
		"name":  "Jane Doe",
		"email": "jane@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", contact.Name)
	assert.Equal(t, "psid-1", contact.PlatformIDs["messenger"])
	require.NotEmpty(t, contact.CardID)

	card, err := stores.Cards.Get(ctx, contact.CardID)
	require.NoError(t, err)
	assert.Equal(t, "col-intake", card.ColumnID)
	assert.Equal(t, "Jane Doe", card.Title)
	assert.Contains(t, card.Tags, "source_messenger")
	assert.Contains(t, card.Tags, "auto_created")
	assert.Equal(t, "messenger", card.PreferredChannel)
	assert.Equal(t, "psid-1", card.ExternalIDs["messenger"])

	stored, err := stores.Contacts.Get(ctx, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, card.ID, stored.CardID)
}

func TestResolveReturnsExistingContact(t *testing.T) {
	svc, stores := newContactFixture(t)
	seedIntakeColumn(t, stores)
	ctx := context.Background()

	first, err := svc.Resolve(ctx, "messenger", "psid-1", map[string]interface{}{"name": "Jane"})
	require.NoError(t, err)

	second, err := svc.Resolve(ctx, "messenger", "psid-1", nil)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.FirstSeen, second.FirstSeen)
	assert.False(t, second.LastSeen.Before(first.LastSeen))

	contacts, err := stores.Contacts.List(ctx)
	require.NoError(t, err)
	assert.Len(t, contacts, 1)
}

func TestResolveWithoutNameSkipsCardCreation(t *testing.T) {
	svc, stores := newContactFixture(t)
	seedIntakeColumn(t, stores)
	ctx := context.Background()

	contact, err := svc.Resolve(ctx, "messenger", "psid-2", nil)
	require.NoError(t, err)
	assert.Empty(t, contact.CardID)

	cards, err := stores.Cards.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestResolveSurvivesMissingIntakeColumn(t *testing.T) {
	svc, stores := newContactFixture(t)
	ctx := context.Background()

	contact, err := svc.Resolve(ctx, "messenger", "psid-3", map[string]interface{}{"name": "Jane"})
	require.NoError(t, err)
	assert.Empty(t, contact.CardID)

	cards, err := stores.Cards.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestResolveFetchesProfileOnFirstContact(t *testing.T) {
	stores := repository.NewMemoryStores()
	fetcher := &stubProfileFetcher{profile: map[string]interface{}{
		"first_name": "Jane",
		"last_name":  "Doe",
	}}
	svc := NewContactService(stores.Contacts, stores.Columns, stores.Cards, fetcher, zap.NewNop())
	seedIntakeColumn(t, stores)
	ctx := context.Background()

	contact, err := svc.Resolve(ctx, "messenger", "psid-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", contact.Name)
	require.NotEmpty(t, contact.CardID)
	assert.Equal(t, 1, fetcher.calls)

	card, err := stores.Cards.Get(ctx, contact.CardID)
	require.NoError(t, err)
	assert.Equal(t, "col-intake", card.ColumnID)

	// Known contacts never trigger another fetch
	_, err = svc.Resolve(ctx, "messenger", "psid-1", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)
}

func TestResolveSurvivesProfileFetchFailure(t *testing.T) {
	stores := repository.NewMemoryStores()
	fetcher := &stubProfileFetcher{err: assert.AnError}
	svc := NewContactService(stores.Contacts, stores.Columns, stores.Cards, fetcher, zap.NewNop())
	seedIntakeColumn(t, stores)

	contact, err := svc.Resolve(context.Background(), "messenger", "psid-1", nil)
	require.NoError(t, err)
	assert.Empty(t, contact.Name)
	assert.Empty(t, contact.CardID)
}

func TestResolveBuildsNameFromParts(t *testing.T) {
	svc, stores := newContactFixture(t)
	seedIntakeColumn(t, stores)

	contact, err := svc.Resolve(context.Background(), "messenger", "psid-4", map[string]interface{}{
		"first_name": "John",
		"last_name":  "Smith",
	})
	require.NoError(t, err)
	assert.Equal(t, "John Smith", contact.Name)
	assert.NotEmpty(t, contact.CardID)
}
