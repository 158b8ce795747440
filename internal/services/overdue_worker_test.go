package services

import (
	"context"
	"testing"
	"time"

	"salesboard-be/internal/models"
	"salesboard-be/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSweepOverdueTagsPastDueCards(t *testing.T) {
	stores := repository.NewMemoryStores()
	ctx := context.Background()

	past := time.Now().UTC().Add(-24 * time.Hour)
	future := time.Now().UTC().Add(24 * time.Hour)

	require.NoError(t, stores.Cards.Insert(ctx, &models.Card{ID: "late", Title: "Late", ColumnID: "c", DueDate: &past}))
	require.NoError(t, stores.Cards.Insert(ctx, &models.Card{ID: "ontime", Title: "On time", ColumnID: "c", DueDate: &future}))
	require.NoError(t, stores.Cards.Insert(ctx, &models.Card{ID: "nodue", Title: "No due date", ColumnID: "c"}))

	sweepOverdue(ctx, stores.Cards, zap.NewNop())

	late, err := stores.Cards.Get(ctx, "late")
	require.NoError(t, err)
	assert.Contains(t, late.Tags, "overdue")

	ontime, err := stores.Cards.Get(ctx, "ontime")
	require.NoError(t, err)
	assert.NotContains(t, ontime.Tags, "overdue")

	nodue, err := stores.Cards.Get(ctx, "nodue")
	require.NoError(t, err)
	assert.NotContains(t, nodue.Tags, "overdue")
}

func TestSweepOverdueIsIdempotent(t *testing.T) {
	stores := repository.NewMemoryStores()
	ctx := context.Background()

	past := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, stores.Cards.Insert(ctx, &models.Card{ID: "late", Title: "Late", ColumnID: "c", DueDate: &past}))

	sweepOverdue(ctx, stores.Cards, zap.NewNop())
	sweepOverdue(ctx, stores.Cards, zap.NewNop())

	card, err := stores.Cards.Get(ctx, "late")
	require.NoError(t, err)

	count := 0
	for _, tag := range card.Tags {
		if tag == "overdue" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
