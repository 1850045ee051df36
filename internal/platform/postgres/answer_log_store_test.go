package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/platform/postgres"
	"github.com/phrazzld/scry-srs/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresAnswerLogStore_CreateMultiple(t *testing.T) {
	t.Parallel()

	t.Run("inserts every entry through one statement", func(t *testing.T) {
		db, mock := newMock(t)
		logStore := postgres.NewPostgresAnswerLogStore(db, nil)

		card, err := domain.NewCard(uuid.New(), domain.CardContent{Front: "uno"}, 0, testNow)
		require.NoError(t, err)

		first, err := domain.NewAnswerLogEntry("s1", card, domain.AnswerEvent{
			CardID: card.ID, Outcome: domain.ReviewOutcomeRight, Timestamp: testNow,
		})
		require.NoError(t, err)
		second, err := domain.NewAnswerLogEntry("s1", card, domain.AnswerEvent{
			CardID: card.ID, Outcome: domain.ReviewOutcomeEasy, Timestamp: testNow.Add(time.Minute),
		})
		require.NoError(t, err)

		prep := mock.ExpectPrepare(`INSERT INTO answer_log`)
		prep.ExpectExec().
			WithArgs(first.ID, "s1", card.DeckID, card.ID, "right", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		prep.ExpectExec().
			WithArgs(second.ID, "s1", card.DeckID, card.ID, "easy", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, logStore.CreateMultiple(context.Background(), []*domain.AnswerLogEntry{first, second}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		db, mock := newMock(t)
		logStore := postgres.NewPostgresAnswerLogStore(db, nil)

		require.NoError(t, logStore.CreateMultiple(context.Background(), nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid entry", func(t *testing.T) {
		db, _ := newMock(t)
		logStore := postgres.NewPostgresAnswerLogStore(db, nil)

		err := logStore.CreateMultiple(context.Background(), []*domain.AnswerLogEntry{{ID: uuid.New()}})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestPostgresAnswerLogStore_ListByDeckSince(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	logStore := postgres.NewPostgresAnswerLogStore(db, nil)

	deckID, cardID, entryID := uuid.New(), uuid.New(), uuid.New()
	since := testNow.AddDate(0, 0, -31)

	mock.ExpectQuery(`FROM answer_log WHERE deck_id = \$1 AND answered_at >= \$2`).
		WithArgs(deckID, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "session_id", "deck_id", "card_id", "scenario", "answered_at", "state_before",
		}).AddRow(
			entryID.String(), "s1", deckID.String(), cardID.String(), "wrong", testNow,
			[]byte(`{"due":"2024-01-02T07:01:00Z","is_new":false,"srs_level":3,"answers":1,"hits":1,"hit_ratio":1,"last_answered":"2024-01-01T10:00:00Z"}`),
		))

	entries, err := logStore.ListByDeckSince(context.Background(), deckID, since)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, entryID, entry.ID)
	assert.Equal(t, domain.ReviewOutcomeWrong, entry.Outcome)
	require.NotNil(t, entry.Before.SRSLevel)
	assert.Equal(t, 3, *entry.Before.SRSLevel)
	assert.False(t, entry.Before.IsNew)
	require.NotNil(t, entry.Before.Due)
	assert.Equal(t, time.Date(2024, 1, 2, 7, 1, 0, 0, time.UTC), *entry.Before.Due)
}
