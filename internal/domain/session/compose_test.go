package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/domain/srs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newComposer(t *testing.T) *Composer {
	t.Helper()
	service, err := srs.NewDefaultService()
	require.NoError(t, err)
	return NewComposer(service, WithShuffler(seeded()))
}

func sessionIDs(cards []SessionCard) []uuid.UUID {
	out := make([]uuid.UUID, len(cards))
	for i, c := range cards {
		out[i] = c.Card.ID
	}
	return out
}

func TestBuildSessionOrderedDeck(t *testing.T) {
	t.Parallel()
	composer := newComposer(t)
	deck := &domain.Deck{ID: uuid.New(), Ordered: true}

	immature := reviewed(3, testNow.Add(48*time.Hour), testNow.Add(-time.Hour))
	first := newCard(30000)
	second := newCard(10000)
	expedited := newCard(20000)
	expedited.Expedited = true
	locked := newCard(5000, immature.ID)

	view, err := composer.BuildSession(deck, []*domain.Card{first, immature, second, expedited, locked}, testNow)
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{expedited.ID, second.ID, first.ID}, sessionIDs(view.NewCards))
	assert.Empty(t, view.DueCards, "the immature card is not due yet")

	for _, sc := range view.NewCards {
		assert.Equal(t, 24*time.Hour, sc.IntervalIfRight)
		assert.Equal(t, 48*time.Hour, sc.IntervalIfEasy)
		assert.Nil(t, sc.IntervalIfWrong)
	}
}

func TestBuildSessionDueCards(t *testing.T) {
	t.Parallel()
	composer := newComposer(t)
	deck := &domain.Deck{ID: uuid.New()}

	dueNow := reviewed(5, testNow, testNow.Add(-4*24*time.Hour))
	overdue := reviewed(2, testNow.Add(-time.Hour), testNow.Add(-5*time.Hour))
	future := reviewed(7, testNow.Add(time.Minute), testNow.Add(-24*time.Hour))
	fresh := newCard(0)

	cards := []*domain.Card{dueNow, overdue, future, fresh}
	before := make([]*domain.Card, len(cards))
	for i, c := range cards {
		before[i] = c.Clone()
	}

	view, err := composer.BuildSession(deck, cards, testNow)
	require.NoError(t, err)

	assert.ElementsMatch(t, []uuid.UUID{dueNow.ID, overdue.ID}, sessionIDs(view.DueCards))
	assert.Equal(t, []uuid.UUID{fresh.ID}, sessionIDs(view.NewCards))

	for _, sc := range view.DueCards {
		require.NotNil(t, sc.IntervalIfWrong)
		assert.Less(t, *sc.IntervalIfWrong, sc.IntervalIfRight)
		assert.LessOrEqual(t, sc.IntervalIfRight, sc.IntervalIfEasy)
	}

	for i := range cards {
		assert.Equal(t, before[i], cards[i], "session building must not modify cards")
	}
}

func TestBuildSessionUnorderedDeckIsPermutation(t *testing.T) {
	t.Parallel()
	composer := newComposer(t)
	deck := &domain.Deck{ID: uuid.New()}

	cards := make([]*domain.Card, 0, 50)
	for i := range 50 {
		cards = append(cards, newCard(int64(i)*domain.OrderingStep))
	}

	view, err := composer.BuildSession(deck, cards, testNow)
	require.NoError(t, err)
	assert.ElementsMatch(t, ids(cards), sessionIDs(view.NewCards))
}

func TestBuildSessionErrors(t *testing.T) {
	t.Parallel()
	composer := newComposer(t)

	_, err := composer.BuildSession(nil, nil, testNow)
	assert.ErrorIs(t, err, ErrNilDeck)

	view, err := composer.BuildSession(&domain.Deck{}, nil, testNow)
	require.NoError(t, err)
	assert.Empty(t, view.NewCards)
	assert.Empty(t, view.DueCards)
}

func TestNewComposerPanicsWithoutScheduler(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewComposer(nil) })
}
