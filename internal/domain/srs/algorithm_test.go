package srs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func reviewedCard(level int, lastAnswered time.Time) *domain.Card {
	return &domain.Card{
		ID:           uuid.New(),
		DeckID:       uuid.New(),
		Front:        "hola",
		Back:         "hello",
		SRSLevel:     level,
		Due:          testNow,
		LastAnswered: lastAnswered,
		Hits:         3,
		Answers:      4,
		HitRatio:     0.75,
	}
}

func TestDemote(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		level    int
		expected int
	}{
		{0, 0},
		{1, 0},
		{3, 2},
		{6, 5},
		{7, 5},
		{8, 6},
		{10, 8},
		{11, 8},
		{12, 9},
		{14, 11},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, demote(tc.level), "demote(%d)", tc.level)
	}
}

func TestCalculateLevels(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	t.Run("new card", func(t *testing.T) {
		levels := calculateLevels(&domain.Card{IsNew: true}, testNow, params)
		assert.Equal(t, 3, levels.right)
		assert.Equal(t, 4, levels.easy)
		assert.False(t, levels.hasWrong)
	})

	t.Run("reviewed on time", func(t *testing.T) {
		levels := calculateLevels(reviewedCard(5, testNow.Add(-24*time.Hour)), testNow, params)
		assert.Equal(t, 6, levels.right)
		assert.Equal(t, 7, levels.easy)
		assert.Equal(t, 4, levels.wrong)
		assert.True(t, levels.hasWrong)
	})

	t.Run("catch-up after a long absence", func(t *testing.T) {
		// Level 6 forward is 6 days, so 10 days away earns an extra level.
		levels := calculateLevels(reviewedCard(5, testNow.Add(-10*24*time.Hour)), testNow, params)
		assert.Equal(t, 7, levels.right)
		assert.Equal(t, 8, levels.easy)
		assert.Equal(t, 4, levels.wrong)
	})

	t.Run("elapsed equal to interval is not late", func(t *testing.T) {
		levels := calculateLevels(reviewedCard(5, testNow.Add(-6*24*time.Hour)), testNow, params)
		assert.Equal(t, 6, levels.right)
	})

	t.Run("catch-up uses the reverse table", func(t *testing.T) {
		// Level 6 reverse is 5 days.
		card := reviewedCard(5, testNow.Add(-5*24*time.Hour-time.Minute))
		card.Reverse = true
		levels := calculateLevels(card, testNow, params)
		assert.Equal(t, 7, levels.right)
	})

	t.Run("no catch-up without a last answer", func(t *testing.T) {
		levels := calculateLevels(reviewedCard(5, time.Time{}), testNow, params)
		assert.Equal(t, 6, levels.right)
		assert.Equal(t, 7, levels.easy)
	})

	t.Run("capped at the top level", func(t *testing.T) {
		levels := calculateLevels(reviewedCard(14, testNow.Add(-1000*24*time.Hour)), testNow, params)
		assert.Equal(t, domain.MaxSRSLevel, levels.right)
		assert.Equal(t, domain.MaxSRSLevel, levels.easy)
		assert.Equal(t, 11, levels.wrong)
	})

	t.Run("out of range level is clamped", func(t *testing.T) {
		levels := calculateLevels(reviewedCard(40, testNow), testNow, params)
		assert.Equal(t, domain.MaxSRSLevel, levels.right)
		assert.Equal(t, 11, levels.wrong)
	})
}

func TestCalculateHitRatio(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, calculateHitRatio(0, 0, true), 1e-9)
	assert.InDelta(t, 0.0, calculateHitRatio(0, 0, false), 1e-9)
	assert.InDelta(t, 0.8, calculateHitRatio(3, 4, true), 1e-9)
	assert.InDelta(t, 0.6, calculateHitRatio(3, 4, false), 1e-9)
}

func TestBuildChoice(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	card := reviewedCard(0, testNow.Add(-time.Hour))

	wrong := buildChoice(card, domain.ReviewOutcomeWrong, 0, testNow, params)
	assert.Equal(t, 10*time.Minute, wrong.Interval)
	assert.Equal(t, testNow.Add(10*time.Minute), wrong.Update.Set.Due)
	assert.Equal(t, CardCounters{Hits: 0, Answers: 1}, wrong.Update.Inc)
	assert.InDelta(t, 0.6, wrong.Update.Set.HitRatio, 1e-9)
	assert.Equal(t, testNow, wrong.Update.Set.LastAnswered)
	assert.False(t, wrong.Update.Set.IsNew)

	right := buildChoice(card, domain.ReviewOutcomeRight, 1, testNow, params)
	assert.Equal(t, CardCounters{Hits: 1, Answers: 1}, right.Update.Inc)
	assert.InDelta(t, 0.8, right.Update.Set.HitRatio, 1e-9)
	assert.Equal(t, testNow.Add(time.Hour), right.Update.Set.Due)
}
