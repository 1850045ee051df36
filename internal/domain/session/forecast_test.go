package session

import (
	"testing"
	"time"

	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/domain/srs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dueAt(due time.Time) *domain.Card {
	return reviewed(5, due, due.Add(-24*time.Hour))
}

func date(month time.Month, day, hour int) time.Time {
	return time.Date(2024, month, day, hour, 0, 0, 0, time.UTC)
}

func TestDueDistribution(t *testing.T) {
	t.Parallel()
	boundary := srs.NewDayBoundary(srs.DefaultDayCutoff)

	expedited := newCard(0)
	expedited.Expedited = true

	// now is 2024-01-01T12:00Z, so the current day ends 2024-01-02T07:00Z.
	cards := []*domain.Card{
		newCard(0), newCard(0), expedited,
		dueAt(date(1, 1, 11)), dueAt(testNow),
		dueAt(date(1, 1, 18)), dueAt(date(1, 2, 7)),
		dueAt(date(1, 2, 8)), dueAt(date(1, 3, 7)),
		dueAt(date(1, 4, 0)), dueAt(date(1, 5, 7)),
		dueAt(date(1, 7, 12)), dueAt(date(1, 9, 7)),
		dueAt(date(1, 10, 12)), dueAt(date(1, 16, 7)),
		dueAt(date(1, 20, 12)), dueAt(date(2, 1, 7)),
		dueAt(date(2, 2, 12)), dueAt(date(6, 1, 12)), dueAt(date(12, 1, 12)),
	}
	require.Len(t, cards, 20)

	got := DueDistribution(cards, testNow, boundary)

	expected := []Bucket{
		{BucketNew, 2},
		{BucketExpedited, 1},
		{BucketNow, 2},
		{BucketToday, 2},
		{BucketTomorrow, 2},
		{Bucket2To3Days, 2},
		{Bucket4To7Days, 2},
		{Bucket1To2Weeks, 2},
		{Bucket2To4Weeks, 2},
		{BucketLater, 3},
	}
	assert.Equal(t, expected, got)

	total := 0
	for _, b := range got {
		total += b.Count
	}
	assert.Equal(t, len(cards), total)
}

func TestDueDistributionWithoutExpedited(t *testing.T) {
	t.Parallel()
	boundary := srs.NewDayBoundary(srs.DefaultDayCutoff)

	got := DueDistribution([]*domain.Card{newCard(0), dueAt(testNow)}, testNow, boundary)

	names := make([]string, len(got))
	for i, b := range got {
		names[i] = b.Name
	}
	assert.Equal(t, []string{
		BucketNew, BucketNow, BucketToday, BucketTomorrow, Bucket2To3Days,
		Bucket4To7Days, Bucket1To2Weeks, Bucket2To4Weeks, BucketLater,
	}, names)
	assert.Equal(t, 1, got[0].Count)
	assert.Equal(t, 1, got[1].Count)
}

func TestWorkload(t *testing.T) {
	t.Parallel()
	service, err := srs.NewDefaultService()
	require.NoError(t, err)

	// Level 0 card, overdue since 10:00.
	active := reviewed(0, date(1, 1, 10), date(1, 1, 9).Add(50*time.Minute))
	distant := dueAt(date(3, 1, 12))
	fresh := newCard(0)
	cards := []*domain.Card{active, distant, fresh}
	before := active.Clone()

	loads, err := Workload(service, cards, testNow)
	require.NoError(t, err)
	require.Len(t, loads, WorkloadDays)

	// Day 0 catches up to level 2 (4h). Day 1 reaches level 3, whose one day
	// interval lands exactly on the next cutoff and snaps back to just after
	// the current one, so the card is seen again on day 2. Day 2 schedules it
	// for 2024-01-05T07:01Z, day 4.
	counts := make([]int, len(loads))
	for i, l := range loads {
		counts[i] = l.Count
		assert.Equal(t, date(1, 1+i, 0).Format(time.DateOnly), l.Date)
	}
	assert.Equal(t, []int{1, 1, 1, 0, 1, 0, 0}, counts)

	assert.Equal(t, before, active, "workload must not modify cards")
}

func TestWorkloadEmpty(t *testing.T) {
	t.Parallel()
	service, err := srs.NewDefaultService()
	require.NoError(t, err)

	loads, err := Workload(service, nil, testNow)
	require.NoError(t, err)
	require.Len(t, loads, WorkloadDays)
	for _, l := range loads {
		assert.Zero(t, l.Count)
	}
}
