package session

import (
	"fmt"
	"time"

	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/domain/srs"
	"github.com/samber/lo"
)

// WorkloadDays is the number of days projected by Workload.
const WorkloadDays = 7

// Bucket names reported by DueDistribution, in order.
const (
	BucketNew       = "new"
	BucketExpedited = "expedited"
	BucketNow       = "now"
	BucketToday     = "today"
	BucketTomorrow  = "tomorrow"
	Bucket2To3Days  = "2d-3d"
	Bucket4To7Days  = "4d-1w"
	Bucket1To2Weeks = "1w-2w"
	Bucket2To4Weeks = "2w-1m"
	BucketLater     = "1m+"
)

// Bucket is a named count of cards.
type Bucket struct {
	Name  string `json:"bucket"`
	Count int    `json:"count"`
}

// DayLoad is the projected number of reviews for one logical day.
type DayLoad struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type window struct {
	name string
	// upper bound relative to the end of the current day; nil is unbounded
	upTo *time.Duration
}

func days(n int) *time.Duration {
	d := time.Duration(n) * 24 * time.Hour
	return &d
}

var dueWindows = []window{
	{BucketTomorrow, days(1)},
	{Bucket2To3Days, days(3)},
	{Bucket4To7Days, days(7)},
	{Bucket1To2Weeks, days(14)},
	{Bucket2To4Weeks, days(30)},
	{BucketLater, nil},
}

// DueDistribution counts cards by when they fall due.
//
// New cards are counted under "new", with expedited new cards split out into
// "expedited" when there are any. Cards with a due date land in exactly one of
// the remaining windows, each closed at its upper bound.
func DueDistribution(cards []*domain.Card, now time.Time, boundary srs.DayBoundary) []Bucket {
	now = now.UTC()
	eod := boundary.EndOfDay(now)

	newCount := lo.CountBy(cards, func(card *domain.Card) bool { return card.IsNew })
	expedited := lo.CountBy(cards, func(card *domain.Card) bool { return card.IsNew && card.Expedited })

	buckets := []Bucket{{Name: BucketNew, Count: newCount - expedited}}
	if expedited > 0 {
		buckets = append(buckets, Bucket{Name: BucketExpedited, Count: expedited})
	}

	counts := make(map[string]int, len(dueWindows)+2)
	for _, card := range cards {
		if !card.HasDue() {
			continue
		}
		counts[dueBucket(card.Due, now, eod)]++
	}

	buckets = append(buckets,
		Bucket{Name: BucketNow, Count: counts[BucketNow]},
		Bucket{Name: BucketToday, Count: counts[BucketToday]},
	)
	for _, w := range dueWindows {
		buckets = append(buckets, Bucket{Name: w.name, Count: counts[w.name]})
	}

	return buckets
}

func dueBucket(due, now, eod time.Time) string {
	if !due.After(now) {
		return BucketNow
	}
	if !due.After(eod) {
		return BucketToday
	}
	for _, w := range dueWindows {
		if w.upTo == nil || !due.After(eod.Add(*w.upTo)) {
			return w.name
		}
	}
	return BucketLater
}

// Workload projects the number of reviews for each of the next WorkloadDays
// logical days, assuming every review is answered right.
//
// On day i every card due by the end of that day is counted and then advanced
// as if answered at the day's cutoff, so a card can count on several days.
// The cards passed in are not modified.
func Workload(srsService srs.Service, cards []*domain.Card, now time.Time) ([]DayLoad, error) {
	boundary := srsService.Params().Boundary
	eod := boundary.EndOfDay(now.UTC())

	working := lo.FilterMap(cards, func(card *domain.Card, _ int) (*domain.Card, bool) {
		if !card.HasDue() {
			return nil, false
		}
		return card.Clone(), true
	})

	loads := make([]DayLoad, 0, WorkloadDays)
	for i := range WorkloadDays {
		cutoff := eod.AddDate(0, 0, i)
		count := 0

		for j, card := range working {
			if card.Due.After(cutoff) {
				continue
			}
			count++

			choice, err := srsService.Answer(card, domain.ReviewOutcomeRight, cutoff)
			if err != nil {
				return nil, fmt.Errorf("projecting card %s: %w", card.ID, err)
			}
			working[j] = choice.Update.Apply(card)
		}

		loads = append(loads, DayLoad{
			Date:  boundary.Date(cutoff.AddDate(0, 0, -1)),
			Count: count,
		})
	}

	return loads, nil
}
