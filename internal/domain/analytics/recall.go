// Package analytics derives study statistics from the answer log.
package analytics

import (
	"slices"
	"time"

	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/domain/srs"
	"github.com/samber/lo"
)

// Window is how far back the recall graphs look.
const Window = 31 * 24 * time.Hour

// Series names
const (
	SeriesNewCards       = "New Cards"
	SeriesReviewedCards  = "Reviewed Cards"
	SeriesRecallAll      = "Recall Rate/All Cards"
	SeriesRecallVeryNew  = "Recall Rate/Very Immature Cards (SRS Level 0-2)"
	SeriesRecallImmature = "Recall Rate/Immature Cards (SRS Level 3-4)"
	SeriesRecallAlmost   = "Recall Rate/Almost Mature Cards (SRS Level 5-7)"
	SeriesRecallMature   = "Recall Rate/Mature Cards (SRS Level 8+)"
)

var seriesOrder = []string{
	SeriesNewCards,
	SeriesReviewedCards,
	SeriesRecallAll,
	SeriesRecallVeryNew,
	SeriesRecallImmature,
	SeriesRecallAlmost,
	SeriesRecallMature,
}

// counted series report answer totals; all others report a recall rate
var counted = map[string]bool{
	SeriesNewCards:      true,
	SeriesReviewedCards: true,
}

// Point is one value of a series on a logical date (YYYY-MM-DD).
type Point struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

// Series is a named, date-ordered list of points.
type Series struct {
	Name string  `json:"name"`
	Data []Point `json:"data"`
}

type tally struct {
	correct int
	answers int
}

// Since returns the earliest answer timestamp included in graphs built at now.
func Since(now time.Time) time.Time {
	return now.Add(-Window)
}

// RecallGraphs groups answers by logical day and reports, per day, how many
// new cards were studied, how many reviews were done, and the share of
// reviews answered right or easy, overall and per maturity group.
//
// Only series with at least one point are returned.
func RecallGraphs(entries []*domain.AnswerLogEntry, boundary srs.DayBoundary) []Series {
	tallies := make(map[string]map[string]*tally)
	add := func(series, date string, correct bool) {
		byDate, ok := tallies[series]
		if !ok {
			byDate = make(map[string]*tally)
			tallies[series] = byDate
		}
		t, ok := byDate[date]
		if !ok {
			t = &tally{}
			byDate[date] = t
		}
		t.answers++
		if correct {
			t.correct++
		}
	}

	for _, entry := range entries {
		date := boundary.Date(entry.Timestamp)
		if entry.Before.SRSLevel == nil {
			add(SeriesNewCards, date, true)
			continue
		}

		correct := entry.Outcome != domain.ReviewOutcomeWrong
		add(SeriesReviewedCards, date, correct)
		add(SeriesRecallAll, date, correct)
		add(levelGroup(*entry.Before.SRSLevel), date, correct)
	}

	out := make([]Series, 0, len(tallies))
	for _, name := range seriesOrder {
		byDate := tallies[name]
		if len(byDate) == 0 {
			continue
		}

		dates := lo.Keys(byDate)
		slices.Sort(dates)

		out = append(out, Series{
			Name: name,
			Data: lo.Map(dates, func(date string, _ int) Point {
				t := byDate[date]
				if counted[name] {
					return Point{X: date, Y: float64(t.answers)}
				}
				return Point{X: date, Y: float64(t.correct) / float64(t.answers)}
			}),
		})
	}

	return out
}

func levelGroup(level int) string {
	switch {
	case level <= 2:
		return SeriesRecallVeryNew
	case level <= 4:
		return SeriesRecallImmature
	case level <= 7:
		return SeriesRecallAlmost
	default:
		return SeriesRecallMature
	}
}
