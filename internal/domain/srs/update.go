package srs

import (
	"time"

	"github.com/phrazzld/scry-srs/internal/domain"
)

// CardFields are the scheduling fields overwritten by an answer.
type CardFields struct {
	Due          time.Time `json:"due"`
	SRSLevel     int       `json:"srs_level"`
	IsNew        bool      `json:"is_new"`
	HitRatio     float64   `json:"hit_ratio"`
	LastAnswered time.Time `json:"last_answered"`
}

// CardCounters are the counter increments produced by an answer.
type CardCounters struct {
	Hits    int `json:"hits"`
	Answers int `json:"answers"`
}

// CardUpdate describes the mutation an answer applies to a card:
// absolute values to set plus counters to increment.
//
// Keeping increments separate from sets lets the store apply the
// mutation atomically as hits = hits + n.
type CardUpdate struct {
	Set CardFields   `json:"set"`
	Inc CardCounters `json:"inc"`
}

// IsEmpty reports whether the update carries no mutation at all.
func (u CardUpdate) IsEmpty() bool {
	return u.Set.Due.IsZero() && u.Set.LastAnswered.IsZero() && u.Inc == CardCounters{}
}

// Apply returns a copy of card with the update applied. card is not modified.
func (u CardUpdate) Apply(card *domain.Card) *domain.Card {
	next := card.Clone()
	if u.IsEmpty() {
		return next
	}

	next.Due = u.Set.Due
	next.SRSLevel = u.Set.SRSLevel
	next.IsNew = u.Set.IsNew
	next.HitRatio = u.Set.HitRatio
	next.LastAnswered = u.Set.LastAnswered
	next.Hits += u.Inc.Hits
	next.Answers += u.Inc.Answers

	return next
}
