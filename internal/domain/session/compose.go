package session

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/domain/srs"
)

// Block sizes used when randomizing a session queue.
const (
	NewCardBlockSize = 2000
	DueCardBlockSize = 10
)

// ErrNilDeck is returned when a session is requested without a deck.
var ErrNilDeck = errors.New("deck cannot be nil")

// SessionCard is a card queued for study together with the interval each
// available answer would schedule. IntervalIfWrong is nil for new cards.
type SessionCard struct {
	Card            *domain.Card
	IntervalIfRight time.Duration
	IntervalIfEasy  time.Duration
	IntervalIfWrong *time.Duration
}

// SessionView is the ordered study queue for one deck.
type SessionView struct {
	NewCards []SessionCard
	DueCards []SessionCard
}

// Composer builds study queues.
type Composer struct {
	srs     srs.Service
	shuffle Shuffler
}

// ComposerOption configures a Composer.
type ComposerOption func(*Composer)

// WithShuffler replaces the random source used for block randomization.
func WithShuffler(shuffle Shuffler) ComposerOption {
	return func(c *Composer) {
		c.shuffle = shuffle
	}
}

// NewComposer creates a Composer backed by the given scheduler.
func NewComposer(srsService srs.Service, opts ...ComposerOption) *Composer {
	if srsService == nil {
		panic("srsService cannot be nil")
	}

	c := &Composer{
		srs:     srsService,
		shuffle: DefaultShuffler,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BuildSession composes the new and due queues for deck at now.
//
// New cards are the unlocked ones, in curriculum order (expedited first, then
// by ordering) for ordered decks and block randomized otherwise. Due cards are
// those due at or before now, block randomized. None of the cards is modified.
func (c *Composer) BuildSession(deck *domain.Deck, cards []*domain.Card, now time.Time) (*SessionView, error) {
	if deck == nil {
		return nil, ErrNilDeck
	}

	now = now.UTC()
	maturity := c.srs.Params().MaturityLevel

	byOrdering := slices.Clone(cards)
	slices.SortStableFunc(byOrdering, func(a, b *domain.Card) int {
		return cmp.Compare(a.Ordering, b.Ordering)
	})

	newCards := UnlockedNewCards(byOrdering, maturity)
	if deck.Ordered {
		slices.SortStableFunc(newCards, curriculumOrder)
	} else {
		newCards = BlockRandomize(newCards, now, NewCardBlockSize, c.shuffle)
	}

	dueCards := make([]*domain.Card, 0, len(byOrdering))
	for _, card := range byOrdering {
		if card.IsDue(now) {
			dueCards = append(dueCards, card)
		}
	}
	dueCards = BlockRandomize(dueCards, now, DueCardBlockSize, c.shuffle)

	view := &SessionView{}
	var err error
	if view.NewCards, err = c.preview(newCards, now); err != nil {
		return nil, err
	}
	if view.DueCards, err = c.preview(dueCards, now); err != nil {
		return nil, err
	}

	return view, nil
}

func (c *Composer) preview(cards []*domain.Card, now time.Time) ([]SessionCard, error) {
	out := make([]SessionCard, 0, len(cards))
	for _, card := range cards {
		decision, err := c.srs.Decide(card, now)
		if err != nil {
			return nil, fmt.Errorf("previewing card %s: %w", card.ID, err)
		}

		sc := SessionCard{
			Card:            card,
			IntervalIfRight: decision.Right.Interval,
			IntervalIfEasy:  decision.Easy.Interval,
		}
		if decision.Wrong != nil {
			wrong := decision.Wrong.Interval
			sc.IntervalIfWrong = &wrong
		}
		out = append(out, sc)
	}
	return out, nil
}

func curriculumOrder(a, b *domain.Card) int {
	if a.Expedited != b.Expedited {
		if a.Expedited {
			return -1
		}
		return 1
	}
	return cmp.Compare(a.Ordering, b.Ordering)
}
