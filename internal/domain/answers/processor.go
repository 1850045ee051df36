// Package answers folds a batch of answer events into card mutations and
// answer log entries.
package answers

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/domain/srs"
	"github.com/samber/lo"
)

// ErrMissingCard is returned when an event references a card that was not supplied.
var ErrMissingCard = errors.New("card not found")

// CardMutation is one update to apply to a stored card. ExpectedVersion is the
// card version the update was computed against; the store must reject the
// write if the card has changed since.
type CardMutation struct {
	CardID          uuid.UUID      `json:"card_id"`
	ExpectedVersion int64          `json:"expected_version"`
	Update          srs.CardUpdate `json:"update"`
}

// BatchResult holds everything produced by a batch, in apply order.
type BatchResult struct {
	Mutations  []CardMutation
	LogEntries []*domain.AnswerLogEntry
	// Cards maps every touched card to its state after the whole batch
	Cards map[uuid.UUID]*domain.Card
}

// Processor applies answer batches using a scheduler.
type Processor struct {
	srs srs.Service
}

// NewProcessor creates a Processor.
func NewProcessor(srsService srs.Service) *Processor {
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	return &Processor{srs: srsService}
}

// Apply folds events into mutations against cardsByID.
//
// Events are applied in timestamp order, not submission order, each one seeing
// the card as left by the earlier events of the batch and using its own
// timestamp as the current time. The batch fails as a whole if any outcome is
// unknown, any card is missing, or an outcome does not apply to the card at
// that point. cardsByID is not modified.
func (p *Processor) Apply(
	sessionID string,
	events []domain.AnswerEvent,
	cardsByID map[uuid.UUID]*domain.Card,
) (*BatchResult, error) {
	if bad, found := lo.Find(events, func(e domain.AnswerEvent) bool { return !e.Outcome.Valid() }); found {
		return nil, fmt.Errorf("%w: %q for card %s", srs.ErrInvalidOutcome, bad.Outcome, bad.CardID)
	}

	ordered := slices.Clone(events)
	slices.SortStableFunc(ordered, func(a, b domain.AnswerEvent) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	result := &BatchResult{
		Mutations:  make([]CardMutation, 0, len(ordered)),
		LogEntries: make([]*domain.AnswerLogEntry, 0, len(ordered)),
		Cards:      make(map[uuid.UUID]*domain.Card),
	}

	for _, event := range ordered {
		card, ok := result.Cards[event.CardID]
		if !ok {
			stored, exists := cardsByID[event.CardID]
			if !exists || stored == nil {
				return nil, fmt.Errorf("%w: %s", ErrMissingCard, event.CardID)
			}
			card = stored.Clone()
		}

		now := event.Timestamp.UTC()
		choice, err := p.srs.Answer(card, event.Outcome, now)
		if err != nil {
			return nil, fmt.Errorf("answering card %s at %s: %w", event.CardID, now.Format(time.RFC3339), err)
		}
		if choice.Update.IsEmpty() {
			continue
		}

		entry, err := domain.NewAnswerLogEntry(sessionID, card, event)
		if err != nil {
			return nil, fmt.Errorf("logging answer for card %s: %w", event.CardID, err)
		}

		result.Mutations = append(result.Mutations, CardMutation{
			CardID:          card.ID,
			ExpectedVersion: card.Version,
			Update:          choice.Update,
		})
		result.LogEntries = append(result.LogEntries, entry)

		next := choice.Update.Apply(card)
		next.Version = card.Version + 1
		next.UpdatedAt = now
		result.Cards[card.ID] = next
	}

	return result, nil
}
