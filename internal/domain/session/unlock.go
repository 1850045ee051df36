package session

import (
	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/samber/lo"
)

// UnlockedNewCards returns the new cards whose dependencies are all satisfied,
// in input order.
//
// A dependency is satisfied when the card it names has been reviewed up to
// maturity or is expedited. Only direct dependencies are checked; a card whose
// prerequisite is itself locked stays locked until that prerequisite matures.
// Dependencies naming cards outside cards are never satisfied.
func UnlockedNewCards(cards []*domain.Card, maturity int) []*domain.Card {
	satisfied := prerequisites(cards, maturity)

	return lo.Filter(cards, func(card *domain.Card, _ int) bool {
		if !card.IsNew {
			return false
		}
		return lo.EveryBy(card.DependsOn, func(dep uuid.UUID) bool {
			_, ok := satisfied[dep]
			return ok
		})
	})
}

// UnlockedNewCardIDs returns the IDs of UnlockedNewCards as a set.
func UnlockedNewCardIDs(cards []*domain.Card, maturity int) map[uuid.UUID]struct{} {
	return lo.Associate(UnlockedNewCards(cards, maturity), func(card *domain.Card) (uuid.UUID, struct{}) {
		return card.ID, struct{}{}
	})
}

func prerequisites(cards []*domain.Card, maturity int) map[uuid.UUID]struct{} {
	ready := lo.Filter(cards, func(card *domain.Card, _ int) bool {
		return card.Expedited || (!card.IsNew && card.SRSLevel >= maturity)
	})
	return lo.Associate(ready, func(card *domain.Card) (uuid.UUID, struct{}) {
		return card.ID, struct{}{}
	})
}
