package session

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/samber/lo"
)

// Shuffler permutes n elements through swap, with the signature of rand.Shuffle.
type Shuffler func(n int, swap func(i, j int))

// DefaultShuffler uses the process-wide random source.
var DefaultShuffler Shuffler = rand.Shuffle

// OverdueRatio is the time since the card was last answered divided by the
// time it was scheduled to wait. Values above 1 mean the card is late
// relative to its own interval. Cards never answered are on schedule (1.0).
func OverdueRatio(card *domain.Card, now time.Time) float64 {
	if card.LastAnswered.IsZero() {
		return 1.0
	}

	target := card.Due.Sub(card.LastAnswered)
	if target <= 0 {
		return 1.0
	}

	return float64(now.Sub(card.LastAnswered)) / float64(target)
}

// BlockRandomize orders cards by descending OverdueRatio, then shuffles each
// consecutive block of blockSize cards independently.
//
// Smaller blocks keep the queue closer to strict urgency order; a block at
// least as long as the list is a full shuffle. The result is always a
// permutation of cards; the input slice is left untouched.
func BlockRandomize(cards []*domain.Card, now time.Time, blockSize int, shuffle Shuffler) []*domain.Card {
	if len(cards) == 0 {
		return []*domain.Card{}
	}
	if blockSize < 1 {
		blockSize = 1
	}
	if shuffle == nil {
		shuffle = DefaultShuffler
	}

	type ranked struct {
		card  *domain.Card
		ratio float64
	}
	ranking := lo.Map(cards, func(card *domain.Card, _ int) ranked {
		return ranked{card: card, ratio: OverdueRatio(card, now)}
	})
	slices.SortStableFunc(ranking, func(a, b ranked) int {
		return cmp.Compare(b.ratio, a.ratio)
	})

	blocks := lo.Chunk(lo.Map(ranking, func(r ranked, _ int) *domain.Card { return r.card }), blockSize)
	for _, block := range blocks {
		shuffle(len(block), func(i, j int) {
			block[i], block[j] = block[j], block[i]
		})
	}

	return lo.Flatten(blocks)
}
