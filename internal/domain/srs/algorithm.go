package srs

import (
	"time"

	"github.com/phrazzld/scry-srs/internal/domain"
)

// proposedLevels holds the level each outcome would move a card to.
type proposedLevels struct {
	right int
	easy  int
	wrong int
	// hasWrong is false for new cards, which cannot be answered wrong
	hasWrong bool
}

// calculateLevels determines the level each outcome would lead to.
//
// Parameters:
//   - card: The card being answered; its level is clamped into the table first
//   - now: The time of the answer
//   - params: Configuration parameters for the scheduler
//
// Algorithm behavior:
//   - New cards jump straight to NewRightLevel / NewEasyLevel
//   - "Right" moves a reviewed card up one level, "Easy" two
//   - "Wrong" demotes by three levels from level 11, by two from level 7,
//     and by one below that, never under zero
//   - A card answered long after it fell due (more than the interval of the
//     proposed "right" level since its last answer) gets one extra level for
//     "right" and "easy"; the learner evidently still knew it
//   - All levels are capped at the top of the interval table
func calculateLevels(card *domain.Card, now time.Time, params *Params) proposedLevels {
	maxLevel := params.Intervals.MaxLevel()

	if card.IsNew {
		return proposedLevels{
			right: clampLevel(params.NewRightLevel, maxLevel),
			easy:  clampLevel(params.NewEasyLevel, maxLevel),
		}
	}

	level := clampLevel(card.SRSLevel, maxLevel)
	levels := proposedLevels{
		right:    min(level+1, maxLevel),
		easy:     min(level+2, maxLevel),
		wrong:    demote(level),
		hasWrong: true,
	}

	if !card.LastAnswered.IsZero() {
		elapsed := now.Sub(card.LastAnswered)
		if elapsed > params.Intervals.Interval(card.Reverse, levels.right) {
			levels.right = min(levels.right+1, maxLevel)
			levels.easy = min(levels.easy+1, maxLevel)
		}
	}

	return levels
}

// demote returns the level a card drops to after a wrong answer.
// Mature cards lose more ground so that forgotten material comes back sooner.
func demote(level int) int {
	switch {
	case level >= 11:
		return level - 3
	case level >= 7:
		return level - 2
	default:
		return max(level-1, 0)
	}
}

// calculateHitRatio returns the hit ratio after one more answer.
func calculateHitRatio(hits, answers int, hit bool) float64 {
	if hit {
		hits++
	}
	return float64(hits) / float64(answers+1)
}

// buildChoice assembles the full update for moving card to level with outcome.
func buildChoice(
	card *domain.Card,
	outcome domain.ReviewOutcome,
	level int,
	now time.Time,
	params *Params,
) Choice {
	hit := outcome != domain.ReviewOutcomeWrong
	interval := params.Intervals.Interval(card.Reverse, level)

	hitInc := 0
	if hit {
		hitInc = 1
	}

	return Choice{
		Outcome:  outcome,
		Level:    level,
		Interval: interval,
		Update: CardUpdate{
			Set: CardFields{
				Due:          params.Boundary.Align(now, now.Add(interval)),
				SRSLevel:     level,
				IsNew:        false,
				HitRatio:     calculateHitRatio(card.Hits, card.Answers, hit),
				LastAnswered: now,
			},
			Inc: CardCounters{Hits: hitInc, Answers: 1},
		},
	}
}
