package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/scry-srs/internal/domain"
)

// IntervalTableVersion identifies the canonical interval table.
const IntervalTableVersion = 3

const day = 24 * time.Hour

// ErrInvalidIntervalTable is returned when an interval table does not have one
// positive entry per level for both orientations.
var ErrInvalidIntervalTable = errors.New("invalid interval table")

// IntervalTable maps a card level to the delay until its next review.
// Reverse cards (back shown first) use their own, slightly tighter schedule.
type IntervalTable struct {
	Version int
	Forward []time.Duration
	Reverse []time.Duration
}

// DefaultIntervalTable returns the canonical 15-level table.
func DefaultIntervalTable() IntervalTable {
	return IntervalTable{
		Version: IntervalTableVersion,
		Forward: []time.Duration{
			10 * time.Minute, time.Hour, 4 * time.Hour,
			day, 2 * day, 4 * day, 6 * day, 9 * day, 15 * day, 21 * day,
			40 * day, 80 * day, 100 * day, 180 * day, 365 * day,
		},
		Reverse: []time.Duration{
			10 * time.Minute, time.Hour, 4 * time.Hour,
			day, 2 * day, 3 * day, 5 * day, 8 * day, 13 * day, 20 * day,
			40 * day, 80 * day, 100 * day, 180 * day, 365 * day,
		},
	}
}

// MaxLevel returns the highest level of the table.
func (t IntervalTable) MaxLevel() int {
	return len(t.Forward) - 1
}

// Interval returns the delay for level in the given orientation.
// The level is clamped into the table.
func (t IntervalTable) Interval(reverse bool, level int) time.Duration {
	levels := t.Forward
	if reverse {
		levels = t.Reverse
	}
	return levels[clampLevel(level, len(levels)-1)]
}

// Validate checks that both orientations cover every card level.
func (t IntervalTable) Validate() error {
	want := domain.MaxSRSLevel + 1
	if len(t.Forward) != want || len(t.Reverse) != want {
		return fmt.Errorf("%w: want %d levels, got %d forward and %d reverse",
			ErrInvalidIntervalTable, want, len(t.Forward), len(t.Reverse))
	}
	for i := range t.Forward {
		if t.Forward[i] <= 0 || t.Reverse[i] <= 0 {
			return fmt.Errorf("%w: level %d has a non-positive interval", ErrInvalidIntervalTable, i)
		}
	}
	return nil
}

// Params defines all configurable parameters for the scheduler
type Params struct {
	Intervals IntervalTable

	// Levels given to a never-reviewed card on its first answer
	NewRightLevel int
	NewEasyLevel  int

	// MaturityLevel is the level from which a card unlocks its dependents
	MaturityLevel int

	// Boundary aligns due dates onto logical days
	Boundary DayBoundary
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
// Nil and zero values keep the defaults.
type ParamsConfig struct {
	// DayCutoff is the time of day (UTC) at which one logical day ends and the next begins
	DayCutoff *time.Duration

	// MaturityLevel overrides the unlock threshold
	MaturityLevel int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		Intervals:     DefaultIntervalTable(),
		NewRightLevel: 3,
		NewEasyLevel:  4,
		MaturityLevel: 4,
		Boundary:      NewDayBoundary(DefaultDayCutoff),
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) (*Params, error) {
	params := NewDefaultParams()

	if config.DayCutoff != nil {
		cutoff := *config.DayCutoff
		if cutoff < 0 || cutoff >= day {
			return nil, fmt.Errorf("day cutoff %s must be within one day", cutoff)
		}
		params.Boundary = NewDayBoundary(cutoff)
	}

	if config.MaturityLevel != 0 {
		if config.MaturityLevel < 0 || config.MaturityLevel > params.Intervals.MaxLevel() {
			return nil, fmt.Errorf("maturity level %d out of range", config.MaturityLevel)
		}
		params.MaturityLevel = config.MaturityLevel
	}

	return params, nil
}

func clampLevel(level, maxLevel int) int {
	return max(0, min(level, maxLevel))
}
