package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/scry-srs/internal/domain"
)

// Common errors
var (
	ErrNilCard             = errors.New("card cannot be nil")
	ErrNilParams           = errors.New("scheduler params cannot be nil")
	ErrInvalidOutcome      = errors.New("invalid review outcome")
	ErrInapplicableOutcome = errors.New("outcome does not apply to this card")
)

// Choice is the result of answering a card with one outcome.
type Choice struct {
	Outcome  domain.ReviewOutcome `json:"scenario"`
	Level    int                  `json:"srs_level"`
	Interval time.Duration        `json:"interval"`
	Update   CardUpdate           `json:"update"`
}

// Decision lists every outcome available for a card together with the state
// the card is in now. Wrong is nil for new cards.
type Decision struct {
	Right   Choice               `json:"right"`
	Easy    Choice               `json:"easy"`
	Wrong   *Choice              `json:"wrong,omitempty"`
	Current domain.StateSnapshot `json:"current"`
}

// Choice returns the precomputed choice for outcome.
func (d *Decision) Choice(outcome domain.ReviewOutcome) (Choice, error) {
	switch outcome {
	case domain.ReviewOutcomeRight:
		return d.Right, nil
	case domain.ReviewOutcomeEasy:
		return d.Easy, nil
	case domain.ReviewOutcomeWrong:
		if d.Wrong == nil {
			return Choice{}, fmt.Errorf("%w: %s on a new card", ErrInapplicableOutcome, outcome)
		}
		return *d.Wrong, nil
	default:
		return Choice{}, fmt.Errorf("%w: %q", ErrInvalidOutcome, outcome)
	}
}

// Outcomes returns the outcomes the decision offers.
func (d *Decision) Outcomes() []domain.ReviewOutcome {
	if d.Wrong == nil {
		return []domain.ReviewOutcome{domain.ReviewOutcomeRight, domain.ReviewOutcomeEasy}
	}
	return domain.ReviewOutcomes
}

// Service defines the interface for scheduling decisions
type Service interface {
	// Decide previews every outcome for card at now without modifying it
	Decide(card *domain.Card, now time.Time) (*Decision, error)

	// Answer returns the update for a single outcome
	Answer(card *domain.Card, outcome domain.ReviewOutcome, now time.Time) (Choice, error)

	// Params exposes the active scheduler parameters
	Params() Params
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduler with default parameters
func NewDefaultService() (Service, error) {
	return NewServiceWithParams(NewDefaultParams())
}

// NewServiceWithParams creates a new scheduler with custom parameters
func NewServiceWithParams(params *Params) (Service, error) {
	if params == nil {
		return nil, ErrNilParams
	}
	if err := params.Intervals.Validate(); err != nil {
		return nil, err
	}
	return &defaultService{
		params: params,
	}, nil
}

// Decide implements the Service interface
func (s *defaultService) Decide(card *domain.Card, now time.Time) (*Decision, error) {
	if card == nil {
		return nil, ErrNilCard
	}

	now = now.UTC()
	levels := calculateLevels(card, now, s.params)

	decision := &Decision{
		Right:   buildChoice(card, domain.ReviewOutcomeRight, levels.right, now, s.params),
		Easy:    buildChoice(card, domain.ReviewOutcomeEasy, levels.easy, now, s.params),
		Current: card.Snapshot(),
	}
	if levels.hasWrong {
		wrong := buildChoice(card, domain.ReviewOutcomeWrong, levels.wrong, now, s.params)
		decision.Wrong = &wrong
	}

	return decision, nil
}

// Answer implements the Service interface
func (s *defaultService) Answer(
	card *domain.Card,
	outcome domain.ReviewOutcome,
	now time.Time,
) (Choice, error) {
	if !outcome.Valid() {
		return Choice{}, fmt.Errorf("%w: %q", ErrInvalidOutcome, outcome)
	}

	decision, err := s.Decide(card, now)
	if err != nil {
		return Choice{}, err
	}

	return decision.Choice(outcome)
}

// Params implements the Service interface
func (s *defaultService) Params() Params {
	return *s.params
}
