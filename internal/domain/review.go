package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReviewOutcome is the learner's response to a card.
type ReviewOutcome string

// Possible review outcome values
const (
	ReviewOutcomeRight ReviewOutcome = "right"
	ReviewOutcomeEasy  ReviewOutcome = "easy"
	ReviewOutcomeWrong ReviewOutcome = "wrong"
)

// ReviewOutcomes lists every outcome in presentation order.
var ReviewOutcomes = []ReviewOutcome{ReviewOutcomeRight, ReviewOutcomeEasy, ReviewOutcomeWrong}

// Valid reports whether the outcome is one of the known tags.
func (o ReviewOutcome) Valid() bool {
	switch o {
	case ReviewOutcomeRight, ReviewOutcomeEasy, ReviewOutcomeWrong:
		return true
	default:
		return false
	}
}

// Answer log validation errors
var (
	ErrLogCardIDEmpty = errors.New("answer log card ID cannot be empty")
	ErrLogDeckIDEmpty = errors.New("answer log deck ID cannot be empty")
	ErrLogNoTimestamp = errors.New("answer log timestamp cannot be empty")
)

// AnswerEvent is one answer submitted by a client. Timestamp is the logical
// time the learner answered, not when the server received it.
type AnswerEvent struct {
	CardID    uuid.UUID     `json:"card_id"`
	Outcome   ReviewOutcome `json:"outcome"`
	Timestamp time.Time     `json:"timestamp"`
}

// StateSnapshot is the scheduling state of a card at one instant.
// Nil pointers mark fields the card did not have yet.
type StateSnapshot struct {
	Due          *time.Time `json:"due"`
	IsNew        bool       `json:"is_new"`
	SRSLevel     *int       `json:"srs_level"`
	Answers      int        `json:"answers"`
	Hits         int        `json:"hits"`
	HitRatio     *float64   `json:"hit_ratio"`
	LastAnswered *time.Time `json:"last_answered"`
}

// AnswerLogEntry is an immutable audit record of one applied answer.
// Before holds the card state immediately preceding the answer.
type AnswerLogEntry struct {
	ID        uuid.UUID     `json:"id"`
	SessionID string        `json:"session_id"`
	DeckID    uuid.UUID     `json:"deck_id"`
	CardID    uuid.UUID     `json:"card_id"`
	Outcome   ReviewOutcome `json:"scenario"`
	Timestamp time.Time     `json:"timestamp"`
	Before    StateSnapshot `json:"before"`
}

// NewAnswerLogEntry builds a log entry for an answer applied to card.
func NewAnswerLogEntry(sessionID string, card *Card, event AnswerEvent) (*AnswerLogEntry, error) {
	entry := &AnswerLogEntry{
		ID:        uuid.New(),
		SessionID: sessionID,
		DeckID:    card.DeckID,
		CardID:    card.ID,
		Outcome:   event.Outcome,
		Timestamp: event.Timestamp.UTC(),
		Before:    card.Snapshot(),
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks that the entry references a card and deck and has a time.
func (e *AnswerLogEntry) Validate() error {
	if e.CardID == uuid.Nil {
		return ErrLogCardIDEmpty
	}
	if e.DeckID == uuid.Nil {
		return ErrLogDeckIDEmpty
	}
	if e.Timestamp.IsZero() {
		return ErrLogNoTimestamp
	}
	if !e.Outcome.Valid() {
		return ErrInvalidReviewOutcome
	}
	return nil
}
