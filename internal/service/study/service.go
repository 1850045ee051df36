// Package study serves study sessions and applies answer batches for a
// deck owner.
package study

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/domain/analytics"
	"github.com/phrazzld/scry-srs/internal/domain/session"
)

// Session is everything a client needs to study one deck.
type Session struct {
	ID              string
	Deck            *domain.Deck
	NewCards        []session.SessionCard
	DueCards        []session.SessionCard
	DueDistribution []session.Bucket
	Workload        []session.DayLoad
	RecallGraphs    []analytics.Series
	GeneratedAt     time.Time
}

// Service defines the study operations.
type Service interface {
	// GetSession builds the study queues and statistics for a deck the owner holds.
	GetSession(ctx context.Context, ownerID, deckID uuid.UUID) (*Session, error)

	// SubmitAnswers applies an answer batch atomically and returns the session
	// ID the answers were recorded under. A new ID is generated when sessionID
	// is empty. An empty batch changes nothing.
	SubmitAnswers(ctx context.Context, ownerID uuid.UUID, sessionID string, events []domain.AnswerEvent) (string, error)
}
