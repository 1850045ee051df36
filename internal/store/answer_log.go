package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
)

// AnswerLogStore persists the append-only answer audit log.
type AnswerLogStore interface {
	// CreateMultiple appends the entries. Entries are never updated afterwards.
	// Run it inside a transaction when all entries must land together.
	CreateMultiple(ctx context.Context, entries []*domain.AnswerLogEntry) error

	// ListByDeckSince returns the deck's entries with a timestamp at or after
	// since, oldest first.
	ListByDeckSince(ctx context.Context, deckID uuid.UUID, since time.Time) ([]*domain.AnswerLogEntry, error)

	// WithTx returns an AnswerLogStore that runs its queries on tx.
	WithTx(tx *sql.Tx) AnswerLogStore
}
