package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/domain/srs"
)

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Create saves a new card. The card must pass domain validation.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// ListByDeck returns every card of a deck ordered by Ordering.
	ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error)

	// LockByIDs loads the given cards with a row lock held until the
	// surrounding transaction ends. Unknown IDs are simply absent from the
	// result. Must be called on a store obtained from WithTx.
	LockByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Card, error)

	// MaxOrdering returns the highest ordering in the deck and whether the
	// deck has any card at all.
	MaxOrdering(ctx context.Context, deckID uuid.UUID) (int64, bool, error)

	// UpdateContent persists the editable fields of an existing card.
	// Returns ErrCardNotFound if the card does not exist.
	UpdateContent(ctx context.Context, card *domain.Card) error

	// ApplyUpdate writes a scheduling update computed from the card at
	// expectedVersion and bumps the version. Returns ErrConflict when the
	// stored version differs and ErrCardNotFound when the card is gone.
	ApplyUpdate(ctx context.Context, cardID uuid.UUID, expectedVersion int64, update srs.CardUpdate, now time.Time) error

	// Delete removes a card from the store by its ID.
	// Returns ErrCardNotFound if the card does not exist.
	// Answer log entries for the card are kept.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a CardStore that runs its queries on tx.
	//
	//   err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//       cards, err := cardStore.WithTx(tx).LockByIDs(ctx, ids)
	//       ...
	//   })
	WithTx(tx *sql.Tx) CardStore
}
