package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/platform/logger"
	"github.com/phrazzld/scry-srs/internal/store"
	"github.com/samber/lo"
)

// ErrInvalidDependency is returned when a card depends on a card outside its deck.
var ErrInvalidDependency = errors.New("dependency must be a card of the same deck")

// CreateDeckParams are the fields of a new deck.
type CreateDeckParams struct {
	Title    string
	Language string
	Ordered  bool
}

// CreateCardParams are the fields of a new card. The card is appended after
// the last card of the deck.
type CreateCardParams struct {
	Content   domain.CardContent
	Expedited bool
	DependsOn []uuid.UUID
}

// CardPatch holds the content fields to change. Nil fields are left as they are.
type CardPatch struct {
	Front    *string
	Back     *string
	SoundURI *string
	ImageURI *string
	Reverse  *bool
}

// Apply returns content with the patch applied.
func (p CardPatch) Apply(content domain.CardContent) domain.CardContent {
	content.Front = lo.FromPtrOr(p.Front, content.Front)
	content.Back = lo.FromPtrOr(p.Back, content.Back)
	content.SoundURI = lo.FromPtrOr(p.SoundURI, content.SoundURI)
	content.ImageURI = lo.FromPtrOr(p.ImageURI, content.ImageURI)
	content.Reverse = lo.FromPtrOr(p.Reverse, content.Reverse)
	return content
}

// DeckDetail is a deck with all of its cards in ordering order.
type DeckDetail struct {
	Deck  *domain.Deck
	Cards []*domain.Card
}

// DeckService provides deck and card management for a deck owner.
// Every method returns an error wrapping store.ErrDeckNotFound or ErrNotOwned
// when the deck does not exist or belongs to someone else.
type DeckService interface {
	CreateDeck(ctx context.Context, ownerID uuid.UUID, params CreateDeckParams) (*domain.Deck, error)
	ListDecks(ctx context.Context, ownerID uuid.UUID) ([]*domain.DeckSummary, error)
	GetDeck(ctx context.Context, ownerID, deckID uuid.UUID) (*DeckDetail, error)
	CreateCard(ctx context.Context, ownerID, deckID uuid.UUID, params CreateCardParams) (*domain.Card, error)
	UpdateCard(ctx context.Context, ownerID, deckID, cardID uuid.UUID, patch CardPatch) (*domain.Card, error)
	DeleteCard(ctx context.Context, ownerID, deckID, cardID uuid.UUID) error
}

type deckServiceImpl struct {
	db        store.TxBeginner
	deckStore store.DeckStore
	cardStore store.CardStore
	clock     func() time.Time
	logger    *slog.Logger
}

var _ DeckService = (*deckServiceImpl)(nil)

// DeckServiceOption configures a DeckService.
type DeckServiceOption func(*deckServiceImpl)

// WithDeckClock sets the time source used for creation and due counts.
func WithDeckClock(clock func() time.Time) DeckServiceOption {
	return func(s *deckServiceImpl) {
		s.clock = clock
	}
}

// NewDeckService creates a new DeckService.
// It returns an error if any of the required dependencies are nil.
func NewDeckService(
	db store.TxBeginner,
	deckStore store.DeckStore,
	cardStore store.CardStore,
	logger *slog.Logger,
	opts ...DeckServiceOption,
) (DeckService, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if deckStore == nil {
		return nil, fmt.Errorf("deckStore cannot be nil")
	}
	if cardStore == nil {
		return nil, fmt.Errorf("cardStore cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	svc := &deckServiceImpl{
		db:        db,
		deckStore: deckStore,
		cardStore: cardStore,
		clock:     time.Now,
		logger:    logger.With(slog.String("component", "deck_service")),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

func (s *deckServiceImpl) now() time.Time {
	return s.clock().UTC()
}

// CreateDeck implements DeckService.CreateDeck
func (s *deckServiceImpl) CreateDeck(
	ctx context.Context,
	ownerID uuid.UUID,
	params CreateDeckParams,
) (*domain.Deck, error) {
	deck, err := domain.NewDeck(ownerID, params.Title, params.Language, params.Ordered, s.now())
	if err != nil {
		return nil, NewServiceError("create_deck", "invalid deck", fmt.Errorf("%w: %w", domain.ErrValidation, err))
	}

	if err := s.deckStore.Create(ctx, deck); err != nil {
		return nil, NewServiceError("create_deck", "failed to save deck", err)
	}

	return deck, nil
}

// ListDecks implements DeckService.ListDecks
func (s *deckServiceImpl) ListDecks(ctx context.Context, ownerID uuid.UUID) ([]*domain.DeckSummary, error) {
	summaries, err := s.deckStore.ListSummaries(ctx, ownerID, s.now())
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list decks",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, NewServiceError("list_decks", "failed to list decks", err)
	}
	return summaries, nil
}

// GetDeck implements DeckService.GetDeck
func (s *deckServiceImpl) GetDeck(ctx context.Context, ownerID, deckID uuid.UUID) (*DeckDetail, error) {
	deck, err := OwnedDeck(ctx, s.deckStore, ownerID, deckID)
	if err != nil {
		return nil, NewServiceError("get_deck", "deck unavailable", err)
	}

	cards, err := s.cardStore.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, NewServiceError("get_deck", "failed to list cards", err)
	}

	return &DeckDetail{Deck: deck, Cards: cards}, nil
}

// CreateCard implements DeckService.CreateCard
func (s *deckServiceImpl) CreateCard(
	ctx context.Context,
	ownerID, deckID uuid.UUID,
	params CreateCardParams,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var card *domain.Card
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		deckStore := s.deckStore.WithTx(tx)
		cardStore := s.cardStore.WithTx(tx)

		if _, err := OwnedDeck(ctx, deckStore, ownerID, deckID); err != nil {
			return err
		}

		deps := lo.Uniq(params.DependsOn)
		for _, depID := range deps {
			dep, err := cardStore.GetByID(ctx, depID)
			if err != nil {
				if store.IsNotFoundError(err) {
					return fmt.Errorf("%w: %s", ErrInvalidDependency, depID)
				}
				return err
			}
			if dep.DeckID != deckID {
				return fmt.Errorf("%w: %s", ErrInvalidDependency, depID)
			}
		}

		maxOrdering, hasCards, err := cardStore.MaxOrdering(ctx, deckID)
		if err != nil {
			return err
		}

		card, err = domain.NewCard(deckID, params.Content, domain.NextOrdering(maxOrdering, hasCards), s.now())
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		card.Expedited = params.Expedited
		if len(deps) > 0 {
			card.DependsOn = deps
		}

		return cardStore.Create(ctx, card)
	})
	if err != nil {
		log.Warn("failed to create card",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, NewServiceError("create_card", "failed to create card", err)
	}

	log.Info("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("deck_id", deckID.String()),
		slog.Int64("ordering", card.Ordering))
	return card, nil
}

// UpdateCard implements DeckService.UpdateCard
func (s *deckServiceImpl) UpdateCard(
	ctx context.Context,
	ownerID, deckID, cardID uuid.UUID,
	patch CardPatch,
) (*domain.Card, error) {
	card, err := s.ownedCard(ctx, ownerID, deckID, cardID)
	if err != nil {
		return nil, NewServiceError("update_card", "card unavailable", err)
	}

	if err := card.UpdateContent(patch.Apply(card.Content()), s.now()); err != nil {
		return nil, NewServiceError("update_card", "invalid card content", fmt.Errorf("%w: %w", domain.ErrValidation, err))
	}

	if err := s.cardStore.UpdateContent(ctx, card); err != nil {
		return nil, NewServiceError("update_card", "failed to save card", err)
	}

	return card, nil
}

// DeleteCard implements DeckService.DeleteCard
func (s *deckServiceImpl) DeleteCard(ctx context.Context, ownerID, deckID, cardID uuid.UUID) error {
	if _, err := s.ownedCard(ctx, ownerID, deckID, cardID); err != nil {
		return NewServiceError("delete_card", "card unavailable", err)
	}

	if err := s.cardStore.Delete(ctx, cardID); err != nil {
		return NewServiceError("delete_card", "failed to delete card", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("card deleted",
		slog.String("card_id", cardID.String()),
		slog.String("deck_id", deckID.String()))
	return nil
}

func (s *deckServiceImpl) ownedCard(ctx context.Context, ownerID, deckID, cardID uuid.UUID) (*domain.Card, error) {
	if _, err := OwnedDeck(ctx, s.deckStore, ownerID, deckID); err != nil {
		return nil, err
	}

	card, err := s.cardStore.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card.DeckID != deckID {
		return nil, store.ErrCardNotFound
	}
	return card, nil
}

// OwnedDeck loads a deck and checks that ownerID owns it.
func OwnedDeck(ctx context.Context, decks store.DeckStore, ownerID, deckID uuid.UUID) (*domain.Deck, error) {
	deck, err := decks.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck.OwnerID != ownerID {
		logger.FromContext(ctx).Warn("deck not owned by requester",
			slog.String("deck_id", deckID.String()),
			slog.String("owner_id", ownerID.String()))
		return nil, ErrNotOwned
	}
	return deck, nil
}
