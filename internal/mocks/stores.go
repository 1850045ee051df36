package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/domain/srs"
	"github.com/phrazzld/scry-srs/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockCardStore is a mock of store.CardStore for use with testify/mock
type TestifyMockCardStore struct {
	mock.Mock
}

var _ store.CardStore = (*TestifyMockCardStore)(nil)

func (m *TestifyMockCardStore) Create(ctx context.Context, card *domain.Card) error {
	return m.Called(ctx, card).Error(0)
}

func (m *TestifyMockCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	args := m.Called(ctx, id)
	if card, ok := args.Get(0).(*domain.Card); ok {
		return card, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TestifyMockCardStore) ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
	args := m.Called(ctx, deckID)
	if cards, ok := args.Get(0).([]*domain.Card); ok {
		return cards, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TestifyMockCardStore) LockByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Card, error) {
	args := m.Called(ctx, ids)
	if cards, ok := args.Get(0).([]*domain.Card); ok {
		return cards, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TestifyMockCardStore) MaxOrdering(ctx context.Context, deckID uuid.UUID) (int64, bool, error) {
	args := m.Called(ctx, deckID)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *TestifyMockCardStore) UpdateContent(ctx context.Context, card *domain.Card) error {
	return m.Called(ctx, card).Error(0)
}

func (m *TestifyMockCardStore) ApplyUpdate(
	ctx context.Context,
	cardID uuid.UUID,
	expectedVersion int64,
	update srs.CardUpdate,
	now time.Time,
) error {
	return m.Called(ctx, cardID, expectedVersion, update, now).Error(0)
}

func (m *TestifyMockCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// WithTx returns the mock itself.
func (m *TestifyMockCardStore) WithTx(*sql.Tx) store.CardStore {
	return m
}

// TestifyMockDeckStore is a mock of store.DeckStore for use with testify/mock
type TestifyMockDeckStore struct {
	mock.Mock
}

var _ store.DeckStore = (*TestifyMockDeckStore)(nil)

func (m *TestifyMockDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	return m.Called(ctx, deck).Error(0)
}

func (m *TestifyMockDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	args := m.Called(ctx, id)
	if deck, ok := args.Get(0).(*domain.Deck); ok {
		return deck, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TestifyMockDeckStore) ListSummaries(
	ctx context.Context,
	ownerID uuid.UUID,
	now time.Time,
) ([]*domain.DeckSummary, error) {
	args := m.Called(ctx, ownerID, now)
	if summaries, ok := args.Get(0).([]*domain.DeckSummary); ok {
		return summaries, args.Error(1)
	}
	return nil, args.Error(1)
}

// WithTx returns the mock itself.
func (m *TestifyMockDeckStore) WithTx(*sql.Tx) store.DeckStore {
	return m
}

// TestifyMockAnswerLogStore is a mock of store.AnswerLogStore for use with testify/mock
type TestifyMockAnswerLogStore struct {
	mock.Mock
}

var _ store.AnswerLogStore = (*TestifyMockAnswerLogStore)(nil)

func (m *TestifyMockAnswerLogStore) CreateMultiple(ctx context.Context, entries []*domain.AnswerLogEntry) error {
	return m.Called(ctx, entries).Error(0)
}

func (m *TestifyMockAnswerLogStore) ListByDeckSince(
	ctx context.Context,
	deckID uuid.UUID,
	since time.Time,
) ([]*domain.AnswerLogEntry, error) {
	args := m.Called(ctx, deckID, since)
	if entries, ok := args.Get(0).([]*domain.AnswerLogEntry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}

// WithTx returns the mock itself.
func (m *TestifyMockAnswerLogStore) WithTx(*sql.Tx) store.AnswerLogStore {
	return m
}
