package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/service"
	"github.com/phrazzld/scry-srs/internal/service/study"
)

// MockDeckService implements service.DeckService with overridable functions.
// Unset functions return zero values.
type MockDeckService struct {
	CreateDeckFn func(ctx context.Context, ownerID uuid.UUID, params service.CreateDeckParams) (*domain.Deck, error)
	ListDecksFn  func(ctx context.Context, ownerID uuid.UUID) ([]*domain.DeckSummary, error)
	GetDeckFn    func(ctx context.Context, ownerID, deckID uuid.UUID) (*service.DeckDetail, error)
	CreateCardFn func(
		ctx context.Context,
		ownerID, deckID uuid.UUID,
		params service.CreateCardParams,
	) (*domain.Card, error)
	UpdateCardFn func(
		ctx context.Context,
		ownerID, deckID, cardID uuid.UUID,
		patch service.CardPatch,
	) (*domain.Card, error)
	DeleteCardFn func(ctx context.Context, ownerID, deckID, cardID uuid.UUID) error
}

var _ service.DeckService = (*MockDeckService)(nil)

func (m *MockDeckService) CreateDeck(
	ctx context.Context,
	ownerID uuid.UUID,
	params service.CreateDeckParams,
) (*domain.Deck, error) {
	if m.CreateDeckFn != nil {
		return m.CreateDeckFn(ctx, ownerID, params)
	}
	return nil, nil
}

func (m *MockDeckService) ListDecks(ctx context.Context, ownerID uuid.UUID) ([]*domain.DeckSummary, error) {
	if m.ListDecksFn != nil {
		return m.ListDecksFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *MockDeckService) GetDeck(ctx context.Context, ownerID, deckID uuid.UUID) (*service.DeckDetail, error) {
	if m.GetDeckFn != nil {
		return m.GetDeckFn(ctx, ownerID, deckID)
	}
	return nil, nil
}

func (m *MockDeckService) CreateCard(
	ctx context.Context,
	ownerID, deckID uuid.UUID,
	params service.CreateCardParams,
) (*domain.Card, error) {
	if m.CreateCardFn != nil {
		return m.CreateCardFn(ctx, ownerID, deckID, params)
	}
	return nil, nil
}

func (m *MockDeckService) UpdateCard(
	ctx context.Context,
	ownerID, deckID, cardID uuid.UUID,
	patch service.CardPatch,
) (*domain.Card, error) {
	if m.UpdateCardFn != nil {
		return m.UpdateCardFn(ctx, ownerID, deckID, cardID, patch)
	}
	return nil, nil
}

func (m *MockDeckService) DeleteCard(ctx context.Context, ownerID, deckID, cardID uuid.UUID) error {
	if m.DeleteCardFn != nil {
		return m.DeleteCardFn(ctx, ownerID, deckID, cardID)
	}
	return nil
}

// MockStudyService implements study.Service with overridable functions.
type MockStudyService struct {
	GetSessionFn    func(ctx context.Context, ownerID, deckID uuid.UUID) (*study.Session, error)
	SubmitAnswersFn func(
		ctx context.Context,
		ownerID uuid.UUID,
		sessionID string,
		events []domain.AnswerEvent,
	) (string, error)
}

var _ study.Service = (*MockStudyService)(nil)

func (m *MockStudyService) GetSession(ctx context.Context, ownerID, deckID uuid.UUID) (*study.Session, error) {
	if m.GetSessionFn != nil {
		return m.GetSessionFn(ctx, ownerID, deckID)
	}
	return nil, nil
}

func (m *MockStudyService) SubmitAnswers(
	ctx context.Context,
	ownerID uuid.UUID,
	sessionID string,
	events []domain.AnswerEvent,
) (string, error) {
	if m.SubmitAnswersFn != nil {
		return m.SubmitAnswersFn(ctx, ownerID, sessionID, events)
	}
	return sessionID, nil
}
