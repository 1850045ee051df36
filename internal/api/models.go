package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/domain/analytics"
	"github.com/phrazzld/scry-srs/internal/domain/session"
	"github.com/phrazzld/scry-srs/internal/service"
	"github.com/phrazzld/scry-srs/internal/service/study"
	"github.com/samber/lo"
)

// CreateDeckRequest is the payload of POST /api/decks.
type CreateDeckRequest struct {
	Title    string `json:"title"    validate:"required,max=200"`
	Language string `json:"language" validate:"required,max=16"`
	Ordered  bool   `json:"ordered"`
}

// CreateCardRequest is the payload of POST /api/decks/{deckID}/cards.
type CreateCardRequest struct {
	Front     string   `json:"front"      validate:"required_without=Back"`
	Back      string   `json:"back"       validate:"required_without=Front"`
	SoundURI  string   `json:"sound_uri"  validate:"max=2048"`
	ImageURI  string   `json:"image_uri"  validate:"max=2048"`
	Reverse   bool     `json:"reverse"`
	Expedited bool     `json:"expedited"`
	DependsOn []string `json:"depends_on" validate:"omitempty,dive,uuid"`
}

// UpdateCardRequest is the payload of PATCH /api/decks/{deckID}/cards/{cardID}.
// Absent fields are left unchanged.
type UpdateCardRequest struct {
	Front    *string `json:"front"`
	Back     *string `json:"back"`
	SoundURI *string `json:"sound_uri" validate:"omitempty,max=2048"`
	ImageURI *string `json:"image_uri" validate:"omitempty,max=2048"`
	Reverse  *bool   `json:"reverse"`
}

// AnswerRequest is one element of the POST /api/answers payload.
// Timestamp is in unix seconds.
type AnswerRequest struct {
	CardID    string `json:"card_id"   validate:"required,uuid"`
	Scenario  string `json:"scenario"  validate:"required"`
	Timestamp int64  `json:"timestamp" validate:"required,gt=0"`
}

// DeckResponse is the JSON form of a deck.
type DeckResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Language  string    `json:"language"`
	Ordered   bool      `json:"ordered"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeckSummaryResponse is a deck with its card counts.
type DeckSummaryResponse struct {
	DeckResponse
	CardCount    int `json:"card_count"`
	NewCardCount int `json:"new_card_count"`
	DueCardCount int `json:"due_card_count"`
}

// CardResponse is the JSON form of a card. Scheduling fields the card does
// not have yet are null.
type CardResponse struct {
	ID           uuid.UUID   `json:"id"`
	DeckID       uuid.UUID   `json:"deck_id"`
	Front        string      `json:"front"`
	Back         string      `json:"back"`
	SoundURI     string      `json:"sound_uri,omitempty"`
	ImageURI     string      `json:"image_uri,omitempty"`
	Type         string      `json:"type"`
	Reverse      bool        `json:"reverse"`
	Ordering     int64       `json:"ordering"`
	Expedited    bool        `json:"expedited"`
	DependsOn    []uuid.UUID `json:"depends_on"`
	IsNew        bool        `json:"is_new"`
	SRSLevel     *int        `json:"srs_level"`
	Due          *time.Time  `json:"due"`
	LastAnswered *time.Time  `json:"last_answered"`
	Hits         int         `json:"hits"`
	Answers      int         `json:"answers"`
	HitRatio     *float64    `json:"hit_ratio"`
	Version      int64       `json:"version"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// DeckDetailResponse is a deck with all of its cards.
type DeckDetailResponse struct {
	DeckResponse
	Cards []CardResponse `json:"cards"`
}

// SessionCardResponse is a queued card with the interval, in seconds, each
// answer would schedule. IntervalIfWrong is null for new cards.
type SessionCardResponse struct {
	CardResponse
	IntervalIfRight int64  `json:"interval_if_right"`
	IntervalIfEasy  int64  `json:"interval_if_easy"`
	IntervalIfWrong *int64 `json:"interval_if_wrong"`
}

// SessionResponse is the payload of GET /api/decks/{deckID}/study.
type SessionResponse struct {
	SessionID       string                `json:"session_id"`
	Deck            DeckResponse          `json:"deck"`
	NewCards        []SessionCardResponse `json:"new_cards"`
	DueCards        []SessionCardResponse `json:"due_cards"`
	DueDistribution []session.Bucket      `json:"due_distribution"`
	Workload        []session.DayLoad     `json:"workload"`
	RecallGraphs    []analytics.Series    `json:"recall_graphs"`
	GeneratedAt     time.Time             `json:"generated_at"`
}

func deckToResponse(deck *domain.Deck) DeckResponse {
	return DeckResponse{
		ID:        deck.ID,
		Title:     deck.Title,
		Language:  deck.Language,
		Ordered:   deck.Ordered,
		CreatedAt: deck.CreatedAt,
		UpdatedAt: deck.UpdatedAt,
	}
}

func summaryToResponse(summary *domain.DeckSummary, _ int) DeckSummaryResponse {
	return DeckSummaryResponse{
		DeckResponse: deckToResponse(&summary.Deck),
		CardCount:    summary.CardCount,
		NewCardCount: summary.NewCardCount,
		DueCardCount: summary.DueCardCount,
	}
}

func cardToResponse(card *domain.Card) CardResponse {
	snap := card.Snapshot()
	return CardResponse{
		ID:           card.ID,
		DeckID:       card.DeckID,
		Front:        card.Front,
		Back:         card.Back,
		SoundURI:     card.SoundURI,
		ImageURI:     card.ImageURI,
		Type:         card.Type,
		Reverse:      card.Reverse,
		Ordering:     card.Ordering,
		Expedited:    card.Expedited,
		DependsOn:    lo.Ternary(card.DependsOn == nil, []uuid.UUID{}, card.DependsOn),
		IsNew:        card.IsNew,
		SRSLevel:     snap.SRSLevel,
		Due:          snap.Due,
		LastAnswered: snap.LastAnswered,
		Hits:         card.Hits,
		Answers:      card.Answers,
		HitRatio:     snap.HitRatio,
		Version:      card.Version,
		CreatedAt:    card.CreatedAt,
		UpdatedAt:    card.UpdatedAt,
	}
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}

func sessionCardToResponse(sc session.SessionCard, _ int) SessionCardResponse {
	resp := SessionCardResponse{
		CardResponse:    cardToResponse(sc.Card),
		IntervalIfRight: seconds(sc.IntervalIfRight),
		IntervalIfEasy:  seconds(sc.IntervalIfEasy),
	}
	if sc.IntervalIfWrong != nil {
		resp.IntervalIfWrong = lo.ToPtr(seconds(*sc.IntervalIfWrong))
	}
	return resp
}

func deckDetailToResponse(detail *service.DeckDetail) DeckDetailResponse {
	return DeckDetailResponse{
		DeckResponse: deckToResponse(detail.Deck),
		Cards: lo.Map(detail.Cards, func(card *domain.Card, _ int) CardResponse {
			return cardToResponse(card)
		}),
	}
}

func sessionToResponse(sess *study.Session) SessionResponse {
	return SessionResponse{
		SessionID:       sess.ID,
		Deck:            deckToResponse(sess.Deck),
		NewCards:        lo.Map(sess.NewCards, sessionCardToResponse),
		DueCards:        lo.Map(sess.DueCards, sessionCardToResponse),
		DueDistribution: sess.DueDistribution,
		Workload:        sess.Workload,
		RecallGraphs:    lo.Ternary(sess.RecallGraphs == nil, []analytics.Series{}, sess.RecallGraphs),
		GeneratedAt:     sess.GeneratedAt,
	}
}
