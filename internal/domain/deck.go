package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Deck validation errors
var (
	ErrDeckIDEmpty      = errors.New("deck ID cannot be empty")
	ErrDeckOwnerIDEmpty = errors.New("deck owner ID cannot be empty")
	ErrDeckTitleEmpty   = errors.New("deck title cannot be empty")
	ErrDeckLanguage     = errors.New("deck language cannot be empty")
)

// Deck is a named collection of cards in one language.
// Ordered decks present new cards in curriculum order instead of shuffling them.
type Deck struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Title     string    `json:"title"`
	Language  string    `json:"language"`
	Ordered   bool      `json:"ordered"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeckSummary is a deck together with its card counts at a point in time.
type DeckSummary struct {
	Deck
	CardCount    int `json:"card_count"`
	NewCardCount int `json:"new_card_count"`
	DueCardCount int `json:"due_card_count"`
}

// NewDeck creates a deck owned by ownerID.
func NewDeck(ownerID uuid.UUID, title, language string, ordered bool, now time.Time) (*Deck, error) {
	deck := &Deck{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Title:     strings.TrimSpace(title),
		Language:  strings.TrimSpace(language),
		Ordered:   ordered,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks if the Deck has valid data.
func (d *Deck) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDeckIDEmpty
	}
	if d.OwnerID == uuid.Nil {
		return ErrDeckOwnerIDEmpty
	}
	if d.Title == "" {
		return ErrDeckTitleEmpty
	}
	if d.Language == "" {
		return ErrDeckLanguage
	}
	return nil
}
