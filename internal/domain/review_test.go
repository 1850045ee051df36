package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestReviewOutcomeValid(t *testing.T) {
	t.Parallel()

	for _, o := range ReviewOutcomes {
		if !o.Valid() {
			t.Errorf("Expected %q to be valid", o)
		}
	}
	for _, o := range []ReviewOutcome{"", "good", "again", "RIGHT"} {
		if o.Valid() {
			t.Errorf("Expected %q to be invalid", o)
		}
	}
}

func TestNewAnswerLogEntry(t *testing.T) {
	t.Parallel()
	card := &Card{
		ID:       uuid.New(),
		DeckID:   uuid.New(),
		Front:    "x",
		SRSLevel: 4,
		Due:      testNow,
		Hits:     3,
		Answers:  4,
		HitRatio: 0.75,
	}
	event := AnswerEvent{CardID: card.ID, Outcome: ReviewOutcomeWrong, Timestamp: testNow.Add(time.Hour)}

	entry, err := NewAnswerLogEntry("session-1", card, event)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if entry.SessionID != "session-1" || entry.DeckID != card.DeckID || entry.CardID != card.ID {
		t.Errorf("Unexpected identity fields: %+v", entry)
	}
	if entry.Before.SRSLevel == nil || *entry.Before.SRSLevel != 4 {
		t.Errorf("Expected snapshot level 4, got %v", entry.Before.SRSLevel)
	}
	if !entry.Timestamp.Equal(event.Timestamp) {
		t.Errorf("Expected timestamp %v, got %v", event.Timestamp, entry.Timestamp)
	}

	_, err = NewAnswerLogEntry("s", card, AnswerEvent{CardID: card.ID, Outcome: "meh", Timestamp: testNow})
	if err != ErrInvalidReviewOutcome {
		t.Errorf("Expected %v, got %v", ErrInvalidReviewOutcome, err)
	}
}

func TestNewDeck(t *testing.T) {
	t.Parallel()
	owner := uuid.New()

	deck, err := NewDeck(owner, "  Spanish A1 ", "es", true, testNow)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if deck.Title != "Spanish A1" {
		t.Errorf("Expected trimmed title, got %q", deck.Title)
	}
	if !deck.Ordered {
		t.Error("Expected ordered deck")
	}

	if _, err := NewDeck(uuid.Nil, "t", "es", false, testNow); err != ErrDeckOwnerIDEmpty {
		t.Errorf("Expected %v, got %v", ErrDeckOwnerIDEmpty, err)
	}
	if _, err := NewDeck(owner, " ", "es", false, testNow); err != ErrDeckTitleEmpty {
		t.Errorf("Expected %v, got %v", ErrDeckTitleEmpty, err)
	}
	if _, err := NewDeck(owner, "t", "", false, testNow); err != ErrDeckLanguage {
		t.Errorf("Expected %v, got %v", ErrDeckLanguage, err)
	}
}
