package domain

import (
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
)

// MaxSRSLevel is the highest scheduling level a card can reach.
// Levels index into the interval table, so the table has MaxSRSLevel+1 entries.
const MaxSRSLevel = 14

// OrderingStep is the gap left between consecutive card orderings so that a
// card can later be inserted between two others without renumbering.
const OrderingStep int64 = 10000

// DefaultCardType is the presentation type of plain front/back cards.
const DefaultCardType = "default"

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardDeckIDEmpty is returned when a card's deck ID is empty or nil.
	ErrCardDeckIDEmpty = errors.New("card deck ID cannot be empty")

	// ErrCardContentEmpty is returned when a card has neither front nor back text.
	ErrCardContentEmpty = errors.New("card content cannot be empty")

	// ErrCardNewWithSchedule is returned when a new card carries a level or due date.
	ErrCardNewWithSchedule = errors.New("new card cannot have an srs level or due date")

	// ErrCardMissingDue is returned when a reviewed card has no due date.
	ErrCardMissingDue = errors.New("reviewed card must have a due date")

	// ErrCardLevelOutOfRange is returned when the srs level is outside [0, MaxSRSLevel].
	ErrCardLevelOutOfRange = errors.New("srs level out of range")

	// ErrCardCountersInvalid is returned when hits exceed answers or either is negative.
	ErrCardCountersInvalid = errors.New("card hit counters are inconsistent")

	// ErrCardSelfDependency is returned when a card lists itself as a dependency.
	ErrCardSelfDependency = errors.New("card cannot depend on itself")
)

// Card is a unit of learnable content together with its scheduling state.
//
// A card is either new (IsNew, no SRSLevel, zero Due) or reviewed (not IsNew,
// SRSLevel within range, non-zero Due). Absent timestamps are zero values.
// HitRatio is only meaningful once Answers > 0.
type Card struct {
	ID       uuid.UUID `json:"id"`
	DeckID   uuid.UUID `json:"deck_id"`
	Front    string    `json:"front"`
	Back     string    `json:"back"`
	SoundURI string    `json:"sound_uri,omitempty"`
	ImageURI string    `json:"image_uri,omitempty"`
	Type     string    `json:"type"`
	Reverse  bool      `json:"reverse"`

	Ordering  int64       `json:"ordering"`
	Expedited bool        `json:"expedited"`
	DependsOn []uuid.UUID `json:"depends_on"`

	IsNew        bool      `json:"is_new"`
	SRSLevel     int       `json:"srs_level"`
	Due          time.Time `json:"due"`
	LastAnswered time.Time `json:"last_answered"`
	Hits         int       `json:"hits"`
	Answers      int       `json:"answers"`
	HitRatio     float64   `json:"hit_ratio"`

	// Version is bumped by the store on every scheduling write.
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CardContent holds the user-editable fields of a card.
type CardContent struct {
	Front    string
	Back     string
	SoundURI string
	ImageURI string
	Reverse  bool
}

// NewCard creates a new, never-reviewed card in the given deck.
// Ordering is supplied by the caller (see NextOrdering).
func NewCard(deckID uuid.UUID, content CardContent, ordering int64, now time.Time) (*Card, error) {
	card := &Card{
		ID:        uuid.New(),
		DeckID:    deckID,
		Front:     content.Front,
		Back:      content.Back,
		SoundURI:  content.SoundURI,
		ImageURI:  content.ImageURI,
		Type:      DefaultCardType,
		Reverse:   content.Reverse,
		Ordering:  ordering,
		IsNew:     true,
		Version:   1,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// NextOrdering returns the ordering for a card appended after maxOrdering.
// hasCards reports whether the deck holds any card yet.
func NextOrdering(maxOrdering int64, hasCards bool) int64 {
	if !hasCards {
		return 0
	}
	return maxOrdering + OrderingStep
}

// Validate checks the card's identity and scheduling invariants.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.DeckID == uuid.Nil {
		return ErrCardDeckIDEmpty
	}

	if c.Front == "" && c.Back == "" {
		return ErrCardContentEmpty
	}

	if slices.Contains(c.DependsOn, c.ID) {
		return ErrCardSelfDependency
	}

	if c.IsNew {
		if c.SRSLevel != 0 || !c.Due.IsZero() {
			return ErrCardNewWithSchedule
		}
	} else {
		if c.Due.IsZero() {
			return ErrCardMissingDue
		}
		if c.SRSLevel < 0 || c.SRSLevel > MaxSRSLevel {
			return ErrCardLevelOutOfRange
		}
	}

	if c.Hits < 0 || c.Answers < 0 || c.Hits > c.Answers {
		return ErrCardCountersInvalid
	}

	return nil
}

// UpdateContent replaces the editable fields and bumps UpdatedAt.
// The original content is restored if the result fails validation.
func (c *Card) UpdateContent(content CardContent, now time.Time) error {
	orig := c.Content()

	c.applyContent(content)
	if err := c.Validate(); err != nil {
		c.applyContent(orig)
		return err
	}

	c.UpdatedAt = now.UTC()
	return nil
}

// Content returns the editable fields of the card.
func (c *Card) Content() CardContent {
	return CardContent{
		Front:    c.Front,
		Back:     c.Back,
		SoundURI: c.SoundURI,
		ImageURI: c.ImageURI,
		Reverse:  c.Reverse,
	}
}

func (c *Card) applyContent(content CardContent) {
	c.Front = content.Front
	c.Back = content.Back
	c.SoundURI = content.SoundURI
	c.ImageURI = content.ImageURI
	c.Reverse = content.Reverse
}

// HasDue reports whether the card carries a due date.
func (c *Card) HasDue() bool {
	return !c.Due.IsZero()
}

// IsDue reports whether the card has a due date at or before now.
func (c *Card) IsDue(now time.Time) bool {
	return c.HasDue() && !c.Due.After(now)
}

// Snapshot captures the scheduling state of the card.
func (c *Card) Snapshot() StateSnapshot {
	snap := StateSnapshot{
		IsNew:   c.IsNew,
		Answers: c.Answers,
		Hits:    c.Hits,
	}
	if !c.IsNew {
		level := c.SRSLevel
		snap.SRSLevel = &level
	}
	if !c.Due.IsZero() {
		due := c.Due
		snap.Due = &due
	}
	if !c.LastAnswered.IsZero() {
		last := c.LastAnswered
		snap.LastAnswered = &last
	}
	if c.Answers > 0 {
		ratio := c.HitRatio
		snap.HitRatio = &ratio
	}
	return snap
}

// Clone returns a deep copy of the card.
func (c *Card) Clone() *Card {
	cp := *c
	cp.DependsOn = slices.Clone(c.DependsOn)
	return &cp
}
