package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/api/shared"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/platform/logger"
	"github.com/phrazzld/scry-srs/internal/service"
	"github.com/samber/lo"
)

// DeckHandler handles deck and card management requests.
type DeckHandler struct {
	decks  service.DeckService
	logger *slog.Logger
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(decks service.DeckService, logger *slog.Logger) *DeckHandler {
	if decks == nil {
		panic("decks cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DeckHandler{
		decks:  decks,
		logger: logger.With(slog.String("component", "deck_handler")),
	}
}

// ListDecks handles GET /api/decks.
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	summaries, err := h.decks.ListDecks(r.Context(), ownerID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list decks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, lo.Map(summaries, summaryToResponse))
}

// CreateDeck handles POST /api/decks.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req CreateDeckRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	deck, err := h.decks.CreateDeck(r.Context(), ownerID, service.CreateDeckParams{
		Title:    req.Title,
		Language: req.Language,
		Ordered:  req.Ordered,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create deck")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("deck created",
		slog.String("deck_id", deck.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, deckToResponse(deck))
}

// GetDeck handles GET /api/decks/{deckID}.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	ownerID, ids, ok := ownerAndPathUUIDs(w, r, "deckID")
	if !ok {
		return
	}

	detail, err := h.decks.GetDeck(r.Context(), ownerID, ids[0])
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get deck")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, deckDetailToResponse(detail))
}

// CreateCard handles POST /api/decks/{deckID}/cards.
func (h *DeckHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	ownerID, ids, ok := ownerAndPathUUIDs(w, r, "deckID")
	if !ok {
		return
	}

	var req CreateCardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.decks.CreateCard(r.Context(), ownerID, ids[0], service.CreateCardParams{
		Content: domain.CardContent{
			Front:    req.Front,
			Back:     req.Back,
			SoundURI: req.SoundURI,
			ImageURI: req.ImageURI,
			Reverse:  req.Reverse,
		},
		Expedited: req.Expedited,
		// validated as UUIDs above
		DependsOn: lo.Map(req.DependsOn, func(id string, _ int) uuid.UUID { return uuid.MustParse(id) }),
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, cardToResponse(card))
}

// UpdateCard handles PATCH /api/decks/{deckID}/cards/{cardID}.
func (h *DeckHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	ownerID, ids, ok := ownerAndPathUUIDs(w, r, "deckID", "cardID")
	if !ok {
		return
	}

	var req UpdateCardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.decks.UpdateCard(r.Context(), ownerID, ids[0], ids[1], service.CardPatch{
		Front:    req.Front,
		Back:     req.Back,
		SoundURI: req.SoundURI,
		ImageURI: req.ImageURI,
		Reverse:  req.Reverse,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// DeleteCard handles DELETE /api/decks/{deckID}/cards/{cardID}.
func (h *DeckHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	ownerID, ids, ok := ownerAndPathUUIDs(w, r, "deckID", "cardID")
	if !ok {
		return
	}

	if err := h.decks.DeleteCard(r.Context(), ownerID, ids[0], ids[1]); err != nil {
		HandleAPIError(w, r, err, "Failed to delete card")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
