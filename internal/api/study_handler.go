package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/api/shared"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/platform/logger"
	"github.com/phrazzld/scry-srs/internal/service/study"
	"github.com/samber/lo"
)

// SessionIDHeader carries the session an answer batch was recorded under.
const SessionIDHeader = "X-Session-Id"

// MaxAnswersPerBatch bounds the size of one answer batch.
const MaxAnswersPerBatch = 1000

// StudyHandler handles study session and answer requests.
type StudyHandler struct {
	study  study.Service
	logger *slog.Logger
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(studyService study.Service, logger *slog.Logger) *StudyHandler {
	if studyService == nil {
		panic("studyService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StudyHandler{
		study:  studyService,
		logger: logger.With(slog.String("component", "study_handler")),
	}
}

// GetSession handles GET /api/decks/{deckID}/study.
func (h *StudyHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	ownerID, ids, ok := ownerAndPathUUIDs(w, r, "deckID")
	if !ok {
		return
	}

	sess, err := h.study.GetSession(r.Context(), ownerID, ids[0])
	if err != nil {
		HandleAPIError(w, r, err, "Failed to build study session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(sess))
}

// SubmitAnswers handles POST /api/answers?session_id=...
//
// The body is a JSON array of answers. The batch is applied atomically; on
// success the response is 204 with the session ID in SessionIDHeader.
func (h *StudyHandler) SubmitAnswers(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req []AnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if len(req) > MaxAnswersPerBatch {
		shared.RespondWithError(w, r, http.StatusRequestEntityTooLarge, "Too many answers in one batch")
		return
	}
	if err := shared.ValidateEach(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	answerEvents := lo.Map(req, func(a AnswerRequest, _ int) domain.AnswerEvent {
		return domain.AnswerEvent{
			CardID:    uuid.MustParse(a.CardID),
			Outcome:   domain.ReviewOutcome(a.Scenario),
			Timestamp: time.Unix(a.Timestamp, 0).UTC(),
		}
	})

	sessionID, err := h.study.SubmitAnswers(r.Context(), ownerID, r.URL.Query().Get("session_id"), answerEvents)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit answers")
		return
	}

	log.Debug("answers submitted",
		slog.String("session_id", sessionID),
		slog.Int("answers", len(answerEvents)))

	w.Header().Set(SessionIDHeader, sessionID)
	w.WriteHeader(http.StatusNoContent)
}
