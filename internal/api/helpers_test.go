package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/api/shared"
	"github.com/phrazzld/scry-srs/internal/mocks"
	"github.com/stretchr/testify/require"
)

// newTestRouter mounts the handlers the way the server does, with ownerID
// injected in place of token authentication. A nil ownerID leaves requests
// unauthenticated.
func newTestRouter(decks *mocks.MockDeckService, studies *mocks.MockStudyService, ownerID uuid.UUID) http.Handler {
	deckHandler := NewDeckHandler(decks, nil)
	studyHandler := NewStudyHandler(studies, nil)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if ownerID != uuid.Nil {
				req = req.WithContext(shared.WithUserID(req.Context(), ownerID))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Get("/api/decks", deckHandler.ListDecks)
	r.Post("/api/decks", deckHandler.CreateDeck)
	r.Get("/api/decks/{deckID}", deckHandler.GetDeck)
	r.Post("/api/decks/{deckID}/cards", deckHandler.CreateCard)
	r.Patch("/api/decks/{deckID}/cards/{cardID}", deckHandler.UpdateCard)
	r.Delete("/api/decks/{deckID}/cards/{cardID}", deckHandler.DeleteCard)
	r.Get("/api/decks/{deckID}/study", studyHandler.GetSession)
	r.Post("/api/answers", studyHandler.SubmitAnswers)
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
