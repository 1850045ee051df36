package study

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-srs/internal/events"
	"github.com/phrazzld/scry-srs/internal/platform/logger"
	"github.com/phrazzld/scry-srs/internal/store"
)

// AnswerLogHandler persists the log entries of applied answer batches.
type AnswerLogHandler struct {
	db       store.TxBeginner
	logStore store.AnswerLogStore
	logger   *slog.Logger
}

var _ events.EventHandler = (*AnswerLogHandler)(nil)

// NewAnswerLogHandler creates a handler writing to logStore.
func NewAnswerLogHandler(db store.TxBeginner, logStore store.AnswerLogStore, logger *slog.Logger) *AnswerLogHandler {
	if db == nil {
		panic("db cannot be nil")
	}
	if logStore == nil {
		panic("logStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AnswerLogHandler{
		db:       db,
		logStore: logStore,
		logger:   logger.With(slog.String("component", "answer_log_handler")),
	}
}

// HandleEvent implements events.EventHandler. Events of other types are ignored.
func (h *AnswerLogHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.TypeAnswersApplied {
		return nil
	}

	var payload events.AnswersApplied
	if err := event.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("decode %s event %s: %w", event.Type, event.ID, err)
	}
	if len(payload.Entries) == 0 {
		return nil
	}

	err := store.RunInTransaction(ctx, h.db, func(ctx context.Context, tx *sql.Tx) error {
		return h.logStore.WithTx(tx).CreateMultiple(ctx, payload.Entries)
	})
	if err != nil {
		return fmt.Errorf("write answer log for session %s: %w", payload.SessionID, err)
	}

	logger.FromContextOrDefault(ctx, h.logger).Debug("answer log written",
		slog.String("session_id", payload.SessionID),
		slog.Int("entries", len(payload.Entries)))
	return nil
}
