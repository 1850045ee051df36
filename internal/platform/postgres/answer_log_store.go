package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/platform/logger"
	"github.com/phrazzld/scry-srs/internal/store"
)

// PostgresAnswerLogStore implements store.AnswerLogStore on the answer_log table.
type PostgresAnswerLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAnswerLogStore creates a new PostgreSQL answer log store.
// If logger is nil, a default logger will be used.
func NewPostgresAnswerLogStore(db store.DBTX, logger *slog.Logger) *PostgresAnswerLogStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAnswerLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "answer_log_store")),
	}
}

var _ store.AnswerLogStore = (*PostgresAnswerLogStore)(nil)

// WithTx implements store.AnswerLogStore.WithTx
func (s *PostgresAnswerLogStore) WithTx(tx *sql.Tx) store.AnswerLogStore {
	return &PostgresAnswerLogStore{
		db:     tx,
		logger: s.logger,
	}
}

// CreateMultiple implements store.AnswerLogStore.CreateMultiple
func (s *PostgresAnswerLogStore) CreateMultiple(ctx context.Context, entries []*domain.AnswerLogEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(entries) == 0 {
		return nil
	}

	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			log.Warn("answer log entry validation failed",
				slog.String("error", err.Error()),
				slog.String("card_id", entry.CardID.String()))
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
	}

	stmt, err := s.db.PrepareContext(ctx, `
		INSERT INTO answer_log (id, session_id, deck_id, card_id, scenario, answered_at, state_before)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)
	if err != nil {
		log.Error("failed to prepare answer log insert",
			slog.String("error", err.Error()))
		return MapError(err)
	}
	defer func() { _ = stmt.Close() }()

	for _, entry := range entries {
		before, err := json.Marshal(entry.Before)
		if err != nil {
			return fmt.Errorf("encode state of card %s: %w", entry.CardID, err)
		}

		if _, err := stmt.ExecContext(ctx,
			entry.ID,
			entry.SessionID,
			entry.DeckID,
			entry.CardID,
			string(entry.Outcome),
			entry.Timestamp.UTC(),
			string(before),
		); err != nil {
			log.Error("failed to insert answer log entry",
				slog.String("error", err.Error()),
				slog.String("entry_id", entry.ID.String()),
				slog.String("card_id", entry.CardID.String()))
			return MapError(err)
		}
	}

	log.Debug("answer log entries created", slog.Int("count", len(entries)))
	return nil
}

// ListByDeckSince implements store.AnswerLogStore.ListByDeckSince
func (s *PostgresAnswerLogStore) ListByDeckSince(
	ctx context.Context,
	deckID uuid.UUID,
	since time.Time,
) ([]*domain.AnswerLogEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, session_id, deck_id, card_id, scenario, answered_at, state_before
		FROM answer_log
		WHERE deck_id = $1 AND answered_at >= $2
		ORDER BY answered_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, deckID, since.UTC())
	if err != nil {
		log.Error("failed to list answer log",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]*domain.AnswerLogEntry, 0)
	for rows.Next() {
		var (
			entry   domain.AnswerLogEntry
			outcome string
			before  []byte
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.SessionID,
			&entry.DeckID,
			&entry.CardID,
			&outcome,
			&entry.Timestamp,
			&before,
		); err != nil {
			return nil, MapError(err)
		}
		if err := json.Unmarshal(before, &entry.Before); err != nil {
			return nil, fmt.Errorf("decode state of log entry %s: %w", entry.ID, err)
		}
		entry.Outcome = domain.ReviewOutcome(outcome)
		entry.Timestamp = entry.Timestamp.UTC()
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return entries, nil
}
