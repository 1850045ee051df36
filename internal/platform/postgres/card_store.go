package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/domain/srs"
	"github.com/phrazzld/scry-srs/internal/platform/logger"
	"github.com/phrazzld/scry-srs/internal/store"
	"github.com/samber/lo"
)

const cardColumns = `id, deck_id, front, back, sound_uri, image_uri, type, reverse,
	ordering, expedited, depends_on, is_new, srs_level, due, last_answered,
	hits, answers, hit_ratio, version, created_at, updated_at`

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the CardStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTx implements store.CardStore.WithTx
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.CardStore.Create
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during creation",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	dependsOn, err := encodeDependsOn(card.DependsOn)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21)
	`

	_, err = s.db.ExecContext(ctx, query,
		card.ID,
		card.DeckID,
		card.Front,
		card.Back,
		card.SoundURI,
		card.ImageURI,
		card.Type,
		card.Reverse,
		card.Ordering,
		card.Expedited,
		dependsOn,
		card.IsNew,
		nullLevel(card),
		nullTime(card.Due),
		nullTime(card.LastAnswered),
		card.Hits,
		card.Answers,
		nullHitRatio(card),
		card.Version,
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to insert card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()),
			slog.String("deck_id", card.DeckID.String()))
		return MapError(err)
	}

	log.Debug("card created", slog.String("card_id", card.ID.String()))
	return nil
}

// GetByID implements store.CardStore.GetByID
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`

	card, err := scanCard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found", slog.String("card_id", id.String()))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card by ID",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, MapError(err)
	}

	return card, nil
}

// ListByDeck implements store.CardStore.ListByDeck
func (s *PostgresCardStore) ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE deck_id = $1 ORDER BY ordering, id`

	cards, err := s.queryCards(ctx, query, deckID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list cards",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, err
	}
	return cards, nil
}

// LockByIDs implements store.CardStore.LockByIDs
func (s *PostgresCardStore) LockByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Card, error) {
	ids = lo.Uniq(ids)
	if len(ids) == 0 {
		return []*domain.Card{}, nil
	}

	placeholders := lo.Map(ids, func(_ uuid.UUID, i int) string {
		return fmt.Sprintf("$%d", i+1)
	})
	args := lo.Map(ids, func(id uuid.UUID, _ int) any { return id })

	// Lock in a stable order so concurrent batches cannot deadlock.
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id IN (` +
		strings.Join(placeholders, ", ") + `) ORDER BY id FOR UPDATE`

	cards, err := s.queryCards(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to lock cards",
			slog.String("error", err.Error()),
			slog.Int("card_count", len(ids)))
		return nil, err
	}
	return cards, nil
}

// MaxOrdering implements store.CardStore.MaxOrdering
func (s *PostgresCardStore) MaxOrdering(ctx context.Context, deckID uuid.UUID) (int64, bool, error) {
	var maxOrdering sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(ordering) FROM cards WHERE deck_id = $1`, deckID,
	).Scan(&maxOrdering)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get max ordering",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return 0, false, MapError(err)
	}
	return maxOrdering.Int64, maxOrdering.Valid, nil
}

// UpdateContent implements store.CardStore.UpdateContent
func (s *PostgresCardStore) UpdateContent(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during content update",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE cards
		SET front = $1, back = $2, sound_uri = $3, image_uri = $4, reverse = $5, updated_at = $6
		WHERE id = $7
	`

	result, err := s.db.ExecContext(ctx, query,
		card.Front,
		card.Back,
		card.SoundURI,
		card.ImageURI,
		card.Reverse,
		card.UpdatedAt,
		card.ID,
	)
	if err != nil {
		log.Error("failed to update card content",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrCardNotFound); err != nil {
		return err
	}

	log.Debug("card content updated", slog.String("card_id", card.ID.String()))
	return nil
}

// ApplyUpdate implements store.CardStore.ApplyUpdate
func (s *PostgresCardStore) ApplyUpdate(
	ctx context.Context,
	cardID uuid.UUID,
	expectedVersion int64,
	update srs.CardUpdate,
	now time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE cards
		SET due = $1, srs_level = $2, is_new = $3, hit_ratio = $4, last_answered = $5,
			hits = hits + $6, answers = answers + $7, version = version + 1, updated_at = $8
		WHERE id = $9 AND version = $10
	`

	result, err := s.db.ExecContext(ctx, query,
		update.Set.Due,
		update.Set.SRSLevel,
		update.Set.IsNew,
		update.Set.HitRatio,
		update.Set.LastAnswered,
		update.Inc.Hits,
		update.Inc.Answers,
		now.UTC(),
		cardID,
		expectedVersion,
	)
	if err != nil {
		log.Error("failed to apply card update",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return MapError(err)
	}

	err = CheckRowsAffected(result, store.ErrCardNotFound)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrCardNotFound) {
		return err
	}

	// No row matched: tell a missing card apart from a stale version.
	var current int64
	err = s.db.QueryRowContext(ctx, `SELECT version FROM cards WHERE id = $1`, cardID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrCardNotFound
	}
	if err != nil {
		return MapError(err)
	}

	log.Warn("card version mismatch",
		slog.String("card_id", cardID.String()),
		slog.Int64("expected_version", expectedVersion),
		slog.Int64("current_version", current))
	return store.NewStoreError("card", "update",
		fmt.Sprintf("expected version %d, found %d", expectedVersion, current),
		store.ErrConflict)
}

// Delete implements store.CardStore.Delete
func (s *PostgresCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrCardNotFound); err != nil {
		return err
	}

	log.Debug("card deleted", slog.String("card_id", id.String()))
	return nil
}

func (s *PostgresCardStore) queryCards(ctx context.Context, query string, args ...any) ([]*domain.Card, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	cards := make([]*domain.Card, 0)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return cards, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var (
		card         domain.Card
		dependsOn    []byte
		level        sql.NullInt64
		due          sql.NullTime
		lastAnswered sql.NullTime
		hitRatio     sql.NullFloat64
	)

	err := row.Scan(
		&card.ID,
		&card.DeckID,
		&card.Front,
		&card.Back,
		&card.SoundURI,
		&card.ImageURI,
		&card.Type,
		&card.Reverse,
		&card.Ordering,
		&card.Expedited,
		&dependsOn,
		&card.IsNew,
		&level,
		&due,
		&lastAnswered,
		&card.Hits,
		&card.Answers,
		&hitRatio,
		&card.Version,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(dependsOn) > 0 {
		if err := json.Unmarshal(dependsOn, &card.DependsOn); err != nil {
			return nil, fmt.Errorf("decode depends_on of card %s: %w", card.ID, err)
		}
	}
	card.SRSLevel = int(level.Int64)
	card.Due = utcOrZero(due)
	card.LastAnswered = utcOrZero(lastAnswered)
	card.HitRatio = hitRatio.Float64
	card.CreatedAt = card.CreatedAt.UTC()
	card.UpdatedAt = card.UpdatedAt.UTC()

	return &card, nil
}

func encodeDependsOn(ids []uuid.UUID) (string, error) {
	if ids == nil {
		ids = []uuid.UUID{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encode depends_on: %w", err)
	}
	return string(b), nil
}

func nullLevel(card *domain.Card) any {
	if card.IsNew {
		return nil
	}
	return card.SRSLevel
}

func nullHitRatio(card *domain.Card) any {
	if card.Answers == 0 {
		return nil
	}
	return card.HitRatio
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}

func utcOrZero(t sql.NullTime) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time.UTC()
}
