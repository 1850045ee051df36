package study

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/domain/analytics"
	"github.com/phrazzld/scry-srs/internal/domain/answers"
	"github.com/phrazzld/scry-srs/internal/domain/session"
	"github.com/phrazzld/scry-srs/internal/domain/srs"
	"github.com/phrazzld/scry-srs/internal/events"
	"github.com/phrazzld/scry-srs/internal/platform/logger"
	"github.com/phrazzld/scry-srs/internal/service"
	"github.com/phrazzld/scry-srs/internal/store"
	"github.com/samber/lo"
)

// Option configures the study service.
type Option func(*serviceImpl)

// WithClock sets the time source used to build sessions.
func WithClock(clock func() time.Time) Option {
	return func(s *serviceImpl) {
		s.clock = clock
	}
}

// WithShuffler sets the random source used to order session queues.
func WithShuffler(shuffle session.Shuffler) Option {
	return func(s *serviceImpl) {
		s.composerOpts = append(s.composerOpts, session.WithShuffler(shuffle))
	}
}

type serviceImpl struct {
	db        store.TxBeginner
	deckStore store.DeckStore
	cardStore store.CardStore
	logStore  store.AnswerLogStore
	srs       srs.Service
	emitter   events.EventEmitter

	composer     *session.Composer
	composerOpts []session.ComposerOption
	processor    *answers.Processor
	clock        func() time.Time
	logger       *slog.Logger
}

var _ Service = (*serviceImpl)(nil)

// NewService creates a new study service.
// It returns an error if any of the required dependencies are nil.
func NewService(
	db store.TxBeginner,
	deckStore store.DeckStore,
	cardStore store.CardStore,
	logStore store.AnswerLogStore,
	srsService srs.Service,
	emitter events.EventEmitter,
	logger *slog.Logger,
	opts ...Option,
) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if deckStore == nil {
		return nil, fmt.Errorf("deckStore cannot be nil")
	}
	if cardStore == nil {
		return nil, fmt.Errorf("cardStore cannot be nil")
	}
	if logStore == nil {
		return nil, fmt.Errorf("logStore cannot be nil")
	}
	if srsService == nil {
		return nil, fmt.Errorf("srsService cannot be nil")
	}
	if emitter == nil {
		return nil, fmt.Errorf("emitter cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &serviceImpl{
		db:        db,
		deckStore: deckStore,
		cardStore: cardStore,
		logStore:  logStore,
		srs:       srsService,
		emitter:   emitter,
		processor: answers.NewProcessor(srsService),
		clock:     time.Now,
		logger:    logger.With(slog.String("component", "study_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.composer = session.NewComposer(srsService, s.composerOpts...)

	return s, nil
}

func (s *serviceImpl) now() time.Time {
	return s.clock().UTC()
}

func newSessionID(now time.Time) string {
	return ulid.MustNew(ulid.Timestamp(now), ulid.Monotonic(rand.Reader, 0)).String()
}

// GetSession implements Service.GetSession
func (s *serviceImpl) GetSession(ctx context.Context, ownerID, deckID uuid.UUID) (*Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now()

	deck, err := service.OwnedDeck(ctx, s.deckStore, ownerID, deckID)
	if err != nil {
		return nil, service.NewServiceError("get_session", "deck unavailable", err)
	}

	cards, err := s.cardStore.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, service.NewServiceError("get_session", "failed to list cards", err)
	}

	view, err := s.composer.BuildSession(deck, cards, now)
	if err != nil {
		return nil, service.NewServiceError("get_session", "failed to compose session", err)
	}

	workload, err := session.Workload(s.srs, cards, now)
	if err != nil {
		return nil, service.NewServiceError("get_session", "failed to project workload", err)
	}

	entries, err := s.logStore.ListByDeckSince(ctx, deckID, analytics.Since(now))
	if err != nil {
		return nil, service.NewServiceError("get_session", "failed to load answer log", err)
	}

	boundary := s.srs.Params().Boundary
	sess := &Session{
		ID:              newSessionID(now),
		Deck:            deck,
		NewCards:        view.NewCards,
		DueCards:        view.DueCards,
		DueDistribution: session.DueDistribution(cards, now, boundary),
		Workload:        workload,
		RecallGraphs:    analytics.RecallGraphs(entries, boundary),
		GeneratedAt:     now,
	}

	log.Debug("study session built",
		slog.String("session_id", sess.ID),
		slog.String("deck_id", deckID.String()),
		slog.Int("new_cards", len(sess.NewCards)),
		slog.Int("due_cards", len(sess.DueCards)))

	return sess, nil
}

// SubmitAnswers implements Service.SubmitAnswers
func (s *serviceImpl) SubmitAnswers(
	ctx context.Context,
	ownerID uuid.UUID,
	sessionID string,
	answerEvents []domain.AnswerEvent,
) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if sessionID == "" {
		sessionID = newSessionID(s.now())
	}
	if len(answerEvents) == 0 {
		return sessionID, nil
	}

	cardIDs := lo.Uniq(lo.Map(answerEvents, func(e domain.AnswerEvent, _ int) uuid.UUID {
		return e.CardID
	}))

	var result *answers.BatchResult
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		cardStore := s.cardStore.WithTx(tx)
		deckStore := s.deckStore.WithTx(tx)

		locked, err := cardStore.LockByIDs(ctx, cardIDs)
		if err != nil {
			return err
		}

		deckIDs := lo.Uniq(lo.Map(locked, func(c *domain.Card, _ int) uuid.UUID { return c.DeckID }))
		for _, deckID := range deckIDs {
			if _, err := service.OwnedDeck(ctx, deckStore, ownerID, deckID); err != nil {
				return err
			}
		}

		result, err = s.processor.Apply(sessionID, answerEvents,
			lo.KeyBy(locked, func(c *domain.Card) uuid.UUID { return c.ID }))
		if err != nil {
			return err
		}

		// mutations and log entries are parallel, in apply order
		for i, mutation := range result.Mutations {
			answeredAt := result.LogEntries[i].Timestamp
			if err := cardStore.ApplyUpdate(ctx, mutation.CardID, mutation.ExpectedVersion, mutation.Update, answeredAt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Warn("answer batch rejected",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID),
			slog.Int("answers", len(answerEvents)))
		return "", service.NewServiceError("submit_answers", "failed to apply answers", err)
	}

	log.Info("answer batch applied",
		slog.String("session_id", sessionID),
		slog.Int("answers", len(answerEvents)),
		slog.Int("updates", len(result.Mutations)))

	s.emitApplied(ctx, sessionID, result.LogEntries)
	return sessionID, nil
}

// emitApplied hands the log entries to the event handlers. The card updates
// are already committed, so failures are only logged.
func (s *serviceImpl) emitApplied(ctx context.Context, sessionID string, entries []*domain.AnswerLogEntry) {
	if len(entries) == 0 {
		return
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := events.NewAnswersAppliedEvent(sessionID, entries)
	if err != nil {
		log.Error("failed to build answers applied event",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID))
		return
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Error("failed to record answer log",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID),
			slog.Int("entries", len(entries)))
	}
}
