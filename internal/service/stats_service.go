package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
	"github.com/PengWorks1114/vocabularydb/internal/store"
)

// ErrInvalidStatsRange indicates a stats query whose start is after its end.
var ErrInvalidStatsRange = errors.New("stats range start must not be after end")

// StatsService provides read models over the review log.
type StatsService interface {
	// DailyReviewStats aggregates the user's review activity per UTC
	// calendar day over [from, to].
	DailyReviewStats(
		ctx context.Context,
		userID uuid.UUID,
		from, to time.Time,
	) ([]store.DailyReviewCount, error)

	// WordReviewHistory lists a word's review log entries for the user,
	// newest first.
	// Returns ErrWordNotFound or ErrNotOwned.
	WordReviewHistory(ctx context.Context, userID, wordID uuid.UUID) ([]*domain.ReviewLog, error)
}

// StatsServiceImpl implements the StatsService interface.
type StatsServiceImpl struct {
	logStore      store.ReviewLogStore
	wordStore     store.WordStore
	wordbookStore store.WordbookStore
	logger        *slog.Logger
}

// NewStatsService creates a new StatsService.
func NewStatsService(
	logStore store.ReviewLogStore,
	wordStore store.WordStore,
	wordbookStore store.WordbookStore,
	logger *slog.Logger,
) StatsService {
	if logStore == nil {
		panic("logStore cannot be nil")
	}
	if wordStore == nil {
		panic("wordStore cannot be nil")
	}
	if wordbookStore == nil {
		panic("wordbookStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsServiceImpl{
		logStore:      logStore,
		wordStore:     wordStore,
		wordbookStore: wordbookStore,
		logger:        logger.With("component", "stats_service"),
	}
}

// DailyReviewStats aggregates the user's review activity per UTC calendar day.
func (s *StatsServiceImpl) DailyReviewStats(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
) ([]store.DailyReviewCount, error) {
	if from.After(to) {
		return nil, ErrInvalidStatsRange
	}

	counts, err := s.logStore.CountByDay(ctx, userID, from, to)
	if err != nil {
		s.logger.Error("failed to aggregate review stats",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to aggregate review stats: %w", err)
	}
	return counts, nil
}

// WordReviewHistory lists a word's review log entries, newest first.
func (s *StatsServiceImpl) WordReviewHistory(
	ctx context.Context,
	userID, wordID uuid.UUID,
) ([]*domain.ReviewLog, error) {
	word, err := s.wordStore.GetByID(ctx, wordID)
	if err != nil {
		if errors.Is(err, store.ErrWordNotFound) {
			return nil, ErrWordNotFound
		}
		return nil, fmt.Errorf("failed to retrieve word: %w", err)
	}

	book, err := s.wordbookStore.GetByID(ctx, word.WordbookID)
	if err != nil {
		if errors.Is(err, store.ErrWordbookNotFound) {
			return nil, ErrWordNotFound
		}
		return nil, fmt.Errorf("failed to retrieve wordbook: %w", err)
	}
	if book.UserID != userID {
		return nil, ErrNotOwned
	}

	logs, err := s.logStore.ListByWord(ctx, wordID, userID)
	if err != nil {
		s.logger.Error("failed to list review history",
			"error", err,
			"word_id", wordID)
		return nil, fmt.Errorf("failed to list review history: %w", err)
	}
	return logs, nil
}
