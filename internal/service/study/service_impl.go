package study

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
	"github.com/PengWorks1114/vocabularydb/internal/platform/logger"
	"github.com/PengWorks1114/vocabularydb/internal/session"
	"github.com/PengWorks1114/vocabularydb/internal/store"
)

// WordRepository is the word access the study service needs.
type WordRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error)
	ListByWordbook(ctx context.Context, wordbookID uuid.UUID) ([]*domain.Word, error)
	UpdateMastery(ctx context.Context, word *domain.Word) error
}

// WordbookRepository resolves wordbooks for ownership checks.
type WordbookRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wordbook, error)
}

// ScheduleRepository answers which of a wordbook's words are due, for
// sessions restricted to due items.
type ScheduleRepository interface {
	ListDue(
		ctx context.Context,
		wordbookID, userID uuid.UUID,
		dueBy time.Time,
		limit int,
	) ([]*domain.WordSchedule, error)
}

// WordCacheInvalidator evicts a wordbook's cached word listing after this
// service mutates word rows behind the cache's back. A nil invalidator is
// valid when no cache fronts word reads.
type WordCacheInvalidator interface {
	InvalidateWordCache(wordbookID uuid.UUID)
}

type serviceImpl struct {
	wordRepo     WordRepository
	wordbookRepo WordbookRepository
	scheduleRepo ScheduleRepository
	composer     *session.Composer
	invalidator  WordCacheInvalidator
	logger       *slog.Logger
}

// NewService creates a study Service implementation. A nil composer falls
// back to a time-seeded one. The invalidator may be nil when no word cache
// needs eviction on mastery writes.
func NewService(
	wordRepo WordRepository,
	wordbookRepo WordbookRepository,
	scheduleRepo ScheduleRepository,
	composer *session.Composer,
	invalidator WordCacheInvalidator,
	log *slog.Logger,
) Service {
	if wordRepo == nil {
		panic("wordRepo cannot be nil")
	}
	if wordbookRepo == nil {
		panic("wordbookRepo cannot be nil")
	}
	if scheduleRepo == nil {
		panic("scheduleRepo cannot be nil")
	}
	if composer == nil {
		composer = session.NewComposer(nil)
	}
	if log == nil {
		log = slog.Default()
	}

	return &serviceImpl{
		wordRepo:     wordRepo,
		wordbookRepo: wordbookRepo,
		scheduleRepo: scheduleRepo,
		composer:     composer,
		invalidator:  invalidator,
		logger:       log.With(slog.String("component", "study_service")),
	}
}

// DrawSession implements the Service interface.
func (s *serviceImpl) DrawSession(
	ctx context.Context,
	userID, wordbookID uuid.UUID,
	count int,
	mode session.Mode,
	direction session.Direction,
	dueOnly bool,
) ([]*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	pool, err := s.ownedWordbookWords(ctx, userID, wordbookID)
	if err != nil {
		return nil, err
	}

	if dueOnly {
		pool, err = s.dueSubset(ctx, userID, wordbookID, pool)
		if err != nil {
			return nil, err
		}
		if len(pool) == 0 {
			return nil, session.ErrNoWordsAvailable
		}
	}

	drawn, err := s.composer.Draw(pool, count, mode, direction)
	if err != nil {
		// Composer sentinels describe the draw outcome, not a failure of
		// this service; callers match on them directly.
		if errors.Is(err, session.ErrInvalidCount) ||
			errors.Is(err, session.ErrNoWordsAvailable) ||
			errors.Is(err, session.ErrNoFilterMatches) {
			return nil, err
		}
		return nil, NewServiceError("DrawSession", "failed to compose session", err)
	}

	log.Debug("Composed study session",
		slog.String("wordbook_id", wordbookID.String()),
		slog.String("mode", string(mode)),
		slog.Bool("due_only", dueOnly),
		slog.Int("requested", count),
		slog.Int("drawn", len(drawn)))
	return drawn, nil
}

// dueSubset narrows the pool to words whose schedule is due now. A word
// that was never scheduled has no due date and is excluded.
func (s *serviceImpl) dueSubset(
	ctx context.Context,
	userID, wordbookID uuid.UUID,
	pool []*domain.Word,
) ([]*domain.Word, error) {
	schedules, err := s.scheduleRepo.ListDue(ctx, wordbookID, userID, time.Now().UTC(), 0)
	if err != nil {
		return nil, NewServiceError("DrawSession", "failed to list due schedules", err)
	}

	due := make(map[uuid.UUID]struct{}, len(schedules))
	for _, schedule := range schedules {
		due[schedule.WordID] = struct{}{}
	}

	subset := make([]*domain.Word, 0, len(due))
	for _, word := range pool {
		if _, ok := due[word.ID]; ok {
			subset = append(subset, word)
		}
	}
	return subset, nil
}

// RecordStudy implements the Service interface.
func (s *serviceImpl) RecordStudy(
	ctx context.Context,
	userID, wordID uuid.UUID,
	response domain.RecallResponse,
	now time.Time,
) (*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !response.IsValid() {
		return nil, ErrInvalidResponse
	}

	word, err := s.ownedWord(ctx, userID, wordID)
	if err != nil {
		return nil, err
	}

	word.Proficiency = domain.NextProficiency(word.Proficiency, response)
	word.StudyCount++
	word.LastReviewedAt = &now

	if err := s.wordRepo.UpdateMastery(ctx, word); err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrWordNotFound
		}
		return nil, NewServiceError("RecordStudy", "failed to update word mastery", err)
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateWordCache(word.WordbookID)
	}

	log.Debug("Recorded casual study answer",
		slog.String("word_id", wordID.String()),
		slog.String("response", string(response)),
		slog.Int("proficiency", word.Proficiency))
	return word, nil
}

// ownedWord loads a word and verifies it sits in one of the user's
// wordbooks. A word whose wordbook has vanished is reported as not found
// rather than leaking another user's data.
func (s *serviceImpl) ownedWord(
	ctx context.Context,
	userID, wordID uuid.UUID,
) (*domain.Word, error) {
	word, err := s.wordRepo.GetByID(ctx, wordID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrWordNotFound
		}
		return nil, NewServiceError("GetWord", "failed to retrieve word", err)
	}

	wordbook, err := s.wordbookRepo.GetByID(ctx, word.WordbookID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrWordNotFound
		}
		return nil, NewServiceError("GetWord", "failed to retrieve wordbook", err)
	}
	if wordbook.UserID != userID {
		return nil, ErrWordNotOwned
	}
	return word, nil
}

// ownedWordbookWords verifies wordbook ownership and returns its words.
func (s *serviceImpl) ownedWordbookWords(
	ctx context.Context,
	userID, wordbookID uuid.UUID,
) ([]*domain.Word, error) {
	wordbook, err := s.wordbookRepo.GetByID(ctx, wordbookID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrWordbookNotFound
		}
		return nil, NewServiceError("GetWordbook", "failed to retrieve wordbook", err)
	}
	if wordbook.UserID != userID {
		return nil, ErrWordbookNotOwned
	}

	words, err := s.wordRepo.ListByWordbook(ctx, wordbookID)
	if err != nil {
		return nil, NewServiceError("ListWords", "failed to list wordbook words", err)
	}
	return words, nil
}
