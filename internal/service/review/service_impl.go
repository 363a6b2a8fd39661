package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
	"github.com/PengWorks1114/vocabularydb/internal/domain/srs"
	"github.com/PengWorks1114/vocabularydb/internal/platform/logger"
	"github.com/PengWorks1114/vocabularydb/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

// serviceImpl implements the Service interface.
type serviceImpl struct {
	wordRepo     WordRepository
	wordbookRepo WordbookRepository
	scheduleRepo ScheduleRepository
	logRepo      ReviewLogRepository
	srsService   srs.Service
	invalidator  WordCacheInvalidator
	logger       *slog.Logger
}

// NewService creates a review Service implementation. The invalidator may
// be nil when no word cache needs eviction on mastery writes.
func NewService(
	wordRepo WordRepository,
	wordbookRepo WordbookRepository,
	scheduleRepo ScheduleRepository,
	logRepo ReviewLogRepository,
	srsService srs.Service,
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
	if logRepo == nil {
		panic("logRepo cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &serviceImpl{
		wordRepo:     wordRepo,
		wordbookRepo: wordbookRepo,
		scheduleRepo: scheduleRepo,
		logRepo:      logRepo,
		srsService:   srsService,
		invalidator:  invalidator,
		logger:       log.With(slog.String("component", "review_service")),
	}
}

func (s *serviceImpl) invalidateWordCache(wordbookID uuid.UUID) {
	if s.invalidator != nil {
		s.invalidator.InvalidateWordCache(wordbookID)
	}
}

// GetDueWords implements Service.GetDueWords.
func (s *serviceImpl) GetDueWords(
	ctx context.Context,
	userID, wordbookID uuid.UUID,
	now time.Time,
	limit int,
) ([]*DueWord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	words, err := s.ownedWordbookWords(ctx, userID, wordbookID)
	if err != nil {
		return nil, err
	}

	// Lazy initialization: a word without a schedule gets its cold-start
	// schedule now. One batched read finds the gaps, so a fully scheduled
	// wordbook costs no writes; ON CONFLICT semantics in CreateIfAbsent
	// keep the remaining inserts safe against concurrent listings.
	existing, err := s.scheduleRepo.ListForWordbook(ctx, wordbookID, userID)
	if err != nil {
		return nil, &ServiceError{
			Operation: "get_due_words",
			Message:   "failed to list existing schedules",
			Err:       err,
		}
	}
	scheduled := make(map[uuid.UUID]struct{}, len(existing))
	for _, schedule := range existing {
		scheduled[schedule.WordID] = struct{}{}
	}

	byID := make(map[uuid.UUID]*domain.Word, len(words))
	for _, word := range words {
		byID[word.ID] = word
		if _, ok := scheduled[word.ID]; ok {
			continue
		}

		initial, err := s.srsService.InitialSchedule(word, userID, now)
		if err != nil {
			return nil, &ServiceError{
				Operation: "get_due_words",
				Message:   "failed to derive initial schedule",
				Err:       err,
			}
		}
		if _, err := s.scheduleRepo.CreateIfAbsent(ctx, initial); err != nil {
			return nil, &ServiceError{
				Operation: "get_due_words",
				Message:   "failed to initialize schedule",
				Err:       err,
			}
		}
	}

	schedules, err := s.scheduleRepo.ListDue(ctx, wordbookID, userID, now, limit)
	if err != nil {
		log.Error("failed to list due schedules",
			slog.String("error", err.Error()),
			slog.String("wordbook_id", wordbookID.String()))
		return nil, &ServiceError{
			Operation: "get_due_words",
			Message:   "failed to list due schedules",
			Err:       err,
		}
	}

	due := make([]*DueWord, 0, len(schedules))
	for _, schedule := range schedules {
		word, ok := byID[schedule.WordID]
		if !ok {
			// The word vanished between listing and scheduling; skip it.
			continue
		}
		due = append(due, &DueWord{Word: word, Schedule: schedule})
	}

	log.Debug("listed due words",
		slog.String("wordbook_id", wordbookID.String()),
		slog.Int("count", len(due)))
	return due, nil
}

// GetSchedule implements Service.GetSchedule. A word that has never been
// scheduled gets its cold-start schedule created here, so the read is
// idempotent from the caller's view.
func (s *serviceImpl) GetSchedule(
	ctx context.Context,
	userID, wordID uuid.UUID,
) (*domain.WordSchedule, error) {
	schedule, err := s.scheduleRepo.Get(ctx, wordID, userID)
	if err == nil {
		return schedule, nil
	}
	if !errors.Is(err, store.ErrScheduleNotFound) {
		return nil, &ServiceError{
			Operation: "get_schedule",
			Message:   "failed to load schedule",
			Err:       err,
		}
	}

	word, err := s.ownedWord(ctx, s.wordRepo, userID, wordID)
	if err != nil {
		if errors.Is(err, ErrWordNotFound) || errors.Is(err, ErrWordNotOwned) {
			return nil, err
		}
		return nil, &ServiceError{
			Operation: "get_schedule",
			Message:   "failed to load word for initialization",
			Err:       err,
		}
	}

	initial, err := s.srsService.InitialSchedule(word, userID, time.Now().UTC())
	if err != nil {
		return nil, &ServiceError{
			Operation: "get_schedule",
			Message:   "failed to derive initial schedule",
			Err:       err,
		}
	}
	schedule, err = s.scheduleRepo.CreateIfAbsent(ctx, initial)
	if err != nil {
		return nil, &ServiceError{
			Operation: "get_schedule",
			Message:   "failed to initialize schedule",
			Err:       err,
		}
	}
	return schedule, nil
}

// SubmitAnswer implements Service.SubmitAnswer.
func (s *serviceImpl) SubmitAnswer(
	ctx context.Context,
	userID, wordID uuid.UUID,
	grade domain.ReviewGrade,
	now time.Time,
) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !grade.IsValid() {
		log.Warn("invalid review grade",
			slog.String("word_id", wordID.String()),
			slog.Int("grade", int(grade)))
		return nil, ErrInvalidGrade
	}

	var result *Result
	err := s.runInTransaction(ctx, func(
		ctx context.Context,
		wordRepo WordRepository,
		scheduleRepo ScheduleRepository,
		logRepo ReviewLogRepository,
	) error {
		word, err := s.ownedWord(ctx, wordRepo, userID, wordID)
		if err != nil {
			return err
		}

		schedule, err := scheduleRepo.Get(ctx, wordID, userID)
		if err != nil {
			if !errors.Is(err, store.ErrScheduleNotFound) {
				return fmt.Errorf("failed to get schedule: %w", err)
			}
			// First graded encounter: initialize from current proficiency.
			initial, err := s.srsService.InitialSchedule(word, userID, now)
			if err != nil {
				return fmt.Errorf("failed to derive initial schedule: %w", err)
			}
			schedule, err = scheduleRepo.CreateIfAbsent(ctx, initial)
			if err != nil {
				return fmt.Errorf("failed to initialize schedule: %w", err)
			}
		}

		graded, err := s.srsService.ApplyGrade(word, schedule, grade, now)
		if err != nil {
			return fmt.Errorf("failed to apply grade: %w", err)
		}

		if err := scheduleRepo.Update(ctx, graded.Schedule); err != nil {
			return fmt.Errorf("failed to persist schedule: %w", err)
		}

		reviewedAt := now
		word.Proficiency = graded.Proficiency
		word.StudyCount++
		word.LastReviewedAt = &reviewedAt
		if err := wordRepo.UpdateMastery(ctx, word); err != nil {
			return fmt.Errorf("failed to persist word mastery: %w", err)
		}

		entry, err := domain.NewReviewLog(wordID, userID, grade, graded.Proficiency, now)
		if err != nil {
			return fmt.Errorf("failed to build review log: %w", err)
		}
		if err := logRepo.Create(ctx, entry); err != nil {
			return fmt.Errorf("failed to append review log: %w", err)
		}

		result = &Result{Word: word, Schedule: graded.Schedule}
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrWordNotFound) ||
			errors.Is(err, ErrWordNotOwned) ||
			errors.Is(err, ErrInvalidGrade) {
			return nil, err
		}

		log.Error("failed to submit answer",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("word_id", wordID.String()))
		return nil, &ServiceError{
			Operation: "submit_answer",
			Message:   "transaction failed",
			Err:       err,
		}
	}

	s.invalidateWordCache(result.Word.WordbookID)

	log.Debug("review answer processed",
		slog.String("word_id", wordID.String()),
		slog.String("grade", grade.String()),
		slog.Int("stage", result.Schedule.Stage),
		slog.Int("interval_days", result.Schedule.IntervalDays),
		slog.Int("proficiency", result.Word.Proficiency))
	return result, nil
}

// Postpone implements Service.Postpone.
func (s *serviceImpl) Postpone(
	ctx context.Context,
	userID, wordID uuid.UUID,
	days int,
	now time.Time,
) (*domain.WordSchedule, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	schedule, err := s.GetSchedule(ctx, userID, wordID)
	if err != nil {
		return nil, err
	}

	postponed, err := s.srsService.Postpone(schedule, days, now)
	if err != nil {
		if errors.Is(err, srs.ErrInvalidDays) {
			return nil, ErrInvalidPostpone
		}
		return nil, &ServiceError{
			Operation: "postpone",
			Message:   "failed to compute postponed schedule",
			Err:       err,
		}
	}

	if err := s.scheduleRepo.Update(ctx, postponed); err != nil {
		return nil, &ServiceError{
			Operation: "postpone",
			Message:   "failed to persist schedule",
			Err:       err,
		}
	}

	log.Debug("schedule postponed",
		slog.String("word_id", wordID.String()),
		slog.Int("days", days))
	return postponed, nil
}

// DeleteSchedule implements Service.DeleteSchedule.
func (s *serviceImpl) DeleteSchedule(ctx context.Context, userID, wordID uuid.UUID) error {
	err := s.scheduleRepo.Delete(ctx, wordID, userID)
	if err != nil {
		if errors.Is(err, store.ErrScheduleNotFound) {
			return ErrScheduleNotFound
		}
		return &ServiceError{
			Operation: "delete_schedule",
			Message:   "failed to delete schedule",
			Err:       err,
		}
	}
	return nil
}

// ResetProgress implements Service.ResetProgress.
func (s *serviceImpl) ResetProgress(ctx context.Context, userID, wordID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var wordbookID uuid.UUID
	err := s.runInTransaction(ctx, func(
		ctx context.Context,
		wordRepo WordRepository,
		scheduleRepo ScheduleRepository,
		logRepo ReviewLogRepository,
	) error {
		word, err := s.ownedWord(ctx, wordRepo, userID, wordID)
		if err != nil {
			return err
		}
		wordbookID = word.WordbookID

		// A missing schedule is fine; the word may never have been reviewed.
		if err := scheduleRepo.Delete(ctx, wordID, userID); err != nil {
			if !errors.Is(err, store.ErrScheduleNotFound) {
				return fmt.Errorf("failed to delete schedule: %w", err)
			}
		}

		word.Proficiency = 0
		word.StudyCount = 0
		word.LastReviewedAt = nil
		if err := wordRepo.UpdateMastery(ctx, word); err != nil {
			return fmt.Errorf("failed to reset word mastery: %w", err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrWordNotFound) || errors.Is(err, ErrWordNotOwned) {
			return err
		}
		log.Error("failed to reset progress",
			slog.String("error", err.Error()),
			slog.String("word_id", wordID.String()))
		return &ServiceError{
			Operation: "reset_progress",
			Message:   "transaction failed",
			Err:       err,
		}
	}

	s.invalidateWordCache(wordbookID)

	log.Info("word progress reset",
		slog.String("word_id", wordID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// ownedWord loads a word and verifies, through its wordbook, that it belongs
// to the user.
func (s *serviceImpl) ownedWord(
	ctx context.Context,
	wordRepo WordRepository,
	userID, wordID uuid.UUID,
) (*domain.Word, error) {
	word, err := wordRepo.GetByID(ctx, wordID)
	if err != nil {
		if errors.Is(err, store.ErrWordNotFound) {
			return nil, ErrWordNotFound
		}
		return nil, fmt.Errorf("failed to get word: %w", err)
	}

	book, err := s.wordbookRepo.GetByID(ctx, word.WordbookID)
	if err != nil {
		if errors.Is(err, store.ErrWordbookNotFound) {
			return nil, ErrWordNotFound
		}
		return nil, fmt.Errorf("failed to get wordbook: %w", err)
	}
	if book.UserID != userID {
		return nil, ErrWordNotOwned
	}

	return word, nil
}

// ownedWordbookWords verifies wordbook ownership and returns its words.
func (s *serviceImpl) ownedWordbookWords(
	ctx context.Context,
	userID, wordbookID uuid.UUID,
) ([]*domain.Word, error) {
	book, err := s.wordbookRepo.GetByID(ctx, wordbookID)
	if err != nil {
		if errors.Is(err, store.ErrWordbookNotFound) {
			return nil, ErrWordbookNotFound
		}
		return nil, &ServiceError{
			Operation: "get_due_words",
			Message:   "failed to load wordbook",
			Err:       err,
		}
	}
	if book.UserID != userID {
		return nil, ErrWordbookNotOwned
	}

	words, err := s.wordRepo.ListByWordbook(ctx, wordbookID)
	if err != nil {
		return nil, &ServiceError{
			Operation: "get_due_words",
			Message:   "failed to list wordbook words",
			Err:       err,
		}
	}
	return words, nil
}

// runInTransaction runs fn with transactional repositories.
func (s *serviceImpl) runInTransaction(
	ctx context.Context,
	fn func(context.Context, WordRepository, ScheduleRepository, ReviewLogRepository) error,
) error {
	db := s.wordRepo.DB()
	return store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(
			ctx,
			s.wordRepo.WithTx(tx),
			s.scheduleRepo.WithTx(tx),
			s.logRepo.WithTx(tx),
		)
	})
}
