package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
	"github.com/PengWorks1114/vocabularydb/internal/platform/logger"
	"github.com/PengWorks1114/vocabularydb/internal/store"
)

// ReviewLogStore implements the store.ReviewLogStore interface using a
// PostgreSQL database as the storage backend. The review_logs table is
// append-only.
type ReviewLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewReviewLogStore creates a PostgreSQL implementation of the
// ReviewLogStore interface. If logger is nil, the process default logger
// is used.
func NewReviewLogStore(db store.DBTX, log *slog.Logger) *ReviewLogStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &ReviewLogStore{
		db:     db,
		logger: log.With(slog.String("component", "review_log_store")),
	}
}

var _ store.ReviewLogStore = (*ReviewLogStore)(nil)

// WithTx implements store.ReviewLogStore.WithTx
func (s *ReviewLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore {
	return &ReviewLogStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ReviewLogStore.Create
func (s *ReviewLogStore) Create(ctx context.Context, log *domain.ReviewLog) error {
	l := logger.FromContextOrDefault(ctx, s.logger)

	if err := log.Validate(); err != nil {
		l.Warn("review log validation failed",
			slog.String("error", err.Error()),
			slog.String("word_id", log.WordID.String()))
		return err
	}

	query := `
		INSERT INTO review_logs (id, word_id, user_id, reviewed_at, grade, proficiency)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		log.ID,
		log.WordID,
		log.UserID,
		log.ReviewedAt,
		int(log.Grade),
		log.Proficiency,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			l.Warn("foreign key violation during review log creation",
				slog.String("word_id", log.WordID.String()))
			return fmt.Errorf("%w: word with ID %s",
				store.ErrWordNotFound, log.WordID)
		}
		l.Error("failed to create review log",
			slog.String("error", err.Error()),
			slog.String("word_id", log.WordID.String()))
		return MapError(err)
	}

	l.Debug("review log appended",
		slog.String("word_id", log.WordID.String()),
		slog.String("grade", log.Grade.String()))
	return nil
}

// ListByWord implements store.ReviewLogStore.ListByWord
func (s *ReviewLogStore) ListByWord(
	ctx context.Context,
	wordID, userID uuid.UUID,
) ([]*domain.ReviewLog, error) {
	l := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, word_id, user_id, reviewed_at, grade, proficiency
		FROM review_logs
		WHERE word_id = $1 AND user_id = $2
		ORDER BY reviewed_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, wordID, userID)
	if err != nil {
		l.Error("failed to query review logs",
			slog.String("error", err.Error()),
			slog.String("word_id", wordID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			l.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	logs := []*domain.ReviewLog{}
	for rows.Next() {
		var entry domain.ReviewLog
		var grade int
		err := rows.Scan(
			&entry.ID,
			&entry.WordID,
			&entry.UserID,
			&entry.ReviewedAt,
			&grade,
			&entry.Proficiency,
		)
		if err != nil {
			l.Error("failed to scan review log row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		entry.Grade = domain.ReviewGrade(grade)
		logs = append(logs, &entry)
	}

	if err := rows.Err(); err != nil {
		l.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return logs, nil
}

// CountByDay implements store.ReviewLogStore.CountByDay
// Days are bucketed in UTC; a review counts as correct at grade good or
// better.
func (s *ReviewLogStore) CountByDay(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
) ([]store.DailyReviewCount, error) {
	l := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT date_trunc('day', reviewed_at AT TIME ZONE 'UTC') AS day,
			COUNT(*) AS reviews,
			COUNT(*) FILTER (WHERE grade >= $4) AS correct
		FROM review_logs
		WHERE user_id = $1 AND reviewed_at >= $2 AND reviewed_at < $3
		GROUP BY day
		ORDER BY day ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, from, to, int(domain.GradeGood))
	if err != nil {
		l.Error("failed to query review counts",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			l.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	counts := []store.DailyReviewCount{}
	for rows.Next() {
		var c store.DailyReviewCount
		if err := rows.Scan(&c.Day, &c.Reviews, &c.Correct); err != nil {
			l.Error("failed to scan review count row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		l.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return counts, nil
}
