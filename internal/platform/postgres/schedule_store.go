package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
	"github.com/PengWorks1114/vocabularydb/internal/platform/logger"
	"github.com/PengWorks1114/vocabularydb/internal/store"
)

// ScheduleStore implements the store.ScheduleStore interface using a
// PostgreSQL database as the storage backend. Rows are keyed by
// (word_id, user_id).
type ScheduleStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewScheduleStore creates a PostgreSQL implementation of the ScheduleStore
// interface. If logger is nil, the process default logger is used.
func NewScheduleStore(db store.DBTX, log *slog.Logger) *ScheduleStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &ScheduleStore{
		db:     db,
		logger: log.With(slog.String("component", "schedule_store")),
	}
}

var _ store.ScheduleStore = (*ScheduleStore)(nil)

const scheduleColumns = `word_id, user_id, stage, interval_days, due_at,
	streak, lapses, ease, created_at, updated_at`

// WithTx implements store.ScheduleStore.WithTx
func (s *ScheduleStore) WithTx(tx *sql.Tx) store.ScheduleStore {
	return &ScheduleStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanSchedule reads one row into a domain WordSchedule. Clamp repairs any
// out-of-range values that predate a parameter change.
func scanSchedule(scanner interface{ Scan(dest ...any) error }) (*domain.WordSchedule, error) {
	var schedule domain.WordSchedule
	err := scanner.Scan(
		&schedule.WordID,
		&schedule.UserID,
		&schedule.Stage,
		&schedule.IntervalDays,
		&schedule.DueAt,
		&schedule.Streak,
		&schedule.Lapses,
		&schedule.Ease,
		&schedule.CreatedAt,
		&schedule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	schedule.Clamp()
	return &schedule, nil
}

// Create implements store.ScheduleStore.Create
// Returns store.ErrScheduleExists when the (word, user) pair already has one.
func (s *ScheduleStore) Create(ctx context.Context, schedule *domain.WordSchedule) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := schedule.Validate(); err != nil {
		log.Warn("schedule validation failed during create",
			slog.String("error", err.Error()),
			slog.String("word_id", schedule.WordID.String()))
		return err
	}

	query := `
		INSERT INTO word_schedules (` + scheduleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		schedule.WordID,
		schedule.UserID,
		schedule.Stage,
		schedule.IntervalDays,
		schedule.DueAt,
		schedule.Streak,
		schedule.Lapses,
		schedule.Ease,
		schedule.CreatedAt,
		schedule.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("schedule already exists",
				slog.String("word_id", schedule.WordID.String()),
				slog.String("user_id", schedule.UserID.String()))
			return MapUniqueViolation(err, store.ErrScheduleExists)
		}
		log.Error("failed to create schedule",
			slog.String("error", err.Error()),
			slog.String("word_id", schedule.WordID.String()))
		return MapError(err)
	}

	log.Info("schedule created successfully",
		slog.String("word_id", schedule.WordID.String()),
		slog.String("user_id", schedule.UserID.String()))
	return nil
}

// CreateIfAbsent implements store.ScheduleStore.CreateIfAbsent
// The insert uses ON CONFLICT DO NOTHING so concurrent initializations of
// the same (word, user) pair converge on whichever row landed first.
func (s *ScheduleStore) CreateIfAbsent(
	ctx context.Context,
	schedule *domain.WordSchedule,
) (*domain.WordSchedule, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := schedule.Validate(); err != nil {
		log.Warn("schedule validation failed during create-if-absent",
			slog.String("error", err.Error()),
			slog.String("word_id", schedule.WordID.String()))
		return nil, err
	}

	query := `
		INSERT INTO word_schedules (` + scheduleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (word_id, user_id) DO NOTHING
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		schedule.WordID,
		schedule.UserID,
		schedule.Stage,
		schedule.IntervalDays,
		schedule.DueAt,
		schedule.Streak,
		schedule.Lapses,
		schedule.Ease,
		schedule.CreatedAt,
		schedule.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create schedule if absent",
			slog.String("error", err.Error()),
			slog.String("word_id", schedule.WordID.String()))
		return nil, MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, MapError(err)
	}
	if rowsAffected > 0 {
		log.Info("schedule initialized",
			slog.String("word_id", schedule.WordID.String()),
			slog.String("user_id", schedule.UserID.String()))
		return schedule, nil
	}

	// Another writer won; the stored row is authoritative.
	return s.Get(ctx, schedule.WordID, schedule.UserID)
}

// Get implements store.ScheduleStore.Get
// Returns store.ErrScheduleNotFound if no schedule exists for the pair.
func (s *ScheduleStore) Get(
	ctx context.Context,
	wordID, userID uuid.UUID,
) (*domain.WordSchedule, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + scheduleColumns + `
		FROM word_schedules
		WHERE word_id = $1 AND user_id = $2
	`

	schedule, err := scanSchedule(s.db.QueryRowContext(ctx, query, wordID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("schedule not found",
				slog.String("word_id", wordID.String()),
				slog.String("user_id", userID.String()))
			return nil, store.ErrScheduleNotFound
		}
		log.Error("failed to get schedule",
			slog.String("error", err.Error()),
			slog.String("word_id", wordID.String()))
		return nil, MapError(err)
	}

	return schedule, nil
}

// Update implements store.ScheduleStore.Update
// Returns store.ErrScheduleNotFound if no schedule exists for the pair.
func (s *ScheduleStore) Update(ctx context.Context, schedule *domain.WordSchedule) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := schedule.Validate(); err != nil {
		log.Warn("schedule validation failed during update",
			slog.String("error", err.Error()),
			slog.String("word_id", schedule.WordID.String()))
		return err
	}

	schedule.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE word_schedules
		SET stage = $1, interval_days = $2, due_at = $3, streak = $4,
			lapses = $5, ease = $6, updated_at = $7
		WHERE word_id = $8 AND user_id = $9
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		schedule.Stage,
		schedule.IntervalDays,
		schedule.DueAt,
		schedule.Streak,
		schedule.Lapses,
		schedule.Ease,
		schedule.UpdatedAt,
		schedule.WordID,
		schedule.UserID,
	)

	if err != nil {
		log.Error("failed to update schedule",
			slog.String("error", err.Error()),
			slog.String("word_id", schedule.WordID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "word schedule"); err != nil {
		return store.ErrScheduleNotFound
	}

	log.Debug("schedule updated",
		slog.String("word_id", schedule.WordID.String()),
		slog.Int("stage", schedule.Stage),
		slog.Int("interval_days", schedule.IntervalDays))
	return nil
}

// Delete implements store.ScheduleStore.Delete
// Returns store.ErrScheduleNotFound if no schedule exists for the pair.
func (s *ScheduleStore) Delete(ctx context.Context, wordID, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM word_schedules WHERE word_id = $1 AND user_id = $2`
	result, err := s.db.ExecContext(ctx, query, wordID, userID)
	if err != nil {
		log.Error("failed to delete schedule",
			slog.String("error", err.Error()),
			slog.String("word_id", wordID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "word schedule"); err != nil {
		return store.ErrScheduleNotFound
	}

	log.Info("schedule deleted",
		slog.String("word_id", wordID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// ListDue implements store.ScheduleStore.ListDue
// Results come back most overdue first; ties are broken by higher lapse
// counts so chronically missed words surface before merely late ones.
func (s *ScheduleStore) ListDue(
	ctx context.Context,
	wordbookID, userID uuid.UUID,
	dueBy time.Time,
	limit int,
) ([]*domain.WordSchedule, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT s.word_id, s.user_id, s.stage, s.interval_days, s.due_at,
			s.streak, s.lapses, s.ease, s.created_at, s.updated_at
		FROM word_schedules s
		JOIN words w ON w.id = s.word_id
		WHERE w.wordbook_id = $1 AND s.user_id = $2 AND s.due_at <= $3
		ORDER BY s.due_at ASC, s.lapses DESC
	`
	args := []any{wordbookID, userID, dueBy}
	if limit > 0 {
		query += ` LIMIT $4`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query due schedules",
			slog.String("error", err.Error()),
			slog.String("wordbook_id", wordbookID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	schedules := []*domain.WordSchedule{}
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			log.Error("failed to scan schedule row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		schedules = append(schedules, schedule)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	log.Debug("listed due schedules",
		slog.String("wordbook_id", wordbookID.String()),
		slog.Int("count", len(schedules)))
	return schedules, nil
}

// ListForWordbook implements store.ScheduleStore.ListForWordbook
func (s *ScheduleStore) ListForWordbook(
	ctx context.Context,
	wordbookID, userID uuid.UUID,
) ([]*domain.WordSchedule, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT s.word_id, s.user_id, s.stage, s.interval_days, s.due_at,
			s.streak, s.lapses, s.ease, s.created_at, s.updated_at
		FROM word_schedules s
		JOIN words w ON w.id = s.word_id
		WHERE w.wordbook_id = $1 AND s.user_id = $2
	`

	rows, err := s.db.QueryContext(ctx, query, wordbookID, userID)
	if err != nil {
		log.Error("failed to query wordbook schedules",
			slog.String("error", err.Error()),
			slog.String("wordbook_id", wordbookID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	schedules := []*domain.WordSchedule{}
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			log.Error("failed to scan schedule row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		schedules = append(schedules, schedule)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return schedules, nil
}
