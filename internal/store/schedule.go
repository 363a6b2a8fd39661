package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
)

// ScheduleStore defines the interface for word schedule persistence.
// A schedule row is keyed by (word, user); a word without a row has never
// entered spaced review for that user.
type ScheduleStore interface {
	// Create saves a new schedule.
	// Returns ErrScheduleExists if the (word, user) pair already has one.
	Create(ctx context.Context, schedule *domain.WordSchedule) error

	// CreateIfAbsent saves the schedule unless one already exists for the
	// (word, user) pair, in which case the existing row wins and is
	// returned. The insert uses ON CONFLICT DO NOTHING so two concurrent
	// initializations converge on a single row.
	CreateIfAbsent(ctx context.Context, schedule *domain.WordSchedule) (*domain.WordSchedule, error)

	// Get retrieves the schedule for a (word, user) pair.
	// Returns ErrScheduleNotFound if no schedule exists.
	Get(ctx context.Context, wordID, userID uuid.UUID) (*domain.WordSchedule, error)

	// Update overwrites an existing schedule.
	// Returns ErrScheduleNotFound if no schedule exists.
	Update(ctx context.Context, schedule *domain.WordSchedule) error

	// Delete removes the schedule for a (word, user) pair, taking the word
	// out of spaced review until it is reinitialized.
	// Returns ErrScheduleNotFound if no schedule exists.
	Delete(ctx context.Context, wordID, userID uuid.UUID) error

	// ListDue retrieves schedules in a wordbook due at or before the given
	// time, most overdue first with ties broken by higher lapse counts.
	// A limit of zero or less means no limit.
	ListDue(
		ctx context.Context,
		wordbookID, userID uuid.UUID,
		dueBy time.Time,
		limit int,
	) ([]*domain.WordSchedule, error)

	// ListForWordbook retrieves every schedule the user has for words in
	// the wordbook, due or not. Callers use it to find words that still
	// need cold-start initialization in one query.
	ListForWordbook(
		ctx context.Context,
		wordbookID, userID uuid.UUID,
	) ([]*domain.WordSchedule, error)

	// WithTx returns a new ScheduleStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) ScheduleStore
}
