package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
)

// DailyReviewCount is one day's worth of review activity for a user.
type DailyReviewCount struct {
	Day     time.Time
	Reviews int
	Correct int
}

// ReviewLogStore defines the interface for the append-only review history.
// Logs are never updated or deleted individually; they fall away with their
// word through ON DELETE CASCADE.
type ReviewLogStore interface {
	// Create appends a review log entry.
	// Returns validation errors from the domain ReviewLog if data is invalid.
	Create(ctx context.Context, log *domain.ReviewLog) error

	// ListByWord retrieves a word's review history for a user, newest first.
	ListByWord(ctx context.Context, wordID, userID uuid.UUID) ([]*domain.ReviewLog, error)

	// CountByDay aggregates a user's review activity per calendar day (UTC)
	// over [from, to). Days without reviews are absent from the result.
	CountByDay(
		ctx context.Context,
		userID uuid.UUID,
		from, to time.Time,
	) ([]DailyReviewCount, error)

	// WithTx returns a new ReviewLogStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) ReviewLogStore
}
