package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for ReviewLog
var (
	ErrEmptyLogWordID = errors.New("review log word ID cannot be empty")
	ErrEmptyLogUserID = errors.New("review log user ID cannot be empty")
)

// ReviewLog is one immutable record of an answered review in a scheduled or
// dictation session. Entries are append-only and never updated; they exist
// for retrospective statistics.
type ReviewLog struct {
	ID          uuid.UUID   `json:"id"`
	WordID      uuid.UUID   `json:"word_id"`
	UserID      uuid.UUID   `json:"user_id"`
	ReviewedAt  time.Time   `json:"reviewed_at"`
	Grade       ReviewGrade `json:"grade"`
	Proficiency int         `json:"proficiency"` // Proficiency after the review was applied
}

// NewReviewLog creates a log entry for a review answered at the given instant.
func NewReviewLog(
	wordID, userID uuid.UUID,
	grade ReviewGrade,
	proficiency int,
	reviewedAt time.Time,
) (*ReviewLog, error) {
	entry := &ReviewLog{
		ID:          uuid.New(),
		WordID:      wordID,
		UserID:      userID,
		ReviewedAt:  reviewedAt,
		Grade:       grade,
		Proficiency: proficiency,
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks if the ReviewLog has valid data.
func (l *ReviewLog) Validate() error {
	if l.WordID == uuid.Nil {
		return ErrEmptyLogWordID
	}

	if l.UserID == uuid.Nil {
		return ErrEmptyLogUserID
	}

	if !l.Grade.IsValid() {
		return ErrInvalidGrade
	}

	if l.Proficiency < 0 {
		return ErrNegativeProficiency
	}

	return nil
}
