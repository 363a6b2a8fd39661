// Package review coordinates the spaced-repetition review flow: lazily
// initializing schedules, listing due words, grading answers, and keeping
// word mastery, schedule state, and the review log consistent.
package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
)

// DueWord pairs a due schedule with the word it belongs to.
type DueWord struct {
	Word     *domain.Word         `json:"word"`
	Schedule *domain.WordSchedule `json:"schedule"`
}

// Result is the outcome of a graded review: the new schedule state and the
// word with its updated mastery fields.
type Result struct {
	Word     *domain.Word         `json:"word"`
	Schedule *domain.WordSchedule `json:"schedule"`
}

// Service provides the scheduled-review operations.
type Service interface {
	// GetDueWords lists the words in a wordbook due for review at the given
	// instant, most overdue first with ties broken by higher lapse counts.
	// Words that have never been scheduled are initialized on the way, so a
	// fresh wordbook becomes reviewable without a separate setup call.
	// A limit of zero or less means no limit.
	//
	// Returns ErrWordbookNotFound if the wordbook does not exist and
	// ErrWordbookNotOwned if it belongs to another user.
	GetDueWords(
		ctx context.Context,
		userID, wordbookID uuid.UUID,
		now time.Time,
		limit int,
	) ([]*DueWord, error)

	// GetSchedule retrieves a word's schedule for the user, initializing
	// the cold-start schedule first if the word has never been scheduled.
	// The read is therefore idempotent from the caller's view.
	//
	// Returns ErrWordNotFound or ErrWordNotOwned when initialization has
	// no word to derive from.
	GetSchedule(ctx context.Context, userID, wordID uuid.UUID) (*domain.WordSchedule, error)

	// SubmitAnswer grades a review answer for a word, atomically persisting
	// the new schedule, the word's updated mastery fields, and a review log
	// entry. A word without a schedule is initialized first, so grading
	// works even on the first encounter.
	//
	// Returns ErrWordNotFound, ErrWordNotOwned, or ErrInvalidGrade.
	SubmitAnswer(
		ctx context.Context,
		userID, wordID uuid.UUID,
		grade domain.ReviewGrade,
		now time.Time,
	) (*Result, error)

	// Postpone pushes a word's due date forward by the given number of days
	// without altering stage, interval, or ease. A never-scheduled word is
	// initialized first, then postponed from its cold-start due date.
	Postpone(
		ctx context.Context,
		userID, wordID uuid.UUID,
		days int,
		now time.Time,
	) (*domain.WordSchedule, error)

	// DeleteSchedule takes a word out of spaced review. Its mastery fields
	// and review history are untouched; the next due listing reinitializes
	// it from current proficiency.
	// Returns ErrScheduleNotFound if the word has never been scheduled.
	DeleteSchedule(ctx context.Context, userID, wordID uuid.UUID) error

	// ResetProgress atomically deletes the word's schedule and zeroes its
	// mastery fields (proficiency, study count, last reviewed at), returning
	// the word to the never-studied state. Review logs are kept.
	// Returns ErrWordNotFound or ErrWordNotOwned.
	ResetProgress(ctx context.Context, userID, wordID uuid.UUID) error
}

// Common error types for the review service
var (
	// ErrWordNotFound indicates that the word does not exist.
	ErrWordNotFound = errors.New("word not found")

	// ErrWordNotOwned indicates the word belongs to another user's wordbook.
	ErrWordNotOwned = errors.New("unauthorized access: word not owned by user")

	// ErrWordbookNotFound indicates that the wordbook does not exist.
	ErrWordbookNotFound = errors.New("wordbook not found")

	// ErrWordbookNotOwned indicates the wordbook belongs to another user.
	ErrWordbookNotOwned = errors.New("unauthorized access: wordbook not owned by user")

	// ErrScheduleNotFound indicates the word has never been scheduled.
	ErrScheduleNotFound = errors.New("word schedule not found")

	// ErrInvalidGrade indicates an unrecognized review grade.
	ErrInvalidGrade = errors.New("invalid review grade")

	// ErrInvalidPostpone indicates a postpone of less than one day.
	ErrInvalidPostpone = errors.New("postpone days must be at least 1")
)

// ServiceError wraps errors from the review service with operation context,
// so consumers can differentiate failures with errors.As instead of string
// matching.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}
