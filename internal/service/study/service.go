// Package study implements casual (non-scheduled) studying: drawing a
// working set of words for a session and recording flip-card style recall
// answers. Unlike the review flow, recording a recall answer moves mastery
// only; schedules and the review log are untouched.
package study

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
	"github.com/PengWorks1114/vocabularydb/internal/session"
)

// Service provides casual study operations.
type Service interface {
	// DrawSession selects up to count words from a wordbook for one study
	// session, filtered and ordered per the mode and prompt direction.
	// When dueOnly is set the pool is restricted to words whose schedule
	// is due; never-scheduled words are excluded.
	//
	// Returns ErrWordbookNotFound or ErrWordbookNotOwned for ownership
	// failures, and passes through session.ErrInvalidCount,
	// session.ErrNoWordsAvailable, and session.ErrNoFilterMatches.
	DrawSession(
		ctx context.Context,
		userID, wordbookID uuid.UUID,
		count int,
		mode session.Mode,
		direction session.Direction,
		dueOnly bool,
	) ([]*domain.Word, error)

	// RecordStudy applies a casual recall answer to a word: proficiency
	// moves halfway toward the response's target, the study count grows,
	// and the last-reviewed timestamp is set. The updated word is returned.
	//
	// Returns ErrWordNotFound, ErrWordNotOwned, or ErrInvalidResponse.
	RecordStudy(
		ctx context.Context,
		userID, wordID uuid.UUID,
		response domain.RecallResponse,
		now time.Time,
	) (*domain.Word, error)
}

// Common error types for the study service
var (
	// ErrWordNotFound indicates that the word does not exist.
	ErrWordNotFound = errors.New("word not found")

	// ErrWordNotOwned indicates the word belongs to another user's wordbook.
	ErrWordNotOwned = errors.New("unauthorized access: word not owned by user")

	// ErrWordbookNotFound indicates that the wordbook does not exist.
	ErrWordbookNotFound = errors.New("wordbook not found")

	// ErrWordbookNotOwned indicates the wordbook belongs to another user.
	ErrWordbookNotOwned = errors.New("unauthorized access: wordbook not owned by user")

	// ErrInvalidResponse indicates an unrecognized recall response.
	ErrInvalidResponse = errors.New("invalid recall response")
)

// ServiceError wraps errors from the study service with operation context.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("study service %s: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("study service %s: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error for errors.Is and errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError with the given details.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{Operation: operation, Message: message, Err: err}
}
