package api

import (
	"errors"
	"net/http"

	"github.com/PengWorks1114/vocabularydb/internal/generation"
	"github.com/PengWorks1114/vocabularydb/internal/service"
	"github.com/PengWorks1114/vocabularydb/internal/service/auth"
	"github.com/PengWorks1114/vocabularydb/internal/service/review"
	"github.com/PengWorks1114/vocabularydb/internal/service/study"
	"github.com/PengWorks1114/vocabularydb/internal/session"
	"github.com/PengWorks1114/vocabularydb/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, review.ErrWordNotOwned),
		errors.Is(err, review.ErrWordbookNotOwned),
		errors.Is(err, study.ErrWordNotOwned),
		errors.Is(err, study.ErrWordbookNotOwned):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, service.ErrWordNotFound),
		errors.Is(err, service.ErrWordbookNotFound),
		errors.Is(err, review.ErrWordNotFound),
		errors.Is(err, review.ErrWordbookNotFound),
		errors.Is(err, review.ErrScheduleNotFound),
		errors.Is(err, study.ErrWordNotFound),
		errors.Is(err, study.ErrWordbookNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, review.ErrInvalidGrade),
		errors.Is(err, review.ErrInvalidPostpone),
		errors.Is(err, study.ErrInvalidResponse),
		errors.Is(err, service.ErrInvalidStatsRange),
		errors.Is(err, session.ErrInvalidCount):
		return http.StatusBadRequest

	// Draw outcomes that are not failures
	case errors.Is(err, session.ErrNoWordsAvailable),
		errors.Is(err, session.ErrNoFilterMatches):
		return http.StatusUnprocessableEntity

	// Example generation
	case errors.Is(err, generation.ErrGenerationDisabled):
		return http.StatusNotImplemented
	case errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity
	case errors.Is(err, generation.ErrTransientFailure):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"

	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, review.ErrWordNotOwned),
		errors.Is(err, study.ErrWordNotOwned):
		return "You do not own this word"

	case errors.Is(err, review.ErrWordbookNotOwned),
		errors.Is(err, study.ErrWordbookNotOwned):
		return "You do not own this wordbook"

	case errors.Is(err, service.ErrWordbookNotFound),
		errors.Is(err, review.ErrWordbookNotFound),
		errors.Is(err, study.ErrWordbookNotFound),
		errors.Is(err, store.ErrWordbookNotFound):
		return "Wordbook not found"

	case errors.Is(err, review.ErrScheduleNotFound):
		return "Word schedule not found"

	case errors.Is(err, service.ErrWordNotFound),
		errors.Is(err, review.ErrWordNotFound),
		errors.Is(err, study.ErrWordNotFound),
		errors.Is(err, store.ErrWordNotFound):
		return "Word not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, review.ErrInvalidGrade):
		return "Invalid review grade"

	case errors.Is(err, review.ErrInvalidPostpone):
		return "Postpone days must be at least 1"

	case errors.Is(err, study.ErrInvalidResponse):
		return "Invalid recall response"

	case errors.Is(err, service.ErrInvalidStatsRange):
		return "Invalid stats date range"

	case errors.Is(err, session.ErrInvalidCount):
		return "Session size must be at least 1"

	case errors.Is(err, session.ErrNoWordsAvailable):
		return "No words available for a session"

	case errors.Is(err, session.ErrNoFilterMatches):
		return "No words match the selected filter"

	case errors.Is(err, generation.ErrGenerationDisabled):
		return "Example generation is not configured"

	case errors.Is(err, generation.ErrContentBlocked):
		return "Example generation was blocked for this word"

	case errors.Is(err, generation.ErrTransientFailure):
		return "Example generation is temporarily unavailable"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}
