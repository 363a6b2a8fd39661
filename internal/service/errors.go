// Package service provides application-level services for managing users,
// wordbooks, and words.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Service methods return these for expected conditions so callers can branch
// with errors.Is; unexpected failures are wrapped in service-specific error
// types instead. The API layer maps them to HTTP status codes.
var (
	// ErrNotOwned indicates a resource is owned by a different user than the
	// one making the request. API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrWordbookNotFound indicates the requested wordbook does not exist.
	ErrWordbookNotFound = errors.New("wordbook not found")

	// ErrWordNotFound indicates the requested word does not exist.
	ErrWordNotFound = errors.New("word not found")
)
