package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
)

// WordStore defines the interface for word data persistence.
type WordStore interface {
	// Create saves a new word to the store.
	// Returns validation errors from the domain Word if data is invalid.
	// Returns a wrapped ErrWordbookNotFound if the parent wordbook is gone.
	Create(ctx context.Context, word *domain.Word) error

	// GetByID retrieves a word by its unique ID.
	// Returns ErrWordNotFound if the word does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error)

	// ListByWordbook retrieves all words in a wordbook, ordered by creation
	// time. An empty wordbook yields an empty slice, not an error.
	ListByWordbook(ctx context.Context, wordbookID uuid.UUID) ([]*domain.Word, error)

	// Update modifies an existing word's details.
	// Returns ErrWordNotFound if the word does not exist.
	Update(ctx context.Context, word *domain.Word) error

	// UpdateMastery overwrites only the learning-progress columns
	// (proficiency, study count, last reviewed at) without touching the
	// word's content fields.
	// Returns ErrWordNotFound if the word does not exist.
	UpdateMastery(ctx context.Context, word *domain.Word) error

	// Delete removes a word by its ID. Its schedule and review logs are
	// removed through ON DELETE CASCADE constraints.
	// Returns ErrWordNotFound if the word does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new WordStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) WordStore
}
