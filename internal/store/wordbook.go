package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
)

// WordbookStore defines the interface for wordbook data persistence.
type WordbookStore interface {
	// Create saves a new wordbook to the store.
	// Returns validation errors from the domain Wordbook if data is invalid.
	Create(ctx context.Context, wordbook *domain.Wordbook) error

	// GetByID retrieves a wordbook by its unique ID.
	// Returns ErrWordbookNotFound if the wordbook does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wordbook, error)

	// ListByOwner retrieves all wordbooks belonging to a user, ordered by
	// creation time.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Wordbook, error)

	// Update modifies an existing wordbook's details.
	// Returns ErrWordbookNotFound if the wordbook does not exist.
	Update(ctx context.Context, wordbook *domain.Wordbook) error

	// Delete removes a wordbook by its ID. Words and schedules inside it
	// are removed through ON DELETE CASCADE constraints.
	// Returns ErrWordbookNotFound if the wordbook does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new WordbookStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) WordbookStore
}
