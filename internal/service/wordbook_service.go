package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
	"github.com/PengWorks1114/vocabularydb/internal/store"
)

// WordbookServiceError is a custom error type for wordbook service errors.
type WordbookServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for WordbookServiceError.
func (e *WordbookServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("wordbook service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("wordbook service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *WordbookServiceError) Unwrap() error {
	return e.Err
}

// WordbookService provides wordbook management operations.
type WordbookService interface {
	// CreateWordbook creates a new wordbook owned by the user.
	CreateWordbook(ctx context.Context, userID uuid.UUID, name string) (*domain.Wordbook, error)

	// GetWordbook retrieves one of the user's wordbooks.
	// Returns ErrWordbookNotFound or ErrNotOwned.
	GetWordbook(ctx context.Context, userID, wordbookID uuid.UUID) (*domain.Wordbook, error)

	// ListWordbooks lists the user's wordbooks, oldest first.
	ListWordbooks(ctx context.Context, userID uuid.UUID) ([]*domain.Wordbook, error)

	// RenameWordbook changes a wordbook's name.
	// Returns ErrWordbookNotFound or ErrNotOwned.
	RenameWordbook(ctx context.Context, userID, wordbookID uuid.UUID, name string) (*domain.Wordbook, error)

	// DeleteWordbook deletes a wordbook. Its words, their schedules, and
	// their review logs go with it.
	// Returns ErrWordbookNotFound or ErrNotOwned.
	DeleteWordbook(ctx context.Context, userID, wordbookID uuid.UUID) error
}

// WordbookServiceImpl implements the WordbookService interface.
type WordbookServiceImpl struct {
	wordbookStore store.WordbookStore
	logger        *slog.Logger
}

// NewWordbookService creates a new WordbookService.
func NewWordbookService(wordbookStore store.WordbookStore, logger *slog.Logger) WordbookService {
	if wordbookStore == nil {
		panic("wordbookStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WordbookServiceImpl{
		wordbookStore: wordbookStore,
		logger:        logger.With("component", "wordbook_service"),
	}
}

// CreateWordbook creates a new wordbook owned by the user.
func (s *WordbookServiceImpl) CreateWordbook(
	ctx context.Context,
	userID uuid.UUID,
	name string,
) (*domain.Wordbook, error) {
	book, err := domain.NewWordbook(userID, name)
	if err != nil {
		return nil, &WordbookServiceError{
			Operation: "CreateWordbook",
			Message:   "invalid wordbook data",
			Err:       err,
		}
	}

	if err := s.wordbookStore.Create(ctx, book); err != nil {
		s.logger.Error("failed to create wordbook",
			"error", err,
			"user_id", userID)
		return nil, &WordbookServiceError{
			Operation: "CreateWordbook",
			Message:   "failed to save wordbook",
			Err:       err,
		}
	}

	s.logger.Info("wordbook created",
		"wordbook_id", book.ID,
		"user_id", userID)
	return book, nil
}

// GetWordbook retrieves one of the user's wordbooks.
func (s *WordbookServiceImpl) GetWordbook(
	ctx context.Context,
	userID, wordbookID uuid.UUID,
) (*domain.Wordbook, error) {
	return s.ownedWordbook(ctx, userID, wordbookID)
}

// ListWordbooks lists the user's wordbooks, oldest first.
func (s *WordbookServiceImpl) ListWordbooks(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Wordbook, error) {
	books, err := s.wordbookStore.ListByOwner(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list wordbooks",
			"error", err,
			"user_id", userID)
		return nil, &WordbookServiceError{
			Operation: "ListWordbooks",
			Message:   "failed to list wordbooks",
			Err:       err,
		}
	}
	return books, nil
}

// RenameWordbook changes a wordbook's name.
func (s *WordbookServiceImpl) RenameWordbook(
	ctx context.Context,
	userID, wordbookID uuid.UUID,
	name string,
) (*domain.Wordbook, error) {
	book, err := s.ownedWordbook(ctx, userID, wordbookID)
	if err != nil {
		return nil, err
	}

	book.Name = name
	if err := book.Validate(); err != nil {
		return nil, &WordbookServiceError{
			Operation: "RenameWordbook",
			Message:   "invalid wordbook data",
			Err:       err,
		}
	}

	if err := s.wordbookStore.Update(ctx, book); err != nil {
		if errors.Is(err, store.ErrWordbookNotFound) {
			return nil, ErrWordbookNotFound
		}
		s.logger.Error("failed to rename wordbook",
			"error", err,
			"wordbook_id", wordbookID)
		return nil, &WordbookServiceError{
			Operation: "RenameWordbook",
			Message:   "failed to update wordbook",
			Err:       err,
		}
	}

	s.logger.Info("wordbook renamed",
		"wordbook_id", wordbookID,
		"user_id", userID)
	return book, nil
}

// DeleteWordbook deletes a wordbook and, via cascading deletes, everything
// under it.
func (s *WordbookServiceImpl) DeleteWordbook(
	ctx context.Context,
	userID, wordbookID uuid.UUID,
) error {
	if _, err := s.ownedWordbook(ctx, userID, wordbookID); err != nil {
		return err
	}

	if err := s.wordbookStore.Delete(ctx, wordbookID); err != nil {
		if errors.Is(err, store.ErrWordbookNotFound) {
			return ErrWordbookNotFound
		}
		s.logger.Error("failed to delete wordbook",
			"error", err,
			"wordbook_id", wordbookID)
		return &WordbookServiceError{
			Operation: "DeleteWordbook",
			Message:   "failed to delete wordbook",
			Err:       err,
		}
	}

	s.logger.Info("wordbook deleted",
		"wordbook_id", wordbookID,
		"user_id", userID)
	return nil
}

// ownedWordbook loads a wordbook and verifies ownership.
func (s *WordbookServiceImpl) ownedWordbook(
	ctx context.Context,
	userID, wordbookID uuid.UUID,
) (*domain.Wordbook, error) {
	book, err := s.wordbookStore.GetByID(ctx, wordbookID)
	if err != nil {
		if errors.Is(err, store.ErrWordbookNotFound) {
			return nil, ErrWordbookNotFound
		}
		s.logger.Error("failed to retrieve wordbook",
			"error", err,
			"wordbook_id", wordbookID)
		return nil, &WordbookServiceError{
			Operation: "GetWordbook",
			Message:   "failed to retrieve wordbook",
			Err:       err,
		}
	}
	if book.UserID != userID {
		return nil, ErrNotOwned
	}
	return book, nil
}
