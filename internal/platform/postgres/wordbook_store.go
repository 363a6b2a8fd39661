package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
	"github.com/PengWorks1114/vocabularydb/internal/platform/logger"
	"github.com/PengWorks1114/vocabularydb/internal/store"
)

// WordbookStore implements the store.WordbookStore interface using a
// PostgreSQL database as the storage backend.
type WordbookStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewWordbookStore creates a PostgreSQL implementation of the WordbookStore
// interface. If logger is nil, the process default logger is used.
func NewWordbookStore(db store.DBTX, log *slog.Logger) *WordbookStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &WordbookStore{
		db:     db,
		logger: log.With(slog.String("component", "wordbook_store")),
	}
}

var _ store.WordbookStore = (*WordbookStore)(nil)

// WithTx implements store.WordbookStore.WithTx
func (s *WordbookStore) WithTx(tx *sql.Tx) store.WordbookStore {
	return &WordbookStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.WordbookStore.Create
// Returns store.ErrInvalidEntity if the owner does not exist.
func (s *WordbookStore) Create(ctx context.Context, wordbook *domain.Wordbook) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := wordbook.Validate(); err != nil {
		log.Warn("wordbook validation failed during create",
			slog.String("error", err.Error()),
			slog.String("wordbook_id", wordbook.ID.String()))
		return err
	}

	query := `
		INSERT INTO wordbooks (id, user_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		wordbook.ID,
		wordbook.UserID,
		wordbook.Name,
		wordbook.CreatedAt,
		wordbook.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during wordbook creation",
				slog.String("wordbook_id", wordbook.ID.String()),
				slog.String("user_id", wordbook.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, wordbook.UserID)
		}
		log.Error("failed to create wordbook",
			slog.String("error", err.Error()),
			slog.String("wordbook_id", wordbook.ID.String()))
		return MapError(err)
	}

	log.Info("wordbook created successfully",
		slog.String("wordbook_id", wordbook.ID.String()),
		slog.String("user_id", wordbook.UserID.String()))
	return nil
}

// GetByID implements store.WordbookStore.GetByID
// Returns store.ErrWordbookNotFound if the wordbook does not exist.
func (s *WordbookStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wordbook, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM wordbooks
		WHERE id = $1
	`

	var book domain.Wordbook
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&book.ID,
		&book.UserID,
		&book.Name,
		&book.CreatedAt,
		&book.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("wordbook not found", slog.String("wordbook_id", id.String()))
			return nil, store.ErrWordbookNotFound
		}
		log.Error("failed to get wordbook by ID",
			slog.String("error", err.Error()),
			slog.String("wordbook_id", id.String()))
		return nil, MapError(err)
	}

	return &book, nil
}

// ListByOwner implements store.WordbookStore.ListByOwner
func (s *WordbookStore) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*domain.Wordbook, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM wordbooks
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to query wordbooks by owner",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	books := []*domain.Wordbook{}
	for rows.Next() {
		var book domain.Wordbook
		err := rows.Scan(
			&book.ID,
			&book.UserID,
			&book.Name,
			&book.CreatedAt,
			&book.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan wordbook row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		books = append(books, &book)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return books, nil
}

// Update implements store.WordbookStore.Update
// Returns store.ErrWordbookNotFound if the wordbook does not exist.
func (s *WordbookStore) Update(ctx context.Context, wordbook *domain.Wordbook) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := wordbook.Validate(); err != nil {
		log.Warn("wordbook validation failed during update",
			slog.String("error", err.Error()),
			slog.String("wordbook_id", wordbook.ID.String()))
		return err
	}

	wordbook.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE wordbooks
		SET name = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := s.db.ExecContext(ctx, query, wordbook.Name, wordbook.UpdatedAt, wordbook.ID)
	if err != nil {
		log.Error("failed to update wordbook",
			slog.String("error", err.Error()),
			slog.String("wordbook_id", wordbook.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "wordbook"); err != nil {
		return store.ErrWordbookNotFound
	}

	log.Info("wordbook updated successfully",
		slog.String("wordbook_id", wordbook.ID.String()))
	return nil
}

// Delete implements store.WordbookStore.Delete
// Contained words, schedules, and review logs fall away via ON DELETE CASCADE.
// Returns store.ErrWordbookNotFound if the wordbook does not exist.
func (s *WordbookStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM wordbooks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete wordbook",
			slog.String("error", err.Error()),
			slog.String("wordbook_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "wordbook"); err != nil {
		return store.ErrWordbookNotFound
	}

	log.Info("wordbook deleted successfully",
		slog.String("wordbook_id", id.String()))
	return nil
}
