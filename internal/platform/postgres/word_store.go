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

// WordStore implements the store.WordStore interface using a PostgreSQL
// database as the storage backend.
type WordStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewWordStore creates a PostgreSQL implementation of the WordStore
// interface. If logger is nil, the process default logger is used.
func NewWordStore(db store.DBTX, log *slog.Logger) *WordStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &WordStore{
		db:     db,
		logger: log.With(slog.String("component", "word_store")),
	}
}

var _ store.WordStore = (*WordStore)(nil)

// wordColumns is the select list shared by every word query, in scan order.
const wordColumns = `id, wordbook_id, headword, translation, pronunciation,
	part_of_speech, example, example_translation, frequency_rank, favorite,
	note, proficiency, study_count, last_reviewed_at, created_at, updated_at`

// WithTx implements store.WordStore.WithTx
func (s *WordStore) WithTx(tx *sql.Tx) store.WordStore {
	return &WordStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanWord reads one row into a domain Word. last_reviewed_at is nullable.
func scanWord(scanner interface{ Scan(dest ...any) error }) (*domain.Word, error) {
	var word domain.Word
	var lastReviewed sql.NullTime

	err := scanner.Scan(
		&word.ID,
		&word.WordbookID,
		&word.Headword,
		&word.Translation,
		&word.Pronunciation,
		&word.PartOfSpeech,
		&word.Example,
		&word.ExampleTranslation,
		&word.FrequencyRank,
		&word.Favorite,
		&word.Note,
		&word.Proficiency,
		&word.StudyCount,
		&lastReviewed,
		&word.CreatedAt,
		&word.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastReviewed.Valid {
		t := lastReviewed.Time
		word.LastReviewedAt = &t
	}
	return &word, nil
}

// Create implements store.WordStore.Create
// Returns a wrapped store.ErrWordbookNotFound if the parent wordbook is gone.
func (s *WordStore) Create(ctx context.Context, word *domain.Word) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := word.Validate(); err != nil {
		log.Warn("word validation failed during create",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return err
	}

	query := `
		INSERT INTO words (` + wordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		word.ID,
		word.WordbookID,
		word.Headword,
		word.Translation,
		word.Pronunciation,
		word.PartOfSpeech,
		word.Example,
		word.ExampleTranslation,
		word.FrequencyRank,
		word.Favorite,
		word.Note,
		word.Proficiency,
		word.StudyCount,
		word.LastReviewedAt,
		word.CreatedAt,
		word.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during word creation",
				slog.String("word_id", word.ID.String()),
				slog.String("wordbook_id", word.WordbookID.String()))
			return fmt.Errorf("%w: wordbook with ID %s",
				store.ErrWordbookNotFound, word.WordbookID)
		}
		log.Error("failed to create word",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return MapError(err)
	}

	log.Info("word created successfully",
		slog.String("word_id", word.ID.String()),
		slog.String("wordbook_id", word.WordbookID.String()))
	return nil
}

// GetByID implements store.WordStore.GetByID
// Returns store.ErrWordNotFound if the word does not exist.
func (s *WordStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + wordColumns + ` FROM words WHERE id = $1`

	word, err := scanWord(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("word not found", slog.String("word_id", id.String()))
			return nil, store.ErrWordNotFound
		}
		log.Error("failed to get word by ID",
			slog.String("error", err.Error()),
			slog.String("word_id", id.String()))
		return nil, MapError(err)
	}

	return word, nil
}

// ListByWordbook implements store.WordStore.ListByWordbook
func (s *WordStore) ListByWordbook(
	ctx context.Context,
	wordbookID uuid.UUID,
) ([]*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + wordColumns + `
		FROM words
		WHERE wordbook_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, wordbookID)
	if err != nil {
		log.Error("failed to query words by wordbook",
			slog.String("error", err.Error()),
			slog.String("wordbook_id", wordbookID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	words := []*domain.Word{}
	for rows.Next() {
		word, err := scanWord(rows)
		if err != nil {
			log.Error("failed to scan word row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		words = append(words, word)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	log.Debug("listed words by wordbook",
		slog.String("wordbook_id", wordbookID.String()),
		slog.Int("count", len(words)))
	return words, nil
}

// Update implements store.WordStore.Update
// Returns store.ErrWordNotFound if the word does not exist.
func (s *WordStore) Update(ctx context.Context, word *domain.Word) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := word.Validate(); err != nil {
		log.Warn("word validation failed during update",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return err
	}

	word.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE words
		SET headword = $1, translation = $2, pronunciation = $3,
			part_of_speech = $4, example = $5, example_translation = $6,
			frequency_rank = $7, favorite = $8, note = $9,
			proficiency = $10, study_count = $11, last_reviewed_at = $12,
			updated_at = $13
		WHERE id = $14
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		word.Headword,
		word.Translation,
		word.Pronunciation,
		word.PartOfSpeech,
		word.Example,
		word.ExampleTranslation,
		word.FrequencyRank,
		word.Favorite,
		word.Note,
		word.Proficiency,
		word.StudyCount,
		word.LastReviewedAt,
		word.UpdatedAt,
		word.ID,
	)

	if err != nil {
		log.Error("failed to update word",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "word"); err != nil {
		return store.ErrWordNotFound
	}

	log.Info("word updated successfully",
		slog.String("word_id", word.ID.String()))
	return nil
}

// UpdateMastery implements store.WordStore.UpdateMastery
// Only the learning-progress columns change; word content is untouched.
// Returns store.ErrWordNotFound if the word does not exist.
func (s *WordStore) UpdateMastery(ctx context.Context, word *domain.Word) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	word.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE words
		SET proficiency = $1, study_count = $2, last_reviewed_at = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		word.Proficiency,
		word.StudyCount,
		word.LastReviewedAt,
		word.UpdatedAt,
		word.ID,
	)

	if err != nil {
		log.Error("failed to update word mastery",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "word"); err != nil {
		return store.ErrWordNotFound
	}

	log.Debug("word mastery updated",
		slog.String("word_id", word.ID.String()),
		slog.Int("proficiency", word.Proficiency))
	return nil
}

// Delete implements store.WordStore.Delete
// The word's schedule and review logs fall away via ON DELETE CASCADE.
// Returns store.ErrWordNotFound if the word does not exist.
func (s *WordStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM words WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete word",
			slog.String("error", err.Error()),
			slog.String("word_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "word"); err != nil {
		return store.ErrWordNotFound
	}

	log.Info("word deleted successfully",
		slog.String("word_id", id.String()))
	return nil
}
