package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
	"github.com/PengWorks1114/vocabularydb/internal/events"
	"github.com/PengWorks1114/vocabularydb/internal/generation"
	"github.com/PengWorks1114/vocabularydb/internal/store"
	"github.com/PengWorks1114/vocabularydb/internal/task"
)

// WordServiceError is a custom error type for word service errors.
type WordServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for WordServiceError.
func (e *WordServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("word service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("word service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *WordServiceError) Unwrap() error {
	return e.Err
}

// WordInput carries the editable fields of a word. Learning state
// (proficiency, study count, last reviewed at) is never set through it.
type WordInput struct {
	Headword           string
	Translation        string
	Pronunciation      string
	PartOfSpeech       string
	Example            string
	ExampleTranslation string
	FrequencyRank      int
	Favorite           bool
	Note               string
}

// WordService provides word management operations.
type WordService interface {
	// CreateWord adds a word to one of the user's wordbooks.
	// Returns ErrWordbookNotFound or ErrNotOwned.
	CreateWord(ctx context.Context, userID, wordbookID uuid.UUID, input WordInput) (*domain.Word, error)

	// GetWord retrieves one of the user's words.
	// Returns ErrWordNotFound or ErrNotOwned.
	GetWord(ctx context.Context, userID, wordID uuid.UUID) (*domain.Word, error)

	// ListWords lists a wordbook's words, oldest first. Results are served
	// from a per-wordbook cache that mutations invalidate.
	// Returns ErrWordbookNotFound or ErrNotOwned.
	ListWords(ctx context.Context, userID, wordbookID uuid.UUID) ([]*domain.Word, error)

	// UpdateWord replaces a word's editable fields.
	// Returns ErrWordNotFound or ErrNotOwned.
	UpdateWord(ctx context.Context, userID, wordID uuid.UUID, input WordInput) (*domain.Word, error)

	// SetFavorite toggles a word's favorite flag without touching the
	// other editable fields.
	// Returns ErrWordNotFound or ErrNotOwned.
	SetFavorite(ctx context.Context, userID, wordID uuid.UUID, favorite bool) (*domain.Word, error)

	// DeleteWord deletes a word along with its schedule and review logs.
	// Returns ErrWordNotFound or ErrNotOwned.
	DeleteWord(ctx context.Context, userID, wordID uuid.UUID) error

	// GenerateExample asks the configured generator for an example sentence
	// and saves it onto the word.
	// Returns ErrWordNotFound, ErrNotOwned, or the generation package's
	// errors (including generation.ErrGenerationDisabled when no generator
	// is configured).
	GenerateExample(ctx context.Context, userID, wordID uuid.UUID) (*domain.Word, error)

	// QueueExamples requests background example generation for every word
	// in the wordbook that has no example yet, returning the number queued.
	// Returns ErrWordbookNotFound or ErrNotOwned, and
	// generation.ErrGenerationDisabled when generation is not configured.
	QueueExamples(ctx context.Context, userID, wordbookID uuid.UUID) (int, error)

	// InvalidateWordCache drops the wordbook's cached listing. Callers that
	// write word rows outside this service use it to keep ListWords fresh.
	InvalidateWordCache(wordbookID uuid.UUID)
}

// WordServiceImpl implements the WordService interface.
type WordServiceImpl struct {
	wordStore     store.WordStore
	wordbookStore store.WordbookStore
	generator     generation.Generator
	emitter       events.EventEmitter
	logger        *slog.Logger

	// cacheMu guards cache. Entries are whole-wordbook listings; any
	// mutation inside a wordbook drops its entry.
	cacheMu sync.RWMutex
	cache   map[uuid.UUID][]*domain.Word
}

// NewWordService creates a new WordService. The generator may be nil, in
// which case GenerateExample reports generation.ErrGenerationDisabled. The
// emitter may be nil, in which case QueueExamples reports the same.
func NewWordService(
	wordStore store.WordStore,
	wordbookStore store.WordbookStore,
	generator generation.Generator,
	emitter events.EventEmitter,
	logger *slog.Logger,
) WordService {
	if wordStore == nil {
		panic("wordStore cannot be nil")
	}
	if wordbookStore == nil {
		panic("wordbookStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WordServiceImpl{
		wordStore:     wordStore,
		wordbookStore: wordbookStore,
		generator:     generator,
		emitter:       emitter,
		logger:        logger.With("component", "word_service"),
		cache:         make(map[uuid.UUID][]*domain.Word),
	}
}

// CreateWord adds a word to one of the user's wordbooks.
func (s *WordServiceImpl) CreateWord(
	ctx context.Context,
	userID, wordbookID uuid.UUID,
	input WordInput,
) (*domain.Word, error) {
	if _, err := s.ownedWordbook(ctx, userID, wordbookID); err != nil {
		return nil, err
	}

	word, err := domain.NewWord(wordbookID, input.Headword, input.Translation)
	if err != nil {
		return nil, &WordServiceError{
			Operation: "CreateWord",
			Message:   "invalid word data",
			Err:       err,
		}
	}
	applyInput(word, input)

	if err := s.wordStore.Create(ctx, word); err != nil {
		if errors.Is(err, store.ErrWordbookNotFound) {
			return nil, ErrWordbookNotFound
		}
		s.logger.Error("failed to create word",
			"error", err,
			"wordbook_id", wordbookID)
		return nil, &WordServiceError{
			Operation: "CreateWord",
			Message:   "failed to save word",
			Err:       err,
		}
	}

	s.invalidate(wordbookID)
	s.logger.Info("word created",
		"word_id", word.ID,
		"wordbook_id", wordbookID)
	return word, nil
}

// GetWord retrieves one of the user's words.
func (s *WordServiceImpl) GetWord(
	ctx context.Context,
	userID, wordID uuid.UUID,
) (*domain.Word, error) {
	return s.ownedWord(ctx, userID, wordID)
}

// ListWords lists a wordbook's words, oldest first, through the cache.
func (s *WordServiceImpl) ListWords(
	ctx context.Context,
	userID, wordbookID uuid.UUID,
) ([]*domain.Word, error) {
	if _, err := s.ownedWordbook(ctx, userID, wordbookID); err != nil {
		return nil, err
	}

	s.cacheMu.RLock()
	cached, ok := s.cache[wordbookID]
	s.cacheMu.RUnlock()
	if ok {
		return cached, nil
	}

	words, err := s.wordStore.ListByWordbook(ctx, wordbookID)
	if err != nil {
		s.logger.Error("failed to list words",
			"error", err,
			"wordbook_id", wordbookID)
		return nil, &WordServiceError{
			Operation: "ListWords",
			Message:   "failed to list words",
			Err:       err,
		}
	}

	s.cacheMu.Lock()
	s.cache[wordbookID] = words
	s.cacheMu.Unlock()
	return words, nil
}

// UpdateWord replaces a word's editable fields.
func (s *WordServiceImpl) UpdateWord(
	ctx context.Context,
	userID, wordID uuid.UUID,
	input WordInput,
) (*domain.Word, error) {
	word, err := s.ownedWord(ctx, userID, wordID)
	if err != nil {
		return nil, err
	}

	word.Headword = input.Headword
	word.Translation = input.Translation
	applyInput(word, input)
	word.UpdatedAt = time.Now().UTC()

	if err := word.Validate(); err != nil {
		return nil, &WordServiceError{
			Operation: "UpdateWord",
			Message:   "invalid word data",
			Err:       err,
		}
	}

	if err := s.persistUpdate(ctx, word, "UpdateWord"); err != nil {
		return nil, err
	}

	s.logger.Info("word updated",
		"word_id", wordID)
	return word, nil
}

// SetFavorite toggles a word's favorite flag.
func (s *WordServiceImpl) SetFavorite(
	ctx context.Context,
	userID, wordID uuid.UUID,
	favorite bool,
) (*domain.Word, error) {
	word, err := s.ownedWord(ctx, userID, wordID)
	if err != nil {
		return nil, err
	}

	word.Favorite = favorite
	word.UpdatedAt = time.Now().UTC()

	if err := s.persistUpdate(ctx, word, "SetFavorite"); err != nil {
		return nil, err
	}
	return word, nil
}

// DeleteWord deletes a word along with its dependent rows.
func (s *WordServiceImpl) DeleteWord(ctx context.Context, userID, wordID uuid.UUID) error {
	word, err := s.ownedWord(ctx, userID, wordID)
	if err != nil {
		return err
	}

	if err := s.wordStore.Delete(ctx, wordID); err != nil {
		if errors.Is(err, store.ErrWordNotFound) {
			return ErrWordNotFound
		}
		s.logger.Error("failed to delete word",
			"error", err,
			"word_id", wordID)
		return &WordServiceError{
			Operation: "DeleteWord",
			Message:   "failed to delete word",
			Err:       err,
		}
	}

	s.invalidate(word.WordbookID)
	s.logger.Info("word deleted",
		"word_id", wordID,
		"wordbook_id", word.WordbookID)
	return nil
}

// GenerateExample fills in a word's example sentence from the generator.
func (s *WordServiceImpl) GenerateExample(
	ctx context.Context,
	userID, wordID uuid.UUID,
) (*domain.Word, error) {
	word, err := s.ownedWord(ctx, userID, wordID)
	if err != nil {
		return nil, err
	}

	if s.generator == nil {
		return nil, generation.ErrGenerationDisabled
	}

	example, err := s.generator.GenerateExample(ctx, word)
	if err != nil {
		s.logger.Warn("example generation failed",
			"error", err,
			"word_id", wordID)
		return nil, err
	}

	word.Example = example.Sentence
	word.ExampleTranslation = example.Translation
	word.UpdatedAt = time.Now().UTC()

	if err := s.persistUpdate(ctx, word, "GenerateExample"); err != nil {
		return nil, err
	}

	s.logger.Info("example generated",
		"word_id", wordID)
	return word, nil
}

// QueueExamples requests background example generation for every word in the
// wordbook that has no example yet.
func (s *WordServiceImpl) QueueExamples(
	ctx context.Context,
	userID, wordbookID uuid.UUID,
) (int, error) {
	if s.emitter == nil {
		return 0, generation.ErrGenerationDisabled
	}

	words, err := s.ListWords(ctx, userID, wordbookID)
	if err != nil {
		return 0, err
	}

	queued := 0
	for _, word := range words {
		if word.Example != "" {
			continue
		}

		event, err := events.NewTaskRequestEvent(task.TaskTypeExampleGeneration,
			struct {
				WordID uuid.UUID `json:"word_id"`
			}{WordID: word.ID})
		if err != nil {
			return queued, &WordServiceError{
				Operation: "QueueExamples",
				Message:   "failed to build generation event",
				Err:       err,
			}
		}

		if err := s.emitter.EmitEvent(ctx, event); err != nil {
			return queued, &WordServiceError{
				Operation: "QueueExamples",
				Message:   "failed to emit generation event",
				Err:       err,
			}
		}
		queued++
	}

	s.logger.Info("example generation queued",
		"wordbook_id", wordbookID,
		"queued", queued)
	return queued, nil
}

// persistUpdate writes the full word row and drops the wordbook's cache entry.
func (s *WordServiceImpl) persistUpdate(
	ctx context.Context,
	word *domain.Word,
	operation string,
) error {
	if err := s.wordStore.Update(ctx, word); err != nil {
		if errors.Is(err, store.ErrWordNotFound) {
			return ErrWordNotFound
		}
		s.logger.Error("failed to update word",
			"error", err,
			"word_id", word.ID)
		return &WordServiceError{
			Operation: operation,
			Message:   "failed to update word",
			Err:       err,
		}
	}
	s.invalidate(word.WordbookID)
	return nil
}

func (s *WordServiceImpl) invalidate(wordbookID uuid.UUID) {
	s.cacheMu.Lock()
	delete(s.cache, wordbookID)
	s.cacheMu.Unlock()
}

// InvalidateWordCache implements the WordService interface.
func (s *WordServiceImpl) InvalidateWordCache(wordbookID uuid.UUID) {
	s.invalidate(wordbookID)
}

// applyInput copies the optional editable fields onto the word. Headword and
// translation are handled by the callers since creation validates them.
func applyInput(word *domain.Word, input WordInput) {
	word.Pronunciation = input.Pronunciation
	word.PartOfSpeech = input.PartOfSpeech
	word.Example = input.Example
	word.ExampleTranslation = input.ExampleTranslation
	word.FrequencyRank = input.FrequencyRank
	word.Favorite = input.Favorite
	word.Note = input.Note
}

// ownedWord loads a word and verifies it sits in one of the user's wordbooks.
func (s *WordServiceImpl) ownedWord(
	ctx context.Context,
	userID, wordID uuid.UUID,
) (*domain.Word, error) {
	word, err := s.wordStore.GetByID(ctx, wordID)
	if err != nil {
		if errors.Is(err, store.ErrWordNotFound) {
			return nil, ErrWordNotFound
		}
		s.logger.Error("failed to retrieve word",
			"error", err,
			"word_id", wordID)
		return nil, &WordServiceError{
			Operation: "GetWord",
			Message:   "failed to retrieve word",
			Err:       err,
		}
	}

	book, err := s.wordbookStore.GetByID(ctx, word.WordbookID)
	if err != nil {
		if errors.Is(err, store.ErrWordbookNotFound) {
			// The wordbook vanished under the word; report the word itself
			// as missing rather than leaking its existence.
			return nil, ErrWordNotFound
		}
		return nil, &WordServiceError{
			Operation: "GetWord",
			Message:   "failed to retrieve word's wordbook",
			Err:       err,
		}
	}
	if book.UserID != userID {
		return nil, ErrNotOwned
	}
	return word, nil
}

// ownedWordbook loads a wordbook and verifies ownership.
func (s *WordServiceImpl) ownedWordbook(
	ctx context.Context,
	userID, wordbookID uuid.UUID,
) (*domain.Wordbook, error) {
	book, err := s.wordbookStore.GetByID(ctx, wordbookID)
	if err != nil {
		if errors.Is(err, store.ErrWordbookNotFound) {
			return nil, ErrWordbookNotFound
		}
		return nil, &WordServiceError{
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
