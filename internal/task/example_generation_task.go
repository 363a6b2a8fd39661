package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
	"github.com/PengWorks1114/vocabularydb/internal/generation"
)

// WordRepository is the subset of word storage the generation task needs.
type WordRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error)
	Update(ctx context.Context, word *domain.Word) error
}

// WordCacheInvalidator evicts a wordbook's cached word listing after the
// task writes a generated example onto a word. A nil invalidator is valid
// when no cache fronts word reads.
type WordCacheInvalidator interface {
	InvalidateWordCache(wordbookID uuid.UUID)
}

// exampleGenerationPayload is the persisted payload of an example
// generation task.
type exampleGenerationPayload struct {
	WordID uuid.UUID `json:"word_id"`
}

// ExampleGenerationTask generates an example sentence for one word and saves
// it. Words that already carry an example are skipped, which makes requeued
// tasks idempotent.
type ExampleGenerationTask struct {
	id          uuid.UUID
	wordID      uuid.UUID
	words       WordRepository
	generator   generation.Generator
	invalidator WordCacheInvalidator
	status      TaskStatus
	logger      *slog.Logger
}

// NewExampleGenerationTask creates a task that will generate an example for
// the given word. The invalidator may be nil.
func NewExampleGenerationTask(
	wordID uuid.UUID,
	words WordRepository,
	generator generation.Generator,
	invalidator WordCacheInvalidator,
	logger *slog.Logger,
) (*ExampleGenerationTask, error) {
	return newExampleGenerationTask(uuid.New(), wordID, words, generator, invalidator, logger)
}

func newExampleGenerationTask(
	id, wordID uuid.UUID,
	words WordRepository,
	generator generation.Generator,
	invalidator WordCacheInvalidator,
	logger *slog.Logger,
) (*ExampleGenerationTask, error) {
	if wordID == uuid.Nil {
		return nil, fmt.Errorf("wordID cannot be nil")
	}
	if words == nil {
		return nil, fmt.Errorf("word repository cannot be nil")
	}
	if generator == nil {
		return nil, fmt.Errorf("generator cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ExampleGenerationTask{
		id:          id,
		wordID:      wordID,
		words:       words,
		generator:   generator,
		invalidator: invalidator,
		status:      TaskStatusPending,
		logger:      logger.With("component", "example_generation_task"),
	}, nil
}

// ID returns the task's unique identifier.
func (t *ExampleGenerationTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier.
func (t *ExampleGenerationTask) Type() string {
	return TaskTypeExampleGeneration
}

// Payload returns the task data as JSON bytes.
func (t *ExampleGenerationTask) Payload() []byte {
	raw, err := json.Marshal(exampleGenerationPayload{WordID: t.wordID})
	if err != nil {
		// A struct of one UUID cannot fail to marshal.
		t.logger.Error("failed to marshal payload", "error", err)
		return nil
	}
	return raw
}

// Status returns the current task status.
func (t *ExampleGenerationTask) Status() TaskStatus {
	return t.status
}

// Execute generates and saves the example sentence.
func (t *ExampleGenerationTask) Execute(ctx context.Context) error {
	log := t.logger.With("word_id", t.wordID)

	word, err := t.words.GetByID(ctx, t.wordID)
	if err != nil {
		return fmt.Errorf("failed to load word: %w", err)
	}

	if word.Example != "" {
		log.Debug("word already has an example, skipping")
		return nil
	}

	example, err := t.generator.GenerateExample(ctx, word)
	if err != nil {
		return fmt.Errorf("failed to generate example: %w", err)
	}

	word.Example = example.Sentence
	word.ExampleTranslation = example.Translation

	if err := t.words.Update(ctx, word); err != nil {
		return fmt.Errorf("failed to save generated example: %w", err)
	}

	if t.invalidator != nil {
		t.invalidator.InvalidateWordCache(word.WordbookID)
	}

	log.Info("example generated", "headword", word.Headword)
	return nil
}
