package task

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/PengWorks1114/vocabularydb/internal/generation"
)

// ExampleGenerationTaskFactory builds ExampleGenerationTasks with their
// dependencies already bound.
type ExampleGenerationTaskFactory struct {
	words       WordRepository
	generator   generation.Generator
	invalidator WordCacheInvalidator
	logger      *slog.Logger
}

// NewExampleGenerationTaskFactory creates a factory for example generation
// tasks. The invalidator may be nil.
func NewExampleGenerationTaskFactory(
	words WordRepository,
	generator generation.Generator,
	invalidator WordCacheInvalidator,
	logger *slog.Logger,
) *ExampleGenerationTaskFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExampleGenerationTaskFactory{
		words:       words,
		generator:   generator,
		invalidator: invalidator,
		logger:      logger,
	}
}

// NewTask creates a fresh task for the given word.
func (f *ExampleGenerationTaskFactory) NewTask(wordID uuid.UUID) (Task, error) {
	return NewExampleGenerationTask(wordID, f.words, f.generator, f.invalidator, f.logger)
}

// Factory returns the rehydration function the runner uses to rebuild
// persisted tasks of this type.
func (f *ExampleGenerationTaskFactory) Factory() Factory {
	return func(id uuid.UUID, payload []byte) (Task, error) {
		var p exampleGenerationPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("invalid example generation payload: %w", err)
		}
		return newExampleGenerationTask(id, p.WordID, f.words, f.generator, f.invalidator, f.logger)
	}
}
