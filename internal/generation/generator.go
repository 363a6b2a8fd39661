package generation

import (
	"context"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
)

// Example is a generated usage example for a word: a sentence in the word's
// language and its translation.
type Example struct {
	Sentence    string `json:"sentence"`
	Translation string `json:"translation"`
}

// Generator defines the interface for generating example sentences for
// vocabulary words. It is the boundary between the application core and
// external AI/LLM services.
type Generator interface {
	// GenerateExample creates a usage example for the given word. The word's
	// headword, translation, and part of speech inform the prompt.
	// Returns an Example or an error classified by the sentinels in
	// errors.go.
	GenerateExample(ctx context.Context, word *domain.Word) (*Example, error)
}
