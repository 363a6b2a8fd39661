package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrEmptyHeadword is returned when a word has no headword to prompt with.
	ErrEmptyHeadword = errors.New("word headword cannot be empty")
)
