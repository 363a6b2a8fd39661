package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Word
var (
	ErrEmptyWordID         = errors.New("word ID cannot be empty")
	ErrWordMissingBook     = errors.New("word wordbook ID cannot be empty")
	ErrEmptyHeadword       = errors.New("word headword cannot be empty")
	ErrNegativeProficiency = errors.New("proficiency cannot be negative")
)

// Word is a single vocabulary item owned by a wordbook. Proficiency is a
// 0-100 score estimating how well the learner knows the item; imported data
// may transiently exceed 100 and is handled by the scheduler's cold start.
type Word struct {
	ID                 uuid.UUID  `json:"id"`
	WordbookID         uuid.UUID  `json:"wordbook_id"`
	Headword           string     `json:"headword"`
	Translation        string     `json:"translation"`
	Pronunciation      string     `json:"pronunciation,omitempty"`
	PartOfSpeech       string     `json:"part_of_speech,omitempty"`
	Example            string     `json:"example,omitempty"`
	ExampleTranslation string     `json:"example_translation,omitempty"`
	FrequencyRank      int        `json:"frequency_rank,omitempty"`
	Favorite           bool       `json:"favorite"`
	Note               string     `json:"note,omitempty"`
	Proficiency        int        `json:"proficiency"`
	StudyCount         int        `json:"study_count"`
	LastReviewedAt     *time.Time `json:"last_reviewed_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// NewWord creates a word with zeroed learning state, owned by the given wordbook.
func NewWord(wordbookID uuid.UUID, headword, translation string) (*Word, error) {
	now := time.Now().UTC()
	word := &Word{
		ID:          uuid.New(),
		WordbookID:  wordbookID,
		Headword:    headword,
		Translation: translation,
		Proficiency: 0,
		StudyCount:  0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := word.Validate(); err != nil {
		return nil, err
	}

	return word, nil
}

// Validate checks if the Word has valid data.
// Returns an error if any field fails validation.
func (w *Word) Validate() error {
	if w.ID == uuid.Nil {
		return ErrEmptyWordID
	}

	if w.WordbookID == uuid.Nil {
		return ErrWordMissingBook
	}

	if w.Headword == "" {
		return ErrEmptyHeadword
	}

	if w.Proficiency < 0 {
		return ErrNegativeProficiency
	}

	return nil
}
