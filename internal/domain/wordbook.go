package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Wordbook
var (
	ErrEmptyWordbookID    = errors.New("wordbook ID cannot be empty")
	ErrEmptyWordbookOwner = errors.New("wordbook user ID cannot be empty")
	ErrEmptyWordbookName  = errors.New("wordbook name cannot be empty")
)

// Wordbook is a named collection of words owned by one learner.
type Wordbook struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewWordbook creates a wordbook for the given learner.
func NewWordbook(userID uuid.UUID, name string) (*Wordbook, error) {
	now := time.Now().UTC()
	book := &Wordbook{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := book.Validate(); err != nil {
		return nil, err
	}

	return book, nil
}

// Validate checks if the Wordbook has valid data.
func (b *Wordbook) Validate() error {
	if b.ID == uuid.Nil {
		return ErrEmptyWordbookID
	}

	if b.UserID == uuid.Nil {
		return ErrEmptyWordbookOwner
	}

	if b.Name == "" {
		return ErrEmptyWordbookName
	}

	return nil
}
