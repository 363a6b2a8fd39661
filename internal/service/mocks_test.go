package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
	"github.com/PengWorks1114/vocabularydb/internal/store"
)

// In-memory store fakes shared by the service tests. Each implements the
// corresponding store interface; WithTx returns the fake itself since no
// real transaction is involved.

type fakeWordbookStore struct {
	books map[uuid.UUID]*domain.Wordbook
}

func newFakeWordbookStore() *fakeWordbookStore {
	return &fakeWordbookStore{books: make(map[uuid.UUID]*domain.Wordbook)}
}

func (f *fakeWordbookStore) Create(ctx context.Context, wordbook *domain.Wordbook) error {
	copied := *wordbook
	f.books[wordbook.ID] = &copied
	return nil
}

func (f *fakeWordbookStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wordbook, error) {
	book, ok := f.books[id]
	if !ok {
		return nil, store.ErrWordbookNotFound
	}
	copied := *book
	return &copied, nil
}

func (f *fakeWordbookStore) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*domain.Wordbook, error) {
	var out []*domain.Wordbook
	for _, book := range f.books {
		if book.UserID == ownerID {
			copied := *book
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeWordbookStore) Update(ctx context.Context, wordbook *domain.Wordbook) error {
	if _, ok := f.books[wordbook.ID]; !ok {
		return store.ErrWordbookNotFound
	}
	copied := *wordbook
	f.books[wordbook.ID] = &copied
	return nil
}

func (f *fakeWordbookStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.books[id]; !ok {
		return store.ErrWordbookNotFound
	}
	delete(f.books, id)
	return nil
}

func (f *fakeWordbookStore) WithTx(tx *sql.Tx) store.WordbookStore { return f }

type fakeWordStore struct {
	words map[uuid.UUID]*domain.Word
	// listCalls counts ListByWordbook hits so cache tests can tell a
	// cached read from a store read.
	listCalls int
}

func newFakeWordStore() *fakeWordStore {
	return &fakeWordStore{words: make(map[uuid.UUID]*domain.Word)}
}

func (f *fakeWordStore) Create(ctx context.Context, word *domain.Word) error {
	copied := *word
	f.words[word.ID] = &copied
	return nil
}

func (f *fakeWordStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	word, ok := f.words[id]
	if !ok {
		return nil, store.ErrWordNotFound
	}
	copied := *word
	return &copied, nil
}

func (f *fakeWordStore) ListByWordbook(
	ctx context.Context,
	wordbookID uuid.UUID,
) ([]*domain.Word, error) {
	f.listCalls++
	var out []*domain.Word
	for _, word := range f.words {
		if word.WordbookID == wordbookID {
			copied := *word
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeWordStore) Update(ctx context.Context, word *domain.Word) error {
	if _, ok := f.words[word.ID]; !ok {
		return store.ErrWordNotFound
	}
	copied := *word
	f.words[word.ID] = &copied
	return nil
}

func (f *fakeWordStore) UpdateMastery(ctx context.Context, word *domain.Word) error {
	stored, ok := f.words[word.ID]
	if !ok {
		return store.ErrWordNotFound
	}
	stored.Proficiency = word.Proficiency
	stored.StudyCount = word.StudyCount
	stored.LastReviewedAt = word.LastReviewedAt
	return nil
}

func (f *fakeWordStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.words[id]; !ok {
		return store.ErrWordNotFound
	}
	delete(f.words, id)
	return nil
}

func (f *fakeWordStore) WithTx(tx *sql.Tx) store.WordStore { return f }

type fakeReviewLogStore struct {
	entries []*domain.ReviewLog
	daily   []store.DailyReviewCount
}

func (f *fakeReviewLogStore) Create(ctx context.Context, log *domain.ReviewLog) error {
	f.entries = append(f.entries, log)
	return nil
}

func (f *fakeReviewLogStore) ListByWord(
	ctx context.Context,
	wordID, userID uuid.UUID,
) ([]*domain.ReviewLog, error) {
	var out []*domain.ReviewLog
	for _, entry := range f.entries {
		if entry.WordID == wordID && entry.UserID == userID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (f *fakeReviewLogStore) CountByDay(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
) ([]store.DailyReviewCount, error) {
	return f.daily, nil
}

func (f *fakeReviewLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore { return f }
