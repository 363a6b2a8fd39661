package study

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
	"github.com/PengWorks1114/vocabularydb/internal/session"
	"github.com/PengWorks1114/vocabularydb/internal/store"
)

type mockWordRepo struct {
	words map[uuid.UUID]*domain.Word
}

func (m *mockWordRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	word, ok := m.words[id]
	if !ok {
		return nil, store.ErrWordNotFound
	}
	copied := *word
	return &copied, nil
}

func (m *mockWordRepo) ListByWordbook(
	ctx context.Context,
	wordbookID uuid.UUID,
) ([]*domain.Word, error) {
	var out []*domain.Word
	for _, w := range m.words {
		if w.WordbookID == wordbookID {
			copied := *w
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockWordRepo) UpdateMastery(ctx context.Context, word *domain.Word) error {
	stored, ok := m.words[word.ID]
	if !ok {
		return store.ErrWordNotFound
	}
	stored.Proficiency = word.Proficiency
	stored.StudyCount = word.StudyCount
	stored.LastReviewedAt = word.LastReviewedAt
	return nil
}

type mockWordbookRepo struct {
	books map[uuid.UUID]*domain.Wordbook
}

func (m *mockWordbookRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wordbook, error) {
	book, ok := m.books[id]
	if !ok {
		return nil, store.ErrWordbookNotFound
	}
	return book, nil
}

type mockScheduleRepo struct {
	schedules []*domain.WordSchedule
}

func (m *mockScheduleRepo) ListDue(
	ctx context.Context,
	wordbookID, userID uuid.UUID,
	dueBy time.Time,
	limit int,
) ([]*domain.WordSchedule, error) {
	var due []*domain.WordSchedule
	for _, schedule := range m.schedules {
		if schedule.UserID != userID || schedule.DueAt.After(dueBy) {
			continue
		}
		due = append(due, schedule)
	}
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

type recordingInvalidator struct {
	wordbooks []uuid.UUID
}

func (r *recordingInvalidator) InvalidateWordCache(wordbookID uuid.UUID) {
	r.wordbooks = append(r.wordbooks, wordbookID)
}

type fixture struct {
	service     Service
	words       *mockWordRepo
	schedules   *mockScheduleRepo
	invalidator *recordingInvalidator
	userID      uuid.UUID
	bookID      uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	userID := uuid.New()
	book, err := domain.NewWordbook(userID, "Daily Practice")
	require.NoError(t, err)

	words := &mockWordRepo{words: make(map[uuid.UUID]*domain.Word)}
	books := &mockWordbookRepo{books: map[uuid.UUID]*domain.Wordbook{book.ID: book}}
	schedules := &mockScheduleRepo{}
	invalidator := &recordingInvalidator{}
	composer := session.NewComposer(rand.New(rand.NewSource(7)))

	return &fixture{
		service:     NewService(words, books, schedules, composer, invalidator, nil),
		words:       words,
		schedules:   schedules,
		invalidator: invalidator,
		userID:      userID,
		bookID:      book.ID,
	}
}

func (f *fixture) addWord(t *testing.T, headword string, proficiency int) *domain.Word {
	t.Helper()
	word, err := domain.NewWord(f.bookID, headword, headword+"-translation")
	require.NoError(t, err)
	word.Proficiency = proficiency
	f.words.words[word.ID] = word
	return word
}

func TestDrawSession(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	for i := 0; i < 6; i++ {
		f.addWord(t, "w", 10)
	}

	drawn, err := f.service.DrawSession(
		context.Background(), f.userID, f.bookID,
		4, session.ModeRandom, session.DirectionHeadwordToTranslation, false,
	)
	require.NoError(t, err)
	assert.Len(t, drawn, 4)
}

func TestDrawSessionBandFilter(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.addWord(t, "low", 5)
	f.addWord(t, "mid", 60)
	f.addWord(t, "high", 95)

	drawn, err := f.service.DrawSession(
		context.Background(), f.userID, f.bookID,
		10, session.ModeOnlyMemorized, session.DirectionHeadwordToTranslation, false,
	)
	require.NoError(t, err)
	require.Len(t, drawn, 1)
	assert.Equal(t, "high", drawn[0].Headword)
}

func TestDrawSessionSentinels(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.DrawSession(
		ctx, f.userID, f.bookID, 5,
		session.ModeRandom, session.DirectionHeadwordToTranslation, false,
	)
	assert.ErrorIs(t, err, session.ErrNoWordsAvailable)

	f.addWord(t, "only", 10)

	_, err = f.service.DrawSession(
		ctx, f.userID, f.bookID, 0,
		session.ModeRandom, session.DirectionHeadwordToTranslation, false,
	)
	assert.ErrorIs(t, err, session.ErrInvalidCount)

	_, err = f.service.DrawSession(
		ctx, f.userID, f.bookID, 5,
		session.ModeOnlyMemorized, session.DirectionHeadwordToTranslation, false,
	)
	assert.ErrorIs(t, err, session.ErrNoFilterMatches)
}

func TestDrawSessionOwnership(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.DrawSession(
		ctx, f.userID, uuid.New(), 5,
		session.ModeRandom, session.DirectionHeadwordToTranslation, false,
	)
	assert.ErrorIs(t, err, ErrWordbookNotFound)

	_, err = f.service.DrawSession(
		ctx, uuid.New(), f.bookID, 5,
		session.ModeRandom, session.DirectionHeadwordToTranslation, false,
	)
	assert.ErrorIs(t, err, ErrWordbookNotOwned)
}

func TestDrawSessionDueOnly(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	due := f.addWord(t, "fällig", 10)
	notDue := f.addWord(t, "geplant", 10)
	f.addWord(t, "ungeplant", 10)
	now := time.Now().UTC()

	f.schedules.schedules = []*domain.WordSchedule{
		{WordID: due.ID, UserID: f.userID, DueAt: now.AddDate(0, 0, -1)},
		{WordID: notDue.ID, UserID: f.userID, DueAt: now.AddDate(0, 0, 5)},
	}

	// Only the overdue word qualifies; the future schedule and the
	// never-scheduled word are excluded.
	drawn, err := f.service.DrawSession(
		context.Background(), f.userID, f.bookID,
		10, session.ModeRandom, session.DirectionHeadwordToTranslation, true,
	)
	require.NoError(t, err)
	require.Len(t, drawn, 1)
	assert.Equal(t, due.ID, drawn[0].ID)
}

func TestDrawSessionDueOnlyEmpty(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.addWord(t, "neu", 10)

	_, err := f.service.DrawSession(
		context.Background(), f.userID, f.bookID,
		5, session.ModeRandom, session.DirectionHeadwordToTranslation, true,
	)
	assert.ErrorIs(t, err, session.ErrNoWordsAvailable)
}

func TestRecordStudy(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	word := f.addWord(t, "lernen", 30)
	now := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)

	updated, err := f.service.RecordStudy(
		context.Background(), f.userID, word.ID, domain.RecallMemorized, now,
	)
	require.NoError(t, err)

	// Proficiency moves halfway toward the memorized target of 90.
	assert.Equal(t, 60, updated.Proficiency)
	assert.Equal(t, 1, updated.StudyCount)
	require.NotNil(t, updated.LastReviewedAt)
	assert.Equal(t, now, *updated.LastReviewedAt)

	stored := f.words.words[word.ID]
	assert.Equal(t, 60, stored.Proficiency)
	assert.Equal(t, 1, stored.StudyCount)

	// The mastery write evicts the wordbook's cached listing.
	require.Len(t, f.invalidator.wordbooks, 1)
	assert.Equal(t, f.bookID, f.invalidator.wordbooks[0])
}

func TestRecordStudyUnknownPullsDown(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	word := f.addWord(t, "vergessen", 80)
	now := time.Now().UTC()

	updated, err := f.service.RecordStudy(
		context.Background(), f.userID, word.ID, domain.RecallUnknown, now,
	)
	require.NoError(t, err)
	assert.Equal(t, 40, updated.Proficiency)
}

func TestRecordStudyValidation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	word := f.addWord(t, "wort", 20)
	now := time.Now().UTC()
	ctx := context.Background()

	_, err := f.service.RecordStudy(ctx, f.userID, word.ID, domain.RecallResponse("bogus"), now)
	assert.ErrorIs(t, err, ErrInvalidResponse)

	_, err = f.service.RecordStudy(ctx, f.userID, uuid.New(), domain.RecallFamiliar, now)
	assert.ErrorIs(t, err, ErrWordNotFound)

	_, err = f.service.RecordStudy(ctx, uuid.New(), word.ID, domain.RecallFamiliar, now)
	assert.ErrorIs(t, err, ErrWordNotOwned)

	// Failed attempts leave the word untouched.
	assert.Equal(t, 20, f.words.words[word.ID].Proficiency)
	assert.Equal(t, 0, f.words.words[word.ID].StudyCount)
}
