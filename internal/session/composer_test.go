package session

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
)

func newTestComposer(seed int64) *Composer {
	return NewComposer(rand.New(rand.NewSource(seed)))
}

func makeWord(headword, translation string, proficiency int) *domain.Word {
	now := time.Now().UTC()
	return &domain.Word{
		ID:          uuid.New(),
		WordbookID:  uuid.New(),
		Headword:    headword,
		Translation: translation,
		Proficiency: proficiency,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestDrawTruncatesToCount(t *testing.T) {
	t.Parallel()
	composer := newTestComposer(1)

	pool := []*domain.Word{
		makeWord("eins", "one", 10),
		makeWord("zwei", "two", 30),
		makeWord("drei", "three", 60),
		makeWord("vier", "four", 95),
		makeWord("fünf", "five", 50),
	}

	drawn, err := composer.Draw(pool, 3, ModeRandom, DirectionHeadwordToTranslation)
	require.NoError(t, err)
	assert.Len(t, drawn, 3)
}

func TestDrawNeverPads(t *testing.T) {
	t.Parallel()
	composer := newTestComposer(1)

	// Requesting five from three eligible words returns exactly three.
	pool := []*domain.Word{
		makeWord("eins", "one", 10),
		makeWord("zwei", "two", 12),
		makeWord("drei", "three", 20),
	}

	drawn, err := composer.Draw(pool, 5, ModeOnlyUnknown, DirectionHeadwordToTranslation)
	require.NoError(t, err)
	assert.Len(t, drawn, 3)
}

func TestDrawDirectionFilter(t *testing.T) {
	t.Parallel()
	composer := newTestComposer(1)

	missingTranslation := makeWord("eins", "", 10)
	complete := makeWord("zwei", "two", 10)
	pool := []*domain.Word{missingTranslation, complete}

	// Prompting with the headword requires a non-empty translation to check
	// the answer against.
	drawn, err := composer.Draw(pool, 10, ModeRandom, DirectionHeadwordToTranslation)
	require.NoError(t, err)
	require.Len(t, drawn, 1)
	assert.Equal(t, complete.ID, drawn[0].ID)

	// The reverse direction only needs the headword, so both qualify.
	drawn, err = composer.Draw(pool, 10, ModeRandom, DirectionTranslationToHeadword)
	require.NoError(t, err)
	assert.Len(t, drawn, 2)
}

func TestDrawBandFilters(t *testing.T) {
	t.Parallel()
	composer := newTestComposer(1)

	unknown := makeWord("a", "a", 10)
	impression := makeWord("b", "b", 30)
	familiarLow := makeWord("c", "c", 50)
	familiarHigh := makeWord("d", "d", 89)
	memorized := makeWord("e", "e", 90)
	pool := []*domain.Word{unknown, impression, familiarLow, familiarHigh, memorized}

	testCases := []struct {
		mode     Mode
		expected []*domain.Word
	}{
		{ModeOnlyUnknown, []*domain.Word{unknown}},
		{ModeOnlyImpression, []*domain.Word{impression}},
		{ModeOnlyFamiliar, []*domain.Word{familiarLow, familiarHigh}},
		{ModeOnlyMemorized, []*domain.Word{memorized}},
	}

	for _, tc := range testCases {
		t.Run(string(tc.mode), func(t *testing.T) {
			drawn, err := composer.Draw(pool, 10, tc.mode, DirectionHeadwordToTranslation)
			require.NoError(t, err)

			require.Len(t, drawn, len(tc.expected))
			ids := make(map[uuid.UUID]bool)
			for _, w := range drawn {
				ids[w.ID] = true
			}
			for _, w := range tc.expected {
				assert.True(t, ids[w.ID], "expected %s in draw", w.Headword)
			}
		})
	}
}

func TestDrawOnlyFavorite(t *testing.T) {
	t.Parallel()
	composer := newTestComposer(1)

	favorite := makeWord("a", "a", 10)
	favorite.Favorite = true
	pool := []*domain.Word{favorite, makeWord("b", "b", 10)}

	drawn, err := composer.Draw(pool, 10, ModeOnlyFavorite, DirectionHeadwordToTranslation)
	require.NoError(t, err)
	require.Len(t, drawn, 1)
	assert.Equal(t, favorite.ID, drawn[0].ID)
}

func TestDrawEmptyOutcomes(t *testing.T) {
	t.Parallel()
	composer := newTestComposer(1)

	// Zero available at all.
	_, err := composer.Draw(nil, 5, ModeRandom, DirectionHeadwordToTranslation)
	assert.ErrorIs(t, err, ErrNoWordsAvailable)

	// Pool exists but the filter matched nothing: a distinct outcome, so
	// the caller can offer to broaden the filter instead of silently
	// falling back.
	pool := []*domain.Word{makeWord("a", "a", 10)}
	_, err = composer.Draw(pool, 5, ModeOnlyMemorized, DirectionHeadwordToTranslation)
	assert.ErrorIs(t, err, ErrNoFilterMatches)

	_, err = composer.Draw(pool, 0, ModeRandom, DirectionHeadwordToTranslation)
	assert.ErrorIs(t, err, ErrInvalidCount)
}

func TestDrawOrderingModes(t *testing.T) {
	t.Parallel()
	composer := newTestComposer(1)

	now := time.Now().UTC()
	older := makeWord("old", "old", 80)
	older.CreatedAt = now.Add(-2 * time.Hour)
	older.FrequencyRank = 200
	newer := makeWord("new", "new", 20)
	newer.CreatedAt = now.Add(-1 * time.Hour)
	newer.FrequencyRank = 100
	pool := []*domain.Word{older, newer}

	testCases := []struct {
		mode  Mode
		first *domain.Word
	}{
		{ModeProficiencyAsc, newer},
		{ModeProficiencyDesc, older},
		{ModeFrequencyAsc, newer},
		{ModeFrequencyDesc, older},
		{ModeCreatedAsc, older},
		{ModeCreatedDesc, newer},
	}

	for _, tc := range testCases {
		t.Run(string(tc.mode), func(t *testing.T) {
			drawn, err := composer.Draw(pool, 2, tc.mode, DirectionHeadwordToTranslation)
			require.NoError(t, err)
			require.Len(t, drawn, 2)
			assert.Equal(t, tc.first.ID, drawn[0].ID)
		})
	}
}

func TestDrawReviewedOrdering(t *testing.T) {
	t.Parallel()
	composer := newTestComposer(1)

	now := time.Now().UTC()
	recent := makeWord("recent", "recent", 50)
	recentAt := now.Add(-time.Hour)
	recent.LastReviewedAt = &recentAt
	never := makeWord("never", "never", 50)
	pool := []*domain.Word{recent, never}

	// Never-reviewed words sort as oldest.
	drawn, err := composer.Draw(pool, 2, ModeReviewedAsc, DirectionHeadwordToTranslation)
	require.NoError(t, err)
	assert.Equal(t, never.ID, drawn[0].ID)

	drawn, err = composer.Draw(pool, 2, ModeReviewedDesc, DirectionHeadwordToTranslation)
	require.NoError(t, err)
	assert.Equal(t, recent.ID, drawn[0].ID)
}

func TestDrawShuffleIsSeedDeterministic(t *testing.T) {
	t.Parallel()

	pool := make([]*domain.Word, 0, 20)
	for i := 0; i < 20; i++ {
		pool = append(pool, makeWord("w", "w", i))
	}

	first, err := newTestComposer(42).Draw(pool, 20, ModeRandom, DirectionHeadwordToTranslation)
	require.NoError(t, err)
	second, err := newTestComposer(42).Draw(pool, 20, ModeRandom, DirectionHeadwordToTranslation)
	require.NoError(t, err)

	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestDrawDoesNotMutatePool(t *testing.T) {
	t.Parallel()
	composer := newTestComposer(7)

	pool := []*domain.Word{
		makeWord("a", "a", 1),
		makeWord("b", "b", 2),
		makeWord("c", "c", 3),
	}
	original := make([]*domain.Word, len(pool))
	copy(original, pool)

	_, err := composer.Draw(pool, 3, ModeProficiencyDesc, DirectionHeadwordToTranslation)
	require.NoError(t, err)

	for i := range pool {
		assert.Equal(t, original[i], pool[i], "pool order must not change")
	}
}
