// Package session implements study session composition: drawing and ordering
// a working set of words for one session, dictation-style sessions with
// requeue-on-failure, and multiple-choice rounds.
package session

import (
	"errors"
	"math/rand"
	"sort"
	"time"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
)

// Mode selects how the working set for a session is filtered and ordered.
type Mode string

// Possible draw modes. Random is the default and the fallback for
// unrecognized modes.
const (
	ModeRandom         Mode = "random"
	ModeOnlyUnknown    Mode = "only_unknown"
	ModeOnlyImpression Mode = "only_impression"
	ModeOnlyFamiliar   Mode = "only_familiar"
	ModeOnlyMemorized  Mode = "only_memorized"
	ModeOnlyFavorite   Mode = "only_favorite"
	ModeProficiencyAsc  Mode = "proficiency_asc"
	ModeProficiencyDesc Mode = "proficiency_desc"
	ModeFrequencyAsc    Mode = "frequency_asc"
	ModeFrequencyDesc   Mode = "frequency_desc"
	ModeCreatedAsc      Mode = "created_asc"
	ModeCreatedDesc     Mode = "created_desc"
	ModeReviewedAsc     Mode = "reviewed_asc"
	ModeReviewedDesc    Mode = "reviewed_desc"
)

// Direction selects which side of a word is the prompt.
type Direction string

// Possible prompt directions.
const (
	DirectionHeadwordToTranslation Direction = "headword_to_translation"
	DirectionTranslationToHeadword Direction = "translation_to_headword"
)

// Common errors
var (
	// ErrInvalidCount is returned when a draw is requested with a
	// non-positive sample size.
	ErrInvalidCount = errors.New("draw count must be at least 1")

	// ErrNoWordsAvailable is returned when the pool holds no words at all
	// that fit the prompt direction.
	ErrNoWordsAvailable = errors.New("no words available to draw")

	// ErrNoFilterMatches is returned when an only-X mode matched nothing
	// even though the pool is not empty. Distinct from ErrNoWordsAvailable
	// so the caller can offer to broaden the filter.
	ErrNoFilterMatches = errors.New("no words match the selected filter")
)

// Composer draws and orders working sets for study sessions.
type Composer struct {
	rng *rand.Rand
}

// NewComposer creates a composer using the given random source. A nil rng
// falls back to a time-seeded source; tests inject a fixed seed for
// reproducible shuffles.
func NewComposer(rng *rand.Rand) *Composer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Composer{rng: rng}
}

// Draw selects and orders up to count words from the pool for one session.
//
// Pipeline: direction filter, then the mode's band/favorite pre-filter (only-X
// modes), then ordering (only-X results and random mode are shuffled, the
// remaining modes sort), then truncation to count. A draw never pads: when
// fewer than count words are eligible, all of them are returned.
func (c *Composer) Draw(
	pool []*domain.Word,
	count int,
	mode Mode,
	direction Direction,
) ([]*domain.Word, error) {
	if count < 1 {
		return nil, ErrInvalidCount
	}

	eligible := filterByDirection(pool, direction)
	if len(eligible) == 0 {
		return nil, ErrNoWordsAvailable
	}

	var working []*domain.Word
	if filter, ok := bandFilters[mode]; ok {
		working = filterWords(eligible, filter)
		if len(working) == 0 {
			return nil, ErrNoFilterMatches
		}
		// Order within the eligible set is randomized even though the set
		// itself is filtered.
		c.shuffle(working)
	} else {
		working = make([]*domain.Word, len(eligible))
		copy(working, eligible)
		c.order(working, mode)
	}

	if len(working) > count {
		working = working[:count]
	}
	return working, nil
}

// bandFilters maps each only-X mode to its predicate. The proficiency bands
// reuse the domain thresholds so composer filters and mastery bands can
// never drift apart.
var bandFilters = map[Mode]func(*domain.Word) bool{
	ModeOnlyUnknown: func(w *domain.Word) bool {
		return w.Proficiency < domain.ImpressionThreshold
	},
	ModeOnlyImpression: func(w *domain.Word) bool {
		return w.Proficiency >= domain.ImpressionThreshold && w.Proficiency < domain.FamiliarThreshold
	},
	ModeOnlyFamiliar: func(w *domain.Word) bool {
		return w.Proficiency >= domain.FamiliarThreshold && w.Proficiency < domain.MemorizedThreshold
	},
	ModeOnlyMemorized: func(w *domain.Word) bool {
		return w.Proficiency >= domain.MemorizedThreshold
	},
	ModeOnlyFavorite: func(w *domain.Word) bool {
		return w.Favorite
	},
}

// filterByDirection keeps only words whose answer side is non-empty for the
// given prompt direction.
func filterByDirection(pool []*domain.Word, direction Direction) []*domain.Word {
	var predicate func(*domain.Word) bool
	if direction == DirectionTranslationToHeadword {
		predicate = func(w *domain.Word) bool { return w.Headword != "" }
	} else {
		predicate = func(w *domain.Word) bool { return w.Translation != "" }
	}
	return filterWords(pool, predicate)
}

func filterWords(pool []*domain.Word, keep func(*domain.Word) bool) []*domain.Word {
	var out []*domain.Word
	for _, w := range pool {
		if keep(w) {
			out = append(out, w)
		}
	}
	return out
}

// order applies the mode's sort to the working set; random and unrecognized
// modes shuffle.
func (c *Composer) order(words []*domain.Word, mode Mode) {
	switch mode {
	case ModeProficiencyAsc:
		sort.SliceStable(words, func(i, j int) bool { return words[i].Proficiency < words[j].Proficiency })
	case ModeProficiencyDesc:
		sort.SliceStable(words, func(i, j int) bool { return words[i].Proficiency > words[j].Proficiency })
	case ModeFrequencyAsc:
		sort.SliceStable(words, func(i, j int) bool { return words[i].FrequencyRank < words[j].FrequencyRank })
	case ModeFrequencyDesc:
		sort.SliceStable(words, func(i, j int) bool { return words[i].FrequencyRank > words[j].FrequencyRank })
	case ModeCreatedAsc:
		sort.SliceStable(words, func(i, j int) bool { return words[i].CreatedAt.Before(words[j].CreatedAt) })
	case ModeCreatedDesc:
		sort.SliceStable(words, func(i, j int) bool { return words[i].CreatedAt.After(words[j].CreatedAt) })
	case ModeReviewedAsc:
		sort.SliceStable(words, func(i, j int) bool {
			return lastReviewed(words[i]).Before(lastReviewed(words[j]))
		})
	case ModeReviewedDesc:
		sort.SliceStable(words, func(i, j int) bool {
			return lastReviewed(words[i]).After(lastReviewed(words[j]))
		})
	default:
		c.shuffle(words)
	}
}

// lastReviewed treats never-reviewed words as oldest.
func lastReviewed(w *domain.Word) time.Time {
	if w.LastReviewedAt == nil {
		return time.Time{}
	}
	return *w.LastReviewedAt
}

// shuffle performs an unbiased Fisher-Yates shuffle in place.
func (c *Composer) shuffle(words []*domain.Word) {
	c.rng.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
}

// Prompt returns the side of the word shown to the learner for the given
// direction.
func Prompt(w *domain.Word, direction Direction) string {
	if direction == DirectionTranslationToHeadword {
		return w.Translation
	}
	return w.Headword
}

// Answer returns the side of the word the learner must produce for the
// given direction.
func Answer(w *domain.Word, direction Direction) string {
	if direction == DirectionTranslationToHeadword {
		return w.Headword
	}
	return w.Translation
}
