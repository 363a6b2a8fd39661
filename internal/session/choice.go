package session

import (
	"errors"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
)

// choiceOptionCount is the target size of a multiple-choice option set:
// the correct word plus up to three distractors.
const choiceOptionCount = 4

// ErrNoCurrentRound is returned when an answer is submitted with no round
// outstanding.
var ErrNoCurrentRound = errors.New("no active choice round")

// ChoiceRound is one multiple-choice turn: the asked word and its shuffled
// option set.
type ChoiceRound struct {
	Word    *domain.Word
	Options []*domain.Word
}

// Choice is a multiple-select-choice session. Unlike dictation there is no
// requeue-on-failure: each word is presented exactly once per pass, and a
// pass can be replayed with regenerated option sets.
type Choice struct {
	composer  *Composer
	direction Direction

	words   []*domain.Word
	index   int
	correct int

	round *ChoiceRound
}

// NewChoice creates a choice session over an already-drawn set of words.
func NewChoice(composer *Composer, words []*domain.Word, direction Direction) *Choice {
	return &Choice{
		composer:  composer,
		direction: direction,
		words:     words,
	}
}

// Total returns the number of words in the session.
func (c *Choice) Total() int { return len(c.words) }

// Correct returns the number of rounds answered correctly this pass.
func (c *Choice) Correct() int { return c.correct }

// Finished reports whether every word of the pass has been presented.
func (c *Choice) Finished() bool { return c.index >= len(c.words) }

// Next builds the round for the next word: the correct word plus up to
// three distractors drawn uniformly at random from the rest of the session
// pool, shuffled before display. Returns false when the pass is complete.
func (c *Choice) Next() (*ChoiceRound, bool) {
	if c.Finished() {
		return nil, false
	}

	word := c.words[c.index]
	c.index++

	options := []*domain.Word{word}
	options = append(options, c.drawDistractors(word)...)
	c.composer.shuffle(options)

	c.round = &ChoiceRound{Word: word, Options: options}
	return c.round, true
}

// Answer resolves the outstanding round against the chosen option. The
// round is consumed whether or not the choice was right.
func (c *Choice) Answer(chosen *domain.Word) (bool, error) {
	if c.round == nil {
		return false, ErrNoCurrentRound
	}

	correct := chosen != nil && chosen.ID == c.round.Word.ID
	if correct {
		c.correct++
	}

	c.round = nil
	return correct, nil
}

// Repeat restarts the pass over the same words in the same order. Option
// sets are regenerated on each Next call, so distractors differ between
// passes.
func (c *Choice) Repeat() {
	c.index = 0
	c.correct = 0
	c.round = nil
}

// drawDistractors picks up to three other session words uniformly at random.
// A pool smaller than four words yields a correspondingly smaller option set.
func (c *Choice) drawDistractors(correct *domain.Word) []*domain.Word {
	others := make([]*domain.Word, 0, len(c.words)-1)
	for _, w := range c.words {
		if w.ID != correct.ID {
			others = append(others, w)
		}
	}

	c.composer.shuffle(others)
	if len(others) > choiceOptionCount-1 {
		others = others[:choiceOptionCount-1]
	}
	return others
}
