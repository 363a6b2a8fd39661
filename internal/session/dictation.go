package session

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
)

// State is a dictation session's position in its lifecycle. All mutation
// goes through explicit transitions; an operation invoked in the wrong state
// returns ErrInvalidTransition.
type State string

// Session lifecycle states.
const (
	StateSetup          State = "setup"
	StateDrawing        State = "drawing"
	StatePresenting     State = "presenting"
	StateAwaitingAnswer State = "awaiting_answer"
	StateShowingResult  State = "showing_result"
	StateFinished       State = "finished"
	StateEmpty          State = "empty"
)

// Common errors
var (
	ErrInvalidTransition = errors.New("operation not allowed in current session state")
	ErrSessionExhausted  = errors.New("session queue is empty")
)

// Dictation is an answer-validated session over a FIFO queue of words.
//
// Each turn pops the head, presents a prompt, and compares the learner's
// free-text input against the expected answer (trimmed, case-folded). A
// correct answer retires the word; an incorrect one is appended to the back
// of the queue, so the learner re-encounters it before the session ends.
// Completed counts unique retired words while Attempts counts every answer,
// so progress-bar math is driven by UniqueTotal, never by attempt count.
type Dictation struct {
	state     State
	direction Direction

	queue []*domain.Word
	drawn []*domain.Word // Original drawn order, kept for Repeat

	uniqueTotal int
	completed   int
	attempts    int

	current     *domain.Word
	lastCorrect bool

	// usedIDs spans a session group: NextSet prefers words not drawn in any
	// earlier set of the group, resetting once the pool is exhausted.
	usedIDs map[uuid.UUID]struct{}
}

// NewDictation creates a session in the setup state.
func NewDictation(direction Direction) *Dictation {
	return &Dictation{
		state:     StateSetup,
		direction: direction,
		usedIDs:   make(map[uuid.UUID]struct{}),
	}
}

// State returns the session's current lifecycle state.
func (d *Dictation) State() State { return d.state }

// Direction returns the session's prompt direction.
func (d *Dictation) Direction() Direction { return d.direction }

// UniqueTotal returns the number of distinct words drawn at session start.
func (d *Dictation) UniqueTotal() int { return d.uniqueTotal }

// Completed returns the number of words answered correctly and retired.
func (d *Dictation) Completed() int { return d.completed }

// Attempts returns the total number of answers submitted, including retries.
func (d *Dictation) Attempts() int { return d.attempts }

// Remaining returns the number of queue entries still to answer, counting
// requeued words again.
func (d *Dictation) Remaining() int { return len(d.queue) }

// Begin starts the session over the given drawn set. Allowed from setup,
// finished, or empty. An empty set moves the session to the empty state.
func (d *Dictation) Begin(words []*domain.Word) error {
	if d.state != StateSetup && d.state != StateFinished && d.state != StateEmpty {
		return ErrInvalidTransition
	}

	d.state = StateDrawing

	if len(words) == 0 {
		d.state = StateEmpty
		return nil
	}

	d.drawn = make([]*domain.Word, len(words))
	copy(d.drawn, words)
	d.queue = make([]*domain.Word, len(words))
	copy(d.queue, words)

	d.uniqueTotal = len(words)
	d.completed = 0
	d.attempts = 0
	d.current = nil

	for _, w := range words {
		d.usedIDs[w.ID] = struct{}{}
	}

	d.state = StatePresenting
	return nil
}

// Present pops nothing: it exposes the head word's prompt and moves the
// session to awaiting-answer.
func (d *Dictation) Present() (string, error) {
	if d.state != StatePresenting {
		return "", ErrInvalidTransition
	}
	if len(d.queue) == 0 {
		return "", ErrSessionExhausted
	}

	d.current = d.queue[0]
	d.state = StateAwaitingAnswer
	return Prompt(d.current, d.direction), nil
}

// Current returns the word being asked. Valid while presenting, awaiting an
// answer, or showing a result.
func (d *Dictation) Current() (*domain.Word, error) {
	switch d.state {
	case StatePresenting:
		if len(d.queue) == 0 {
			return nil, ErrSessionExhausted
		}
		return d.queue[0], nil
	case StateAwaitingAnswer, StateShowingResult:
		return d.current, nil
	default:
		return nil, ErrInvalidTransition
	}
}

// Submit validates the learner's input against the expected answer. Input and
// expected answer are compared after trimming and case folding. A correct
// answer retires the word; an incorrect one requeues it at the back.
func (d *Dictation) Submit(input string) (bool, error) {
	if d.state != StateAwaitingAnswer {
		return false, ErrInvalidTransition
	}

	word := d.queue[0]
	d.queue = d.queue[1:]
	d.attempts++

	correct := answersMatch(input, Answer(word, d.direction))
	if correct {
		d.completed++
	} else {
		d.queue = append(d.queue, word)
	}

	d.current = word
	d.lastCorrect = correct
	d.state = StateShowingResult
	return correct, nil
}

// LastCorrect reports whether the most recent answer was correct. Only
// meaningful while showing a result.
func (d *Dictation) LastCorrect() bool { return d.lastCorrect }

// Advance moves past the shown result: to the next prompt, or to finished
// when the queue has emptied.
func (d *Dictation) Advance() error {
	if d.state != StateShowingResult {
		return ErrInvalidTransition
	}

	d.current = nil
	if len(d.queue) == 0 {
		d.state = StateFinished
		return nil
	}

	d.state = StatePresenting
	return nil
}

// Repeat replays the exact same drawn set from the start: same words, same
// order as originally drawn. Allowed only once the session has finished.
func (d *Dictation) Repeat() error {
	if d.state != StateFinished {
		return ErrInvalidTransition
	}

	d.state = StateSetup
	return d.Begin(d.drawn)
}

// NextSet draws a new batch via the composer, preferring words not yet used
// in this session group. Once every eligible word has been used the used-set
// resets and the full pool becomes eligible again.
func (d *Dictation) NextSet(
	composer *Composer,
	pool []*domain.Word,
	count int,
	mode Mode,
) error {
	if d.state != StateFinished && d.state != StateSetup && d.state != StateEmpty {
		return ErrInvalidTransition
	}

	unused := make([]*domain.Word, 0, len(pool))
	for _, w := range pool {
		if _, used := d.usedIDs[w.ID]; !used {
			unused = append(unused, w)
		}
	}

	candidates := unused
	if len(unused) == 0 {
		d.usedIDs = make(map[uuid.UUID]struct{})
		candidates = pool
	}

	words, err := composer.Draw(candidates, count, mode, d.direction)
	if errors.Is(err, ErrNoWordsAvailable) || errors.Is(err, ErrNoFilterMatches) {
		if len(unused) > 0 {
			// The unused remainder cannot satisfy the draw; fall back to the
			// full pool with a fresh used-set.
			d.usedIDs = make(map[uuid.UUID]struct{})
			words, err = composer.Draw(pool, count, mode, d.direction)
		}
	}
	if err != nil {
		return err
	}

	if d.state == StateFinished || d.state == StateEmpty {
		d.state = StateSetup
	}
	return d.Begin(words)
}

// answersMatch normalizes both sides (trim plus case fold) before comparing.
func answersMatch(input, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(input), strings.TrimSpace(expected))
}
