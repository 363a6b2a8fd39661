package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReviewGrade is the discrete quality of a scheduled review answer.
type ReviewGrade int

// Possible review grade values
const (
	GradeFail ReviewGrade = 0
	GradeHard ReviewGrade = 1
	GradeGood ReviewGrade = 2
	GradeEasy ReviewGrade = 3
)

// Scheduling bounds. Intervals are clamped to [MinIntervalDays,
// MaxIntervalDays] and ease to [MinEase, MaxEase] wherever a schedule is
// produced or loaded, so a malformed persisted record self-heals on read.
const (
	MinIntervalDays = 1
	MaxIntervalDays = 180
	MinEase         = 2.3
	MaxEase         = 2.7
	DefaultEase     = 2.5
)

// Common validation errors for WordSchedule
var (
	ErrEmptyScheduleWordID = errors.New("schedule word ID cannot be empty")
	ErrEmptyScheduleUserID = errors.New("schedule user ID cannot be empty")
	ErrNegativeStage       = errors.New("stage cannot be negative")
	ErrNegativeStreak      = errors.New("streak cannot be negative")
	ErrNegativeLapses      = errors.New("lapses cannot be negative")
	ErrInvalidGrade        = errors.New("invalid review grade")
)

// IsValid reports whether g is one of the four defined grades.
func (g ReviewGrade) IsValid() bool {
	return g >= GradeFail && g <= GradeEasy
}

// String returns the wire name of the grade ("fail", "hard", "good", "easy").
func (g ReviewGrade) String() string {
	switch g {
	case GradeFail:
		return "fail"
	case GradeHard:
		return "hard"
	case GradeGood:
		return "good"
	case GradeEasy:
		return "easy"
	default:
		return "unknown"
	}
}

// ParseReviewGrade converts a wire name back to a ReviewGrade.
func ParseReviewGrade(s string) (ReviewGrade, error) {
	switch s {
	case "fail":
		return GradeFail, nil
	case "hard":
		return GradeHard, nil
	case "good":
		return GradeGood, nil
	case "easy":
		return GradeEasy, nil
	default:
		return 0, ErrInvalidGrade
	}
}

// WordSchedule is the spaced-repetition state of one word for one learner.
// It is created lazily the first time a word is scheduled and thereafter
// mutated only by applying review grades.
type WordSchedule struct {
	WordID       uuid.UUID `json:"word_id"`
	UserID       uuid.UUID `json:"user_id"`
	Stage        int       `json:"stage"`         // Learning depth, grows with successful recall
	IntervalDays int       `json:"interval_days"` // Days until next due, always within [1,180]
	DueAt        time.Time `json:"due_at"`        // When the word is next due for review
	Streak       int       `json:"streak"`        // Consecutive successful reviews
	Lapses       int       `json:"lapses"`        // Cumulative failed reviews
	Ease         float64   `json:"ease"`          // Interval growth multiplier, within [2.3,2.7]
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate checks if the WordSchedule has valid data.
func (s *WordSchedule) Validate() error {
	if s.WordID == uuid.Nil {
		return ErrEmptyScheduleWordID
	}

	if s.UserID == uuid.Nil {
		return ErrEmptyScheduleUserID
	}

	if s.Stage < 0 {
		return ErrNegativeStage
	}

	if s.Streak < 0 {
		return ErrNegativeStreak
	}

	if s.Lapses < 0 {
		return ErrNegativeLapses
	}

	return nil
}

// Clamp forces interval and ease back into their legal ranges. Called after
// every transition and on every load from storage.
func (s *WordSchedule) Clamp() {
	if s.IntervalDays < MinIntervalDays {
		s.IntervalDays = MinIntervalDays
	}
	if s.IntervalDays > MaxIntervalDays {
		s.IntervalDays = MaxIntervalDays
	}
	if s.Ease < MinEase {
		s.Ease = MinEase
	}
	if s.Ease > MaxEase {
		s.Ease = MaxEase
	}
}

// IsDue reports whether the schedule is due at the given instant.
func (s *WordSchedule) IsDue(now time.Time) bool {
	return !s.DueAt.After(now)
}
