package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestWordScheduleClamp(t *testing.T) {
	t.Parallel()

	// Malformed persisted state self-heals on load instead of failing.
	s := &WordSchedule{
		WordID:       uuid.New(),
		UserID:       uuid.New(),
		IntervalDays: 400,
		Ease:         9.9,
	}
	s.Clamp()
	if s.IntervalDays != MaxIntervalDays {
		t.Errorf("Expected interval %d, got %d", MaxIntervalDays, s.IntervalDays)
	}
	if s.Ease != MaxEase {
		t.Errorf("Expected ease %f, got %f", MaxEase, s.Ease)
	}

	s.IntervalDays = 0
	s.Ease = 1.0
	s.Clamp()
	if s.IntervalDays != MinIntervalDays {
		t.Errorf("Expected interval %d, got %d", MinIntervalDays, s.IntervalDays)
	}
	if s.Ease != MinEase {
		t.Errorf("Expected ease %f, got %f", MinEase, s.Ease)
	}
}

func TestWordScheduleIsDue(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	s := &WordSchedule{DueAt: now.Add(-time.Hour)}
	if !s.IsDue(now) {
		t.Error("Expected past due date to be due")
	}

	s.DueAt = now
	if !s.IsDue(now) {
		t.Error("Expected exact due date to be due")
	}

	s.DueAt = now.Add(time.Hour)
	if s.IsDue(now) {
		t.Error("Expected future due date to not be due")
	}
}

func TestParseReviewGrade(t *testing.T) {
	t.Parallel()

	for _, grade := range []ReviewGrade{GradeFail, GradeHard, GradeGood, GradeEasy} {
		parsed, err := ParseReviewGrade(grade.String())
		if err != nil {
			t.Fatalf("ParseReviewGrade(%q) failed: %v", grade.String(), err)
		}
		if parsed != grade {
			t.Errorf("Expected %d, got %d", grade, parsed)
		}
	}

	if _, err := ParseReviewGrade("brilliant"); !errors.Is(err, ErrInvalidGrade) {
		t.Errorf("Expected ErrInvalidGrade, got %v", err)
	}
	if ReviewGrade(4).IsValid() || ReviewGrade(-1).IsValid() {
		t.Error("Expected out-of-range grades to be invalid")
	}
}

func TestWordScheduleValidate(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	valid := &WordSchedule{
		WordID:       uuid.New(),
		UserID:       uuid.New(),
		Stage:        1,
		IntervalDays: 3,
		DueAt:        now,
		Streak:       1,
		Ease:         DefaultEase,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Expected valid schedule, got %v", err)
	}

	missing := *valid
	missing.WordID = uuid.Nil
	if err := missing.Validate(); !errors.Is(err, ErrEmptyScheduleWordID) {
		t.Errorf("Expected ErrEmptyScheduleWordID, got %v", err)
	}

	negative := *valid
	negative.Lapses = -1
	if err := negative.Validate(); !errors.Is(err, ErrNegativeLapses) {
		t.Errorf("Expected ErrNegativeLapses, got %v", err)
	}
}
