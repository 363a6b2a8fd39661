package srs

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
)

func TestServiceApplyGrade(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Now().UTC()

	word := testWord(50, nil)
	schedule := testSchedule(2, 7, 2, 0, 2.5, now)

	result, err := svc.ApplyGrade(word, schedule, domain.GradeGood, now)
	if err != nil {
		t.Fatalf("ApplyGrade failed: %v", err)
	}

	if result.Schedule == schedule {
		t.Error("Expected a new schedule object")
	}
	if result.Proficiency != 56 {
		t.Errorf("Expected proficiency 56, got %d", result.Proficiency)
	}
	if word.Proficiency != 50 {
		t.Error("ApplyGrade must not mutate the input word")
	}
	if schedule.Stage != 2 || schedule.IntervalDays != 7 {
		t.Error("ApplyGrade must not mutate the input schedule")
	}
}

func TestServiceApplyGradeValidation(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Now().UTC()
	word := testWord(50, nil)
	schedule := testSchedule(2, 7, 2, 0, 2.5, now)

	if _, err := svc.ApplyGrade(nil, schedule, domain.GradeGood, now); !errors.Is(err, ErrNilWord) {
		t.Errorf("Expected ErrNilWord, got %v", err)
	}

	if _, err := svc.ApplyGrade(word, nil, domain.GradeGood, now); !errors.Is(err, ErrNilSchedule) {
		t.Errorf("Expected ErrNilSchedule, got %v", err)
	}

	if _, err := svc.ApplyGrade(word, schedule, domain.ReviewGrade(9), now); !errors.Is(err, domain.ErrInvalidGrade) {
		t.Errorf("Expected ErrInvalidGrade, got %v", err)
	}
}

func TestServiceInitialSchedule(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Now().UTC()
	userID := uuid.New()

	schedule, err := svc.InitialSchedule(testWord(95, nil), userID, now)
	if err != nil {
		t.Fatalf("InitialSchedule failed: %v", err)
	}
	if schedule.Stage != 4 || schedule.IntervalDays != 30 {
		t.Errorf("Expected stage 4 interval 30, got %d/%d", schedule.Stage, schedule.IntervalDays)
	}
	if schedule.UserID != userID {
		t.Error("Expected schedule to carry the owning user ID")
	}

	if _, err := svc.InitialSchedule(nil, userID, now); !errors.Is(err, ErrNilWord) {
		t.Errorf("Expected ErrNilWord, got %v", err)
	}
}

func TestServicePostpone(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Now().UTC()
	schedule := testSchedule(2, 7, 2, 0, 2.5, now)
	schedule.DueAt = now.AddDate(0, 0, 3)

	postponed, err := svc.Postpone(schedule, 4, now)
	if err != nil {
		t.Fatalf("Postpone failed: %v", err)
	}

	expected := now.AddDate(0, 0, 7)
	if !postponed.DueAt.Equal(expected) {
		t.Errorf("Expected due date %v, got %v", expected, postponed.DueAt)
	}
	if postponed.Stage != schedule.Stage ||
		postponed.IntervalDays != schedule.IntervalDays ||
		postponed.Ease != schedule.Ease {
		t.Error("Postpone must not touch stage, interval, or ease")
	}

	if _, err := svc.Postpone(schedule, 0, now); !errors.Is(err, ErrInvalidDays) {
		t.Errorf("Expected ErrInvalidDays, got %v", err)
	}
	if _, err := svc.Postpone(nil, 1, now); !errors.Is(err, ErrNilSchedule) {
		t.Errorf("Expected ErrNilSchedule, got %v", err)
	}
}
