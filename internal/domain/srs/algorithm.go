package srs

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
)

// initialSchedule derives a cold-start schedule from a word's legacy
// proficiency score. It is a pure function of (proficiency, lastReviewedAt,
// now) and is computed exactly once per word: once a schedule exists it is
// only ever mutated by applyGrade.
//
// Band behavior:
//   - proficiency > 100 (imported/legacy over-scored items): stage 5,
//     interval = min(60, proficiency/2)
//   - otherwise the first matching band of params.ColdStartBands
//
// The due date is lastReviewedAt (or now, when the word was never reviewed)
// plus the derived interval, clamped up so it is never in the past.
func initialSchedule(
	word *domain.Word,
	userID uuid.UUID,
	now time.Time,
	params *Params,
) *domain.WordSchedule {
	stage := 0
	interval := params.MinIntervalDays

	if word.Proficiency > 100 {
		stage = params.OverscoreStage
		interval = word.Proficiency / 2
		if interval > params.OverscoreIntervalCap {
			interval = params.OverscoreIntervalCap
		}
	} else {
		for _, band := range params.ColdStartBands {
			if word.Proficiency >= band.Proficiency {
				stage = band.Stage
				interval = band.IntervalDays
				break
			}
		}
	}

	anchor := now
	if word.LastReviewedAt != nil {
		anchor = *word.LastReviewedAt
	}

	dueAt := anchor.AddDate(0, 0, interval)
	if dueAt.Before(now) {
		dueAt = now
	}

	streak := stage
	if streak < 1 {
		streak = 1
	}

	schedule := &domain.WordSchedule{
		WordID:       word.ID,
		UserID:       userID,
		Stage:        stage,
		IntervalDays: interval,
		DueAt:        dueAt,
		Streak:       streak,
		Lapses:       0,
		Ease:         params.DefaultEase,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	schedule.Clamp()

	return schedule
}

// applyGrade computes the next schedule after a graded review. It follows
// the immutable update pattern: the input schedule is never modified, a new
// value is returned.
//
// Transitions:
//   - fail: stage -2 (floor 0), interval reset to 1 day, streak reset,
//     lapses +1, ease -0.20
//   - hard: stage -1 (floor 0), interval shrunk by HardIntervalFactor
//     (ceiling), streak reset, ease -0.05
//   - good: stage +1, streak +1, interval scaled by ease
//   - easy: stage +2, streak +1, ease +0.05, interval scaled by the raised
//     ease times EasyBonus
//
// The interval is then clamped to [MinIntervalDays, MaxIntervalDays], ease to
// [MinEase, MaxEase], and the due date set to now plus the new interval.
func applyGrade(
	schedule *domain.WordSchedule,
	grade domain.ReviewGrade,
	now time.Time,
	params *Params,
) *domain.WordSchedule {
	next := *schedule

	switch grade {
	case domain.GradeFail:
		next.Stage = schedule.Stage - 2
		if next.Stage < 0 {
			next.Stage = 0
		}
		next.IntervalDays = params.MinIntervalDays
		next.Streak = 0
		next.Lapses = schedule.Lapses + 1
		next.Ease = schedule.Ease + params.EaseAdjustment[domain.GradeFail]

	case domain.GradeHard:
		next.Stage = schedule.Stage - 1
		if next.Stage < 0 {
			next.Stage = 0
		}
		next.IntervalDays = int(math.Ceil(float64(schedule.IntervalDays) * params.HardIntervalFactor))
		next.Streak = 0
		next.Ease = schedule.Ease + params.EaseAdjustment[domain.GradeHard]

	case domain.GradeGood:
		next.Stage = schedule.Stage + 1
		next.Streak = schedule.Streak + 1
		next.IntervalDays = int(math.Round(float64(schedule.IntervalDays) * schedule.Ease))

	case domain.GradeEasy:
		next.Stage = schedule.Stage + 2
		next.Streak = schedule.Streak + 1
		next.Ease = schedule.Ease + params.EaseAdjustment[domain.GradeEasy]
		if next.Ease > params.MaxEase {
			next.Ease = params.MaxEase
		}
		next.IntervalDays = int(math.Round(float64(schedule.IntervalDays) * next.Ease * params.EasyBonus))
	}

	if next.Ease < params.MinEase {
		next.Ease = params.MinEase
	}
	if next.Ease > params.MaxEase {
		next.Ease = params.MaxEase
	}

	if next.IntervalDays < params.MinIntervalDays {
		next.IntervalDays = params.MinIntervalDays
	}
	if next.IntervalDays > params.MaxIntervalDays {
		next.IntervalDays = params.MaxIntervalDays
	}

	next.DueAt = now.AddDate(0, 0, next.IntervalDays)
	next.UpdatedAt = now

	return &next
}

// nextProficiency applies the per-grade proficiency delta, floored at zero.
// This delta is deliberately smaller-grained than the interval update: it
// keeps the legacy 0-100 score roughly in step with scheduling progress.
func nextProficiency(current int, grade domain.ReviewGrade, params *Params) int {
	next := current + params.ProficiencyDelta[grade]
	if next < 0 {
		next = 0
	}
	return next
}

// Less orders two due schedules for presentation: the more overdue schedule
// first, ties broken by the higher lapse count. Words that failed more often
// surface earlier among equally-overdue items.
func Less(a, b *domain.WordSchedule) bool {
	if !a.DueAt.Equal(b.DueAt) {
		return a.DueAt.Before(b.DueAt)
	}
	return a.Lapses > b.Lapses
}
