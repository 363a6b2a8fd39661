package srs

import (
	"github.com/PengWorks1114/vocabularydb/internal/domain"
)

// Params defines all configurable parameters for the scheduling algorithm.
type Params struct {
	// Core limits
	MinEase         float64
	MaxEase         float64
	MinIntervalDays int
	MaxIntervalDays int

	// Ease adjustment per grade, applied before clamping
	EaseAdjustment map[domain.ReviewGrade]float64

	// Proficiency delta per grade, floored at zero on the word
	ProficiencyDelta map[domain.ReviewGrade]int

	// Multiplier applied on top of ease for an easy answer
	EasyBonus float64

	// Interval shrink factor for a hard answer
	HardIntervalFactor float64

	// Cold-start bands: a word whose proficiency is at least Proficiency
	// starts at the band's stage and interval. Checked in order, first
	// match wins.
	ColdStartBands []ColdStartBand

	// Legacy over-scored words (proficiency above 100) start at
	// OverscoreStage with interval min(OverscoreIntervalCap, proficiency/2).
	OverscoreIntervalCap int
	OverscoreStage       int

	DefaultEase float64
}

// ColdStartBand maps a proficiency floor to an initial stage and interval.
type ColdStartBand struct {
	Proficiency  int
	Stage        int
	IntervalDays int
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		MinEase:         domain.MinEase,
		MaxEase:         domain.MaxEase,
		MinIntervalDays: domain.MinIntervalDays,
		MaxIntervalDays: domain.MaxIntervalDays,

		EaseAdjustment: map[domain.ReviewGrade]float64{
			domain.GradeFail: -0.20,
			domain.GradeHard: -0.05,
			domain.GradeGood: 0.0,
			domain.GradeEasy: 0.05,
		},

		ProficiencyDelta: map[domain.ReviewGrade]int{
			domain.GradeFail: -20,
			domain.GradeHard: -5,
			domain.GradeGood: 6,
			domain.GradeEasy: 10,
		},

		EasyBonus:          1.15,
		HardIntervalFactor: 0.7,

		ColdStartBands: []ColdStartBand{
			{Proficiency: 90, Stage: 4, IntervalDays: 30},
			{Proficiency: 75, Stage: 3, IntervalDays: 14},
			{Proficiency: 50, Stage: 2, IntervalDays: 7},
			{Proficiency: 25, Stage: 1, IntervalDays: 3},
			{Proficiency: 0, Stage: 0, IntervalDays: 1},
		},

		OverscoreIntervalCap: 60,
		OverscoreStage:       5,

		DefaultEase: domain.DefaultEase,
	}
}
