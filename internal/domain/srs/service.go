package srs

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
)

// Common errors
var (
	ErrNilWord     = errors.New("word cannot be nil")
	ErrNilSchedule = errors.New("word schedule cannot be nil")
	ErrInvalidDays = errors.New("postpone days must be at least 1")
)

// Result pairs the schedule produced by a review with the proficiency score
// the same answer implies. Both must be persisted together by the caller.
type Result struct {
	Schedule    *domain.WordSchedule
	Proficiency int
}

// Service defines the interface for scheduling operations.
type Service interface {
	// InitialSchedule derives the one-time cold-start schedule for a word
	// that has no stored schedule yet.
	InitialSchedule(
		word *domain.Word,
		userID uuid.UUID,
		now time.Time,
	) (*domain.WordSchedule, error)

	// ApplyGrade computes new schedule state and proficiency from a graded
	// review answer. The inputs are not modified.
	ApplyGrade(
		word *domain.Word,
		schedule *domain.WordSchedule,
		grade domain.ReviewGrade,
		now time.Time,
	) (*Result, error)

	// Postpone pushes a schedule's due date forward by a number of days
	// without touching stage, interval, or ease.
	Postpone(
		schedule *domain.WordSchedule,
		days int,
		now time.Time,
	) (*domain.WordSchedule, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a scheduling service with default parameters.
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewServiceWithParams creates a scheduling service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{params: params}
}

// InitialSchedule implements the Service interface.
func (s *defaultService) InitialSchedule(
	word *domain.Word,
	userID uuid.UUID,
	now time.Time,
) (*domain.WordSchedule, error) {
	if word == nil {
		return nil, ErrNilWord
	}

	return initialSchedule(word, userID, now, s.params), nil
}

// ApplyGrade implements the Service interface.
func (s *defaultService) ApplyGrade(
	word *domain.Word,
	schedule *domain.WordSchedule,
	grade domain.ReviewGrade,
	now time.Time,
) (*Result, error) {
	if word == nil {
		return nil, ErrNilWord
	}

	if schedule == nil {
		return nil, ErrNilSchedule
	}

	if !grade.IsValid() {
		return nil, domain.ErrInvalidGrade
	}

	return &Result{
		Schedule:    applyGrade(schedule, grade, now, s.params),
		Proficiency: nextProficiency(word.Proficiency, grade, s.params),
	}, nil
}

// Postpone implements the Service interface.
func (s *defaultService) Postpone(
	schedule *domain.WordSchedule,
	days int,
	now time.Time,
) (*domain.WordSchedule, error) {
	if schedule == nil {
		return nil, ErrNilSchedule
	}

	if days < 1 {
		return nil, ErrInvalidDays
	}

	next := *schedule
	next.DueAt = schedule.DueAt.AddDate(0, 0, days)
	next.UpdatedAt = now

	return &next, nil
}

// SortDue orders schedules in place for presentation per the due-ordering
// rule: most overdue first, ties broken by higher lapse count.
func SortDue(schedules []*domain.WordSchedule) {
	sort.SliceStable(schedules, func(i, j int) bool {
		return Less(schedules[i], schedules[j])
	})
}
