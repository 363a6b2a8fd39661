package domain

import (
	"errors"
	"math"
)

// RecallResponse is a learner's self-assessment in casual (non-scheduled)
// study modes such as flip-card review. It is distinct from ReviewGrade,
// which belongs to the formal scheduler.
type RecallResponse string

// Possible recall response values
const (
	RecallUnknown    RecallResponse = "unknown"
	RecallImpression RecallResponse = "impression"
	RecallFamiliar   RecallResponse = "familiar"
	RecallMemorized  RecallResponse = "memorized"
)

// ErrInvalidRecallResponse is returned when a recall response is not one of
// the four defined values.
var ErrInvalidRecallResponse = errors.New("invalid recall response")

// Proficiency band thresholds. The same banding is used everywhere: the
// descriptive bands below and the session composer's only-X filters.
// Familiar is the half-open range [50,90).
const (
	ImpressionThreshold = 25
	FamiliarThreshold   = 50
	MemorizedThreshold  = 90
)

// recallTargets maps each response to the proficiency score it pulls toward.
var recallTargets = map[RecallResponse]int{
	RecallUnknown:    0,
	RecallImpression: 25,
	RecallFamiliar:   50,
	RecallMemorized:  90,
}

// IsValid reports whether r is one of the four defined responses.
func (r RecallResponse) IsValid() bool {
	_, ok := recallTargets[r]
	return ok
}

// NextProficiency returns the proficiency score after a casual-mode answer.
// The result is the rounded average of the current score and the response's
// target score: a damped move toward the target, never a hard set. Pure and
// total over all integer inputs; unknown responses behave as RecallUnknown.
func NextProficiency(current int, response RecallResponse) int {
	target, ok := recallTargets[response]
	if !ok {
		target = 0
	}

	next := int(math.Round(float64(current+target) / 2))
	if next < 0 {
		next = 0
	}
	return next
}

// BandOf returns the descriptive band for a proficiency score.
func BandOf(proficiency int) RecallResponse {
	switch {
	case proficiency >= MemorizedThreshold:
		return RecallMemorized
	case proficiency >= FamiliarThreshold:
		return RecallFamiliar
	case proficiency >= ImpressionThreshold:
		return RecallImpression
	default:
		return RecallUnknown
	}
}
