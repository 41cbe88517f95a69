// Package scaffolding derives a learner's support tier from an assessment.
package scaffolding

import (
	"math"

	types "github.com/yungbote/solbot-backend/internal/domain"
)

const (
	LowSupportPercent    = 80.0
	MediumSupportPercent = 60.0
)

// Result is the derived level and the percentage it came from.
type Result struct {
	Level   int
	Percent float64
}

// Calculate maps score/maxScore onto a level. Scores above maxScore are not
// clamped. A maxScore that is zero, negative or not finite yields an
// invalid_rubric error together with the safe default, LevelHigh.
func Calculate(score, maxScore float64) (Result, error) {
	const op = "scaffolding.Calculate"
	if maxScore <= 0 || math.IsNaN(maxScore) || math.IsInf(maxScore, 0) {
		return Result{Level: types.ScaffoldingHigh}, types.NewError(types.CodeInvalidRubric, op, "rubric max score must be a positive number", nil)
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return Result{Level: types.ScaffoldingHigh}, types.Rejected(op, "score must be a finite number")
	}
	percent := 100 * score / maxScore
	return Result{Level: LevelFor(percent), Percent: percent}, nil
}

// LevelFor applies the thresholds exactly, first match wins.
func LevelFor(percent float64) int {
	switch {
	case percent >= LowSupportPercent:
		return types.ScaffoldingLow
	case percent >= MediumSupportPercent:
		return types.ScaffoldingMedium
	default:
		return types.ScaffoldingHigh
	}
}

// FromRubric is Calculate with an optional rubric; a missing rubric yields
// LevelHigh without error.
func FromRubric(score float64, rubric *types.Rubric) (Result, error) {
	if rubric == nil {
		return Result{Level: types.ScaffoldingHigh}, nil
	}
	return Calculate(score, rubric.MaxScore)
}
