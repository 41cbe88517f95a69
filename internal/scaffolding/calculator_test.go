package scaffolding

import (
	"math"
	"testing"

	types "github.com/yungbote/solbot-backend/internal/domain"
)

func TestCalculateBoundaries(t *testing.T) {
	const eps = 1e-6
	cases := []struct {
		name     string
		score    float64
		maxScore float64
		want     int
	}{
		{"full marks", 10, 10, 3},
		{"exactly 80%", 8, 10, 3},
		{"80% of odd max", 5.6, 7, 3},
		{"just under 80%", 0.8*10 - eps, 10, 2},
		{"a hair under 80%", 8 - 1e-11, 10, 2},
		{"exactly 60%", 6, 10, 2},
		{"60% of odd max", 1.8, 3, 2},
		{"just under 60%", 0.6*10 - eps, 10, 1},
		{"a hair under 60%", 6 - 1e-11, 10, 1},
		{"zero", 0, 10, 1},
		{"nine of ten", 9, 10, 3},
		{"over max is not clamped", 15, 10, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Calculate(tc.score, tc.maxScore)
			if err != nil {
				t.Fatalf("Calculate: %v", err)
			}
			if got.Level != tc.want {
				t.Fatalf("level: got=%d want=%d (percent=%v)", got.Level, tc.want, got.Percent)
			}
			if want := 100 * tc.score / tc.maxScore; got.Percent != want {
				t.Fatalf("percent: got=%v want=%v", got.Percent, want)
			}
		})
	}
}

func TestCalculateInvalidRubric(t *testing.T) {
	for _, maxScore := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		got, err := Calculate(5, maxScore)
		if !types.IsCode(err, types.CodeInvalidRubric) {
			t.Fatalf("maxScore=%v: expected invalid_rubric, got %v", maxScore, err)
		}
		if got.Level != types.ScaffoldingHigh {
			t.Fatalf("maxScore=%v: expected safe default level 1, got %d", maxScore, got.Level)
		}
	}
}

func TestCalculateRejectsNonFiniteScore(t *testing.T) {
	if _, err := Calculate(math.NaN(), 10); !types.IsCode(err, types.CodeValidationRejected) {
		t.Fatalf("expected validation_rejected, got %v", err)
	}
}

func TestFromRubric(t *testing.T) {
	got, err := FromRubric(9, nil)
	if err != nil || got.Level != types.ScaffoldingHigh {
		t.Fatalf("missing rubric: %+v %v", got, err)
	}
	got, err = FromRubric(9, &types.Rubric{ID: "r1", MaxScore: 10})
	if err != nil || got.Level != types.ScaffoldingLow {
		t.Fatalf("rubric r1: %+v %v", got, err)
	}
}
