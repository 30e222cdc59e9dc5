//nolint:testpackage // Testing internal classifier requires same package access
package classifier

import (
	"math"
	"testing"

	"github.com/jonesrussell/mail-triage/internal/config"
)

const (
	testSaturationFactor = 2.0
	testZeroSignalFloor  = 0.25
	confidenceTolerance  = 1e-9
)

func testUrgencyAxis() *config.AxisConfig {
	return &config.AxisConfig{
		PatternCoefficient: 1.0,
		Bands: []config.Band{
			{Label: "critical", Threshold: 4.0, MinConfidence: 0.85, MaxConfidence: 0.95},
			{Label: "high", Threshold: 2.0, MinConfidence: 0.70, MaxConfidence: 0.85},
			{Label: "medium", Threshold: 1.0, MinConfidence: 0.55, MaxConfidence: 0.70},
			{Label: "low", Threshold: 0.5, MinConfidence: 0.30, MaxConfidence: 0.55},
		},
	}
}

func TestResolve_WinnerAndConfidence(t *testing.T) {
	axis := testUrgencyAxis()

	testCases := []struct {
		name           string
		scores         ScoreVector
		wantLabel      string
		wantConfidence float64
	}{
		{
			name:           "at band threshold gets band minimum",
			scores:         ScoreVector{"high": 2.0},
			wantLabel:      "high",
			wantConfidence: 0.70,
		},
		{
			name:           "halfway to next threshold interpolates",
			scores:         ScoreVector{"high": 3.0},
			wantLabel:      "high",
			wantConfidence: 0.775,
		},
		{
			name:           "at next threshold gets band maximum",
			scores:         ScoreVector{"high": 4.0},
			wantLabel:      "high",
			wantConfidence: 0.85,
		},
		{
			name:           "far past saturation stays at band maximum",
			scores:         ScoreVector{"high": 40.0},
			wantLabel:      "high",
			wantConfidence: 0.85,
		},
		{
			name:           "top band saturates at threshold times factor",
			scores:         ScoreVector{"critical": 8.0},
			wantLabel:      "critical",
			wantConfidence: 0.95,
		},
		{
			name:           "top band midpoint",
			scores:         ScoreVector{"critical": 6.0},
			wantLabel:      "critical",
			wantConfidence: 0.90,
		},
		{
			name:           "sub-threshold ramps from floor to band minimum",
			scores:         ScoreVector{"high": 1.0},
			wantLabel:      "high",
			wantConfidence: 0.475,
		},
		{
			name:           "argmax wins over band order",
			scores:         ScoreVector{"medium": 5.0, "high": 1.0},
			wantLabel:      "medium",
			wantConfidence: 0.70,
		},
		{
			name:           "tie goes to higher priority band",
			scores:         ScoreVector{"critical": 2.0, "high": 2.0},
			wantLabel:      "critical",
			wantConfidence: 0.55,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := resolve(axis, tc.scores, testSaturationFactor, testZeroSignalFloor)
			if got.Label != tc.wantLabel {
				t.Errorf("expected label %s, got %s", tc.wantLabel, got.Label)
			}
			if math.Abs(got.Confidence-tc.wantConfidence) > confidenceTolerance {
				t.Errorf("expected confidence %v, got %v", tc.wantConfidence, got.Confidence)
			}
			if got.ZeroSignal {
				t.Error("expected ZeroSignal false for a scored vector")
			}
		})
	}
}

func TestResolve_CarriesWinningScore(t *testing.T) {
	axis := testUrgencyAxis()

	got := resolve(axis, ScoreVector{"high": 3.5, "medium": 1.0}, testSaturationFactor, testZeroSignalFloor)
	if got.Score != 3.5 {
		t.Errorf("expected winning score 3.5, got %v", got.Score)
	}
}

func TestResolve_ZeroSignal(t *testing.T) {
	axis := testUrgencyAxis()

	for _, scores := range []ScoreVector{{}, {"high": 0, "low": 0}} {
		got := resolve(axis, scores, testSaturationFactor, testZeroSignalFloor)
		if !got.ZeroSignal {
			t.Error("expected ZeroSignal true for all-zero vector")
		}
		if got.Label != "low" {
			t.Errorf("expected lowest band label low, got %s", got.Label)
		}
		if got.Confidence != testZeroSignalFloor {
			t.Errorf("expected floor confidence %v, got %v", testZeroSignalFloor, got.Confidence)
		}
	}
}

// Confidence must never decrease as the winning score grows, including
// across the sub-threshold ramp, the in-band ramp, and saturation.
func TestResolve_ConfidenceMonotoneInScore(t *testing.T) {
	axis := testUrgencyAxis()

	for _, label := range []string{"critical", "high", "medium", "low"} {
		prev := -1.0
		for s := 0.05; s <= 12.0; s += 0.05 {
			r := resolve(axis, ScoreVector{label: s}, testSaturationFactor, testZeroSignalFloor)
			if r.Label != label {
				t.Fatalf("winner flipped to %s at score %v for %s", r.Label, s, label)
			}
			if r.Confidence < prev-confidenceTolerance {
				t.Fatalf("%s confidence decreased at score %v: %v -> %v", label, s, prev, r.Confidence)
			}
			prev = r.Confidence
		}
	}
}

func TestClamp01(t *testing.T) {
	testCases := []struct {
		in   float64
		want float64
	}{
		{in: -0.5, want: 0},
		{in: 0, want: 0},
		{in: 0.42, want: 0.42},
		{in: 1, want: 1},
		{in: 1.3, want: 1},
	}

	for _, tc := range testCases {
		if got := clamp01(tc.in); got != tc.want {
			t.Errorf("clamp01(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
