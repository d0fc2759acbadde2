package evaluate

import (
	"strings"
	"testing"
)

func containsStatement(fb Feedback, fragment string) bool {
	for _, s := range fb.Statements {
		if strings.Contains(s, fragment) {
			return true
		}
	}
	return false
}

func TestEvaluateRealTimeIsExcellent(t *testing.T) {
	fb := Evaluate(10, 10, 1920, 1080)
	if fb.RealTimeRatio != 1.0 {
		t.Fatalf("expected ratio 1.0 got %v", fb.RealTimeRatio)
	}
	if !containsStatement(fb, "excellent") {
		t.Fatalf("expected excellent verdict, got %v", fb.Statements)
	}
	if !containsStatement(fb, "reasonable") {
		t.Fatalf("expected 1080p resolution verdict, got %v", fb.Statements)
	}
}

func TestEvaluateSlowAndResourceIntensiveAreIndependent(t *testing.T) {
	fb := Evaluate(10, 25, 3840, 2160)
	if fb.RealTimeRatio != 2.5 {
		t.Fatalf("expected ratio 2.5 got %v", fb.RealTimeRatio)
	}
	if !containsStatement(fb, "slow") {
		t.Fatalf("expected slow verdict, got %v", fb.Statements)
	}
	if !containsStatement(fb, "resource-intensive") {
		t.Fatalf("expected resource-intensive verdict, got %v", fb.Statements)
	}
}

func TestEvaluateThresholdBoundaries(t *testing.T) {
	cases := []struct {
		name     string
		duration float64
		elapsed  float64
		height   int
		speed    string
		res      string
	}{
		{"just over real time", 10, 10.1, 720, "good for CPU-based", "lightweight"},
		{"exactly double", 10, 20, 720, "good for CPU-based", "lightweight"},
		{"over double", 10, 20.1, 1080, "slow", "reasonable"},
		{"exactly 1080", 10, 5, 1080, "excellent", "reasonable"},
		{"over 1080", 10, 5, 1440, "excellent", "resource-intensive"},
		{"exactly 720", 10, 5, 720, "excellent", "lightweight"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fb := Evaluate(tc.duration, tc.elapsed, 1280, tc.height)
			if !containsStatement(fb, tc.speed) {
				t.Fatalf("expected speed verdict %q in %v", tc.speed, fb.Statements)
			}
			if !containsStatement(fb, tc.res) {
				t.Fatalf("expected resolution verdict %q in %v", tc.res, fb.Statements)
			}
		})
	}
}

func TestEvaluateIsPure(t *testing.T) {
	first := Evaluate(12.5, 20, 1920, 1080)
	second := Evaluate(12.5, 20, 1920, 1080)
	if first.RealTimeRatio != second.RealTimeRatio {
		t.Fatalf("expected identical ratios, got %v and %v", first.RealTimeRatio, second.RealTimeRatio)
	}
	if len(first.Statements) != len(second.Statements) {
		t.Fatalf("expected identical statements")
	}
	for i := range first.Statements {
		if first.Statements[i] != second.Statements[i] {
			t.Fatalf("statement %d differs: %q vs %q", i, first.Statements[i], second.Statements[i])
		}
	}
}
