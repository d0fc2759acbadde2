// Package evaluate turns raw transcode timings into qualitative feedback.
package evaluate

import (
	"fmt"
	"math"
)

// Feedback is the ordered human-readable verdict for one transcode run plus
// the derived real-time ratio (elapsed / media duration).
type Feedback struct {
	RealTimeRatio float64  `json:"real_time_ratio"`
	Statements    []string `json:"statements"`
}

// Evaluate classifies a transcode run on two independent axes: speed relative
// to real time and the source resolution's demand on the host. Both verdicts
// are always present. Pure function, no side effects.
func Evaluate(durationSeconds, elapsedSeconds float64, width, height int) Feedback {
	ratio := elapsedSeconds / durationSeconds

	statements := make([]string, 0, 3)
	statements = append(statements, fmt.Sprintf("transcoding completed in %.2f seconds (real-time ratio %.2fx)", elapsedSeconds, ratio))

	switch {
	case ratio <= 1.0:
		statements = append(statements, "excellent, faster than real time")
	case ratio <= 2.0:
		statements = append(statements, "good for CPU-based transcoding")
	default:
		statements = append(statements, "slow, consider hardware acceleration")
	}

	switch {
	case height > 1080:
		statements = append(statements, fmt.Sprintf("%dx%d source is resource-intensive, consider hardware upgrade", width, height))
	case height > 720:
		statements = append(statements, fmt.Sprintf("%dx%d source is reasonable, could benefit from GPU acceleration", width, height))
	default:
		statements = append(statements, fmt.Sprintf("%dx%d source is lightweight for most systems", width, height))
	}

	return Feedback{
		RealTimeRatio: math.Round(ratio*100) / 100,
		Statements:    statements,
	}
}
