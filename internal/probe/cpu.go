package probe

import (
	"context"
	"time"
)

// cpuSink keeps the benchmark loop's result observable so the multiplies are
// not eliminated.
var cpuSink float64

// CPUComputeProbe times a fixed-iteration floating-point workload. The
// workload size is deterministic, the timing is not: the number is meaningful
// only when compared across hosts.
type CPUComputeProbe struct {
	iterations int
}

func NewCPUComputeProbe(iterations int) *CPUComputeProbe {
	if iterations <= 0 {
		iterations = 10_000_000
	}
	return &CPUComputeProbe{iterations: iterations}
}

func (p *CPUComputeProbe) Key() string { return "cpu_benchmark" }

func (p *CPUComputeProbe) Run(ctx context.Context) (any, error) {
	start := time.Now()
	product := 0.0
	for i := 0; i < p.iterations; i++ {
		product = 3.14159 * 2.71828
	}
	elapsed := time.Since(start)
	cpuSink = product

	return map[string]any{
		"iterations":      p.iterations,
		"elapsed_seconds": round2(elapsed.Seconds()),
	}, nil
}
