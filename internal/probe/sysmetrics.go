package probe

import (
	"context"
	"fmt"

	"github.com/mediabenchhq/harness/pkg/types"
)

// MetricsSampler observes host utilisation over a fixed window.
type MetricsSampler interface {
	Sample(ctx context.Context) ([]types.MetricsSample, error)
}

// SystemMetricsProbe records cpu, memory, and disk utilisation sampled over
// the sampler's configured window.
type SystemMetricsProbe struct {
	sampler MetricsSampler
}

func NewSystemMetricsProbe(sampler MetricsSampler) *SystemMetricsProbe {
	return &SystemMetricsProbe{sampler: sampler}
}

func (p *SystemMetricsProbe) Key() string { return "system_metrics" }

func (p *SystemMetricsProbe) Run(ctx context.Context) (any, error) {
	samples, err := p.sampler.Sample(ctx)
	if err != nil {
		return nil, fmt.Errorf("sample system metrics: %w", err)
	}
	return map[string]any{
		"samples": samples,
	}, nil
}
