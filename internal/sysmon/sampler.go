// Package sysmon samples host utilisation over a fixed observation window.
package sysmon

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/mediabenchhq/harness/pkg/types"
)

// Sampler collects cpu, memory, and disk utilisation readings at a fixed
// interval until the window elapses.
type Sampler struct {
	window   time.Duration
	interval time.Duration
	diskPath string
}

func New(window, interval time.Duration, diskPath string) *Sampler {
	if window <= 0 {
		window = 5 * time.Second
	}
	if interval <= 0 {
		interval = time.Second
	}
	if diskPath == "" {
		diskPath = "/"
	}
	return &Sampler{window: window, interval: interval, diskPath: diskPath}
}

func (s *Sampler) Sample(ctx context.Context) ([]types.MetricsSample, error) {
	samples := make([]types.MetricsSample, 0, int(s.window/s.interval)+1)
	deadline := time.Now().Add(s.window)

	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return samples, err
		}

		// PercentWithContext blocks for the interval, so it doubles as the
		// sampling cadence.
		cpuPercents, err := cpu.PercentWithContext(ctx, s.interval, false)
		if err != nil {
			return samples, fmt.Errorf("sample cpu: %w", err)
		}
		vm, err := mem.VirtualMemoryWithContext(ctx)
		if err != nil {
			return samples, fmt.Errorf("sample memory: %w", err)
		}
		usage, err := disk.UsageWithContext(ctx, s.diskPath)
		if err != nil {
			return samples, fmt.Errorf("sample disk %s: %w", s.diskPath, err)
		}

		sample := types.MetricsSample{
			Timestamp:     time.Now().UTC(),
			MemoryPercent: vm.UsedPercent,
			DiskPercent:   usage.UsedPercent,
		}
		if len(cpuPercents) > 0 {
			sample.CPUPercent = cpuPercents[0]
		}
		samples = append(samples, sample)
	}

	return samples, nil
}
