// Package hostinfo implements the host inspector over gopsutil.
package hostinfo

import (
	"context"
	"fmt"
	"math"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/mediabenchhq/harness/pkg/types"
)

// Inspector gathers static system facts from the running host.
type Inspector struct{}

func New() *Inspector {
	return &Inspector{}
}

func (i *Inspector) Inspect(ctx context.Context) (types.HostFacts, error) {
	var facts types.HostFacts

	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return facts, fmt.Errorf("read host info: %w", err)
	}
	facts.OS = info.OS
	facts.Platform = info.Platform
	facts.PlatformVersion = info.PlatformVersion
	facts.KernelVersion = info.KernelVersion

	physical, err := cpu.CountsWithContext(ctx, false)
	if err != nil {
		return facts, fmt.Errorf("count physical cores: %w", err)
	}
	facts.PhysicalCores = physical

	logical, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return facts, fmt.Errorf("count logical cpus: %w", err)
	}
	facts.LogicalCPUs = logical

	cpus, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return facts, fmt.Errorf("read cpu info: %w", err)
	}
	if len(cpus) > 0 {
		facts.Processor = cpus[0].ModelName
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return facts, fmt.Errorf("read virtual memory: %w", err)
	}
	facts.MemoryGB = math.Round(float64(vm.Total)/(1<<30)*100) / 100

	return facts, nil
}
