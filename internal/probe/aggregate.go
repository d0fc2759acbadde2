package probe

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mediabenchhq/harness/internal/metrics"
	"github.com/mediabenchhq/harness/pkg/types"
)

// Dependencies provides optional collaborators for the aggregator.
type Dependencies struct {
	Logger  *logrus.Logger
	Metrics *metrics.Store
	// Timeout bounds each individual probe run. Zero disables the deadline.
	Timeout time.Duration
	Now     func() time.Time
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Logger == nil {
		d.Logger = logrus.New()
		d.Logger.SetOutput(io.Discard)
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// Aggregate runs every probe in sequence order and composes the ordered
// report. A probe failure, panic, or expired deadline becomes a failure entry
// for that probe's key; subsequent probes always still run. The report holds
// exactly one entry per probe.
func Aggregate(ctx context.Context, probes []Probe, deps Dependencies) types.Report {
	deps = deps.withDefaults()

	var report types.Report
	for _, p := range probes {
		start := deps.Now()
		value, err := runOne(ctx, p, deps.Timeout)
		elapsed := deps.Now().Sub(start)
		if err != nil {
			deps.Logger.WithField("probe", p.Key()).Warnf("probe failed after %s: %v", elapsed.Round(time.Millisecond), err)
			deps.Metrics.RecordProbeFailure()
			report.Add(types.Fail(p.Key(), err.Error()))
			continue
		}
		deps.Logger.WithField("probe", p.Key()).Infof("probe completed in %s", elapsed.Round(time.Millisecond))
		report.Add(types.OK(p.Key(), value))
	}
	return report
}

func runOne(ctx context.Context, p Probe, timeout time.Duration) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("probe panicked: %v", r)
		}
	}()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return p.Run(ctx)
}

// Runner binds a configured probe battery to its aggregation dependencies and
// produces report envelopes on demand.
type Runner struct {
	probes []Probe
	deps   Dependencies
}

// NewRunner builds a Runner over an ordered probe battery.
func NewRunner(probes []Probe, deps Dependencies) *Runner {
	return &Runner{probes: probes, deps: deps.withDefaults()}
}

// Generate runs the full battery and wraps the report with a fresh run ID.
func (r *Runner) Generate(ctx context.Context) types.ReportEnvelope {
	return types.ReportEnvelope{
		RunID:       uuid.NewString(),
		GeneratedAt: r.deps.Now().UTC(),
		Report:      Aggregate(ctx, r.probes, r.deps),
	}
}
