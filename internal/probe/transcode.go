package probe

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/mediabenchhq/harness/internal/evaluate"
	"github.com/mediabenchhq/harness/pkg/types"
)

// MediaProber is the opaque tool that extracts duration, resolution, codec,
// and bitrate from a media file.
type MediaProber interface {
	Inspect(ctx context.Context, path string) (types.MediaDetails, error)
}

// Transcoder is the opaque tool that converts the input file to the target
// scale, producing the output file.
type Transcoder interface {
	Transcode(ctx context.Context, input, output string, width, height int) error
}

// TranscodeProbe times a real transcode of the sample media file and attaches
// qualitative feedback. The produced output file never outlives the probe.
type TranscodeProbe struct {
	prober     MediaProber
	transcoder Transcoder
	input      string
	outputDir  string
	width      int
	height     int
}

type TranscodeOption func(*TranscodeProbe)

// WithOutputDir overrides where the transient output file is written.
func WithOutputDir(dir string) TranscodeOption {
	return func(p *TranscodeProbe) {
		if dir != "" {
			p.outputDir = dir
		}
	}
}

// WithTargetScale overrides the target resolution.
func WithTargetScale(width, height int) TranscodeOption {
	return func(p *TranscodeProbe) {
		if width > 0 && height > 0 {
			p.width = width
			p.height = height
		}
	}
}

func NewTranscodeProbe(prober MediaProber, transcoder Transcoder, input string, opts ...TranscodeOption) *TranscodeProbe {
	p := &TranscodeProbe{
		prober:     prober,
		transcoder: transcoder,
		input:      input,
		outputDir:  os.TempDir(),
		width:      1280,
		height:     720,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *TranscodeProbe) Key() string { return "transcode" }

func (p *TranscodeProbe) Run(ctx context.Context) (any, error) {
	if _, err := os.Stat(p.input); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputMissing, p.input)
		}
		return nil, fmt.Errorf("stat input %s: %w", p.input, err)
	}

	details, err := p.prober.Inspect(ctx, p.input)
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", p.input, err)
	}
	if details.DurationSeconds <= 0 || details.Width <= 0 || details.Height <= 0 {
		return nil, fmt.Errorf("%w: non-positive duration or resolution for %s", ErrMalformedOutput, p.input)
	}

	output := filepath.Join(p.outputDir, fmt.Sprintf("mediabench-transcode-%d.mp4", time.Now().UnixNano()))
	defer os.Remove(output)

	start := time.Now()
	if err := p.transcoder.Transcode(ctx, p.input, output, p.width, p.height); err != nil {
		return nil, fmt.Errorf("transcode %s: %w", p.input, err)
	}
	elapsed := secondsSince(start)

	feedback := evaluate.Evaluate(details.DurationSeconds, elapsed, details.Width, details.Height)
	return map[string]any{
		"codec":            details.Codec,
		"resolution":       fmt.Sprintf("%dx%d", details.Width, details.Height),
		"duration_seconds": details.DurationSeconds,
		"bitrate_mbps":     details.BitrateMbps,
		"elapsed_seconds":  round2(elapsed),
		"real_time_ratio":  feedback.RealTimeRatio,
		"feedback":         feedback.Statements,
	}, nil
}
