package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/mediabenchhq/harness/pkg/types"
)

// FFprobe extracts media details by invoking the ffprobe binary.
type FFprobe struct {
	binary string
	run    RunCommand
}

// Dependencies provides optional overrides for testing.
type Dependencies struct {
	RunCommand RunCommand
}

func NewFFprobe(binary string, deps Dependencies) *FFprobe {
	if binary == "" {
		binary = "ffprobe"
	}
	run := deps.RunCommand
	if run == nil {
		run = runCommand
	}
	return &FFprobe{binary: binary, run: run}
}

type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
		BitRate  string `json:"bit_rate"`
	} `json:"format"`
	Streams []struct {
		CodecName string `json:"codec_name"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

func (f *FFprobe) Inspect(ctx context.Context, path string) (types.MediaDetails, error) {
	var details types.MediaDetails

	stdout, stderr, err := f.run(ctx, f.binary,
		"-v", "error",
		"-show_entries", "format=duration,bit_rate:stream=codec_name,width,height",
		"-of", "json",
		path,
	)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return details, fmt.Errorf("%s is not installed or not in PATH: %w", f.binary, err)
		}
		if msg := lastLine(stderr); msg != "" {
			return details, fmt.Errorf("%s: %s", f.binary, msg)
		}
		return details, fmt.Errorf("run %s: %w", f.binary, err)
	}

	var out ffprobeOutput
	if err := json.Unmarshal(stdout, &out); err != nil {
		return details, fmt.Errorf("parse %s output: %w", f.binary, err)
	}
	if len(out.Streams) == 0 {
		return details, fmt.Errorf("parse %s output: no streams reported for %s", f.binary, path)
	}

	duration, err := strconv.ParseFloat(out.Format.Duration, 64)
	if err != nil {
		return details, fmt.Errorf("parse %s duration %q: %w", f.binary, out.Format.Duration, err)
	}

	details.DurationSeconds = duration
	details.Codec = out.Streams[0].CodecName
	details.Width = out.Streams[0].Width
	details.Height = out.Streams[0].Height

	// bit_rate is absent for some containers; treat it as zero rather than
	// failing the whole probe.
	if out.Format.BitRate != "" {
		if bits, err := strconv.ParseFloat(out.Format.BitRate, 64); err == nil {
			details.BitrateMbps = bits / 1e6
		}
	}

	return details, nil
}
