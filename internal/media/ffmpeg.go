package media

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// FFmpeg performs the actual transcode by invoking the ffmpeg binary.
type FFmpeg struct {
	binary string
	preset string
	run    RunCommand
}

func NewFFmpeg(binary string, deps Dependencies) *FFmpeg {
	if binary == "" {
		binary = "ffmpeg"
	}
	run := deps.RunCommand
	if run == nil {
		run = runCommand
	}
	return &FFmpeg{binary: binary, preset: "fast", run: run}
}

func (f *FFmpeg) Transcode(ctx context.Context, input, output string, width, height int) error {
	scale := fmt.Sprintf("scale=%d:%d", width, height)
	_, stderr, err := f.run(ctx, f.binary,
		"-i", input,
		"-vf", scale,
		"-preset", f.preset,
		"-y", output,
	)
	if err == nil {
		return nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%s is not installed or not in PATH: %w", f.binary, err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s interrupted: %w", f.binary, ctxErr)
	}
	if msg := lastLine(stderr); msg != "" {
		return fmt.Errorf("%s: %s", f.binary, msg)
	}
	return fmt.Errorf("run %s: %w", f.binary, err)
}
