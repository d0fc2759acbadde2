// Package media wraps the external transcode tool and media prober binaries.
package media

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// RunCommand is the seam through which both tools invoke their binary. Tests
// substitute it to avoid depending on installed ffmpeg/ffprobe.
type RunCommand func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err := cmd.Run()
	return outBuf.Bytes(), errBuf.Bytes(), err
}

// lastLine extracts the final non-empty stderr line, which is where ffmpeg
// and ffprobe put their actual diagnostic.
func lastLine(stderr []byte) string {
	lines := strings.Split(strings.TrimSpace(string(stderr)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
