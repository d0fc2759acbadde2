package probe

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"time"
)

// DiskIOProbe writes a block of pseudo-random bytes to a scratch file, reads
// it back, and reports throughput both ways. The scratch file is removed on
// every exit path.
type DiskIOProbe struct {
	dir      string
	size     int64
	readFile func(string) ([]byte, error)
}

type DiskOption func(*DiskIOProbe)

// WithScratchDir overrides the directory the scratch file is created in.
func WithScratchDir(dir string) DiskOption {
	return func(p *DiskIOProbe) {
		if dir != "" {
			p.dir = dir
		}
	}
}

// WithPayloadSize overrides the scratch payload size in bytes.
func WithPayloadSize(n int64) DiskOption {
	return func(p *DiskIOProbe) {
		if n > 0 {
			p.size = n
		}
	}
}

// WithReadFile overrides the read step, used to inject read failures in tests.
func WithReadFile(fn func(string) ([]byte, error)) DiskOption {
	return func(p *DiskIOProbe) {
		if fn != nil {
			p.readFile = fn
		}
	}
}

func NewDiskIOProbe(opts ...DiskOption) *DiskIOProbe {
	p := &DiskIOProbe{
		dir:      os.TempDir(),
		size:     100 << 20,
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *DiskIOProbe) Key() string { return "disk_io" }

func (p *DiskIOProbe) Run(ctx context.Context) (any, error) {
	f, err := os.CreateTemp(p.dir, "mediabench-disk-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create scratch file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	payload := make([]byte, p.size)
	if _, err := rand.Read(payload); err != nil {
		f.Close()
		return nil, fmt.Errorf("generate scratch payload: %w", err)
	}

	start := time.Now()
	if _, err := f.Write(payload); err != nil {
		f.Close()
		return nil, fmt.Errorf("write scratch file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close scratch file: %w", err)
	}
	writeSeconds := secondsSince(start)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	data, err := p.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scratch file: %w", err)
	}
	readSeconds := secondsSince(start)

	if int64(len(data)) != p.size {
		return nil, fmt.Errorf("scratch file truncated: read %d of %d bytes", len(data), p.size)
	}

	mb := float64(p.size) / (1 << 20)
	return map[string]any{
		"write_mb_per_sec": round2(mb / writeSeconds),
		"read_mb_per_sec":  round2(mb / readSeconds),
	}, nil
}

// secondsSince never returns zero so throughput division stays finite on very
// fast filesystems (page cache hits).
func secondsSince(start time.Time) float64 {
	s := time.Since(start).Seconds()
	if s <= 0 {
		return 1e-9
	}
	return s
}
