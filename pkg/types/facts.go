package types

import "time"

// HostFacts captures the static system facts reported by the host inspector.
type HostFacts struct {
	OS              string  `json:"os"`
	Platform        string  `json:"platform"`
	PlatformVersion string  `json:"platform_version"`
	KernelVersion   string  `json:"kernel_version"`
	Processor       string  `json:"processor"`
	PhysicalCores   int     `json:"physical_cores"`
	LogicalCPUs     int     `json:"logical_cpus"`
	MemoryGB        float64 `json:"memory_gb"`
}

// MediaDetails describes one media file as reported by the prober tool.
// Immutable once produced.
type MediaDetails struct {
	DurationSeconds float64 `json:"duration_seconds"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	Codec           string  `json:"codec"`
	BitrateMbps     float64 `json:"bitrate_mbps"`
}

// TranscodeSession is one in-flight transcode reported by the media server.
type TranscodeSession struct {
	Title      string `json:"title"`
	VideoCodec string `json:"video_codec"`
	Container  string `json:"container"`
	Decision   string `json:"decision"`
}

// MetricsSample is one point-in-time utilisation reading.
type MetricsSample struct {
	Timestamp     time.Time `json:"ts"`
	CPUPercent    float64   `json:"cpu_percent"`
	MemoryPercent float64   `json:"memory_percent"`
	DiskPercent   float64   `json:"disk_percent"`
}

// SimulationOutcome summarises one concurrent stream fan-out run.
type SimulationOutcome struct {
	Requested      int     `json:"requested"`
	Succeeded      int     `json:"succeeded"`
	Failed         int     `json:"failed"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}
