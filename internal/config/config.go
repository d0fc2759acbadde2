package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	envConfigPath     = "MEDIABENCH_CONFIG"
	DefaultConfigPath = "/etc/mediabench/harness.yaml"

	DefaultServerHost = "0.0.0.0"
	DefaultClientHost = "localhost"
	DefaultPort       = 5000
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Client   ClientConfig   `yaml:"client"`
	Probes   ProbesConfig   `yaml:"probes"`
	Sessions SessionsConfig `yaml:"sessions"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	ReadTimeoutSec int    `yaml:"read_timeout_sec"`
}

type ClientConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	DialTimeoutSec int    `yaml:"dial_timeout_sec"`
}

type ProbesConfig struct {
	TimeoutSec        int    `yaml:"timeout_sec"`
	CPUIterations     int    `yaml:"cpu_iterations"`
	DiskBytes         int64  `yaml:"disk_bytes"`
	DiskScratchDir    string `yaml:"disk_scratch_dir"`
	NetworkURL        string `yaml:"network_url"`
	NetworkRetries    int    `yaml:"network_retries"`
	MediaSample       string `yaml:"media_sample"`
	FFmpegPath        string `yaml:"ffmpeg_path"`
	FFprobePath       string `yaml:"ffprobe_path"`
	ScaleWidth        int    `yaml:"scale_width"`
	ScaleHeight       int    `yaml:"scale_height"`
	SysmonWindowSec   int    `yaml:"sysmon_window_sec"`
	SysmonIntervalSec int    `yaml:"sysmon_interval_sec"`
	SysmonDiskPath    string `yaml:"sysmon_disk_path"`
}

type SessionsConfig struct {
	ServerURL      string  `yaml:"server_url"`
	Token          string  `yaml:"token"`
	Streams        int     `yaml:"streams"`
	Concurrency    int     `yaml:"concurrency"`
	RequestsPerSec float64 `yaml:"requests_per_sec"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a configuration usable without any file on disk.
func Default() Config {
	var cfg Config
	return cfg.WithDefaults()
}

// WithDefaults returns a copy of the config with every unset field filled in.
func (c Config) WithDefaults() Config {
	if c.Server.Host == "" {
		c.Server.Host = DefaultServerHost
	}
	if c.Server.Port <= 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ReadTimeoutSec <= 0 {
		c.Server.ReadTimeoutSec = 10
	}
	if c.Client.Host == "" {
		c.Client.Host = DefaultClientHost
	}
	if c.Client.Port <= 0 {
		c.Client.Port = DefaultPort
	}
	if c.Client.DialTimeoutSec <= 0 {
		c.Client.DialTimeoutSec = 5
	}
	if c.Probes.TimeoutSec <= 0 {
		c.Probes.TimeoutSec = 300
	}
	if c.Probes.CPUIterations <= 0 {
		c.Probes.CPUIterations = 10_000_000
	}
	if c.Probes.DiskBytes <= 0 {
		c.Probes.DiskBytes = 100 << 20
	}
	if c.Probes.NetworkURL == "" {
		c.Probes.NetworkURL = "http://speedtest.tele2.net/1MB.zip"
	}
	if c.Probes.NetworkRetries <= 0 {
		c.Probes.NetworkRetries = 2
	}
	if c.Probes.MediaSample == "" {
		c.Probes.MediaSample = "/var/lib/mediabench/sample.mp4"
	}
	if c.Probes.FFmpegPath == "" {
		c.Probes.FFmpegPath = "ffmpeg"
	}
	if c.Probes.FFprobePath == "" {
		c.Probes.FFprobePath = "ffprobe"
	}
	if c.Probes.ScaleWidth <= 0 {
		c.Probes.ScaleWidth = 1280
	}
	if c.Probes.ScaleHeight <= 0 {
		c.Probes.ScaleHeight = 720
	}
	if c.Probes.SysmonWindowSec <= 0 {
		c.Probes.SysmonWindowSec = 5
	}
	if c.Probes.SysmonIntervalSec <= 0 {
		c.Probes.SysmonIntervalSec = 1
	}
	if c.Probes.SysmonDiskPath == "" {
		c.Probes.SysmonDiskPath = "/"
	}
	if c.Sessions.Streams <= 0 {
		c.Sessions.Streams = 5
	}
	if c.Sessions.Concurrency <= 0 {
		c.Sessions.Concurrency = 4
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = 100
	}
	if c.Logging.MaxBackups <= 0 {
		c.Logging.MaxBackups = 7
	}
	if c.Logging.MaxAgeDays <= 0 {
		c.Logging.MaxAgeDays = 30
	}
	return c
}

func Load(ctx context.Context, path string) (Config, error) {
	var cfg Config

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return cfg, fmt.Errorf("open config %q: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}

	return cfg.WithDefaults(), nil
}

func LoadFromEnv(ctx context.Context) (Config, error) {
	path := os.Getenv(envConfigPath)
	if path == "" {
		path = DefaultConfigPath
	}
	return Load(ctx, path)
}
