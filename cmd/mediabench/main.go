package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mediabenchhq/harness/internal/client"
	"github.com/mediabenchhq/harness/internal/config"
	"github.com/mediabenchhq/harness/internal/hostinfo"
	"github.com/mediabenchhq/harness/internal/logging"
	"github.com/mediabenchhq/harness/internal/media"
	"github.com/mediabenchhq/harness/internal/metrics"
	"github.com/mediabenchhq/harness/internal/probe"
	"github.com/mediabenchhq/harness/internal/server"
	"github.com/mediabenchhq/harness/internal/sessions"
	"github.com/mediabenchhq/harness/internal/sysmon"
)

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	var err error

	switch cmd {
	case "report":
		err = runReport(ctx, os.Args[2:])
	case "server":
		err = runServer(ctx, os.Args[2:])
	case "client":
		err = runClient(ctx, os.Args[2:])
	case "-h", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "command %s failed: %v\n", cmd, err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("mediabench harness CLI")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  mediabench report [--config /etc/mediabench/harness.yaml]")
	fmt.Println("  mediabench server [--config path] [--host addr] [--port n]")
	fmt.Println("  mediabench client [--config path] [--host addr] [--port n]")
}

// loadConfig falls back to built-in defaults when the config file is absent so
// report and client modes work on a bare host.
func loadConfig(ctx context.Context, path string, logger func(string, ...any)) config.Config {
	cfg, err := config.Load(ctx, path)
	if err != nil {
		logger("config %s unavailable, using defaults: %v", path, err)
		return config.Default()
	}
	return cfg
}

func buildRunner(cfg config.Config, logger *logrus.Logger, store *metrics.Store) (*probe.Runner, error) {
	inspector := hostinfo.New()
	prober := media.NewFFprobe(cfg.Probes.FFprobePath, media.Dependencies{})
	transcoder := media.NewFFmpeg(cfg.Probes.FFmpegPath, media.Dependencies{})
	sampler := sysmon.New(
		time.Duration(cfg.Probes.SysmonWindowSec)*time.Second,
		time.Duration(cfg.Probes.SysmonIntervalSec)*time.Second,
		cfg.Probes.SysmonDiskPath,
	)

	// System info first, then compute, then the I/O-bound probes.
	probes := []probe.Probe{
		probe.NewHostInfoProbe(inspector),
		probe.NewCPUComputeProbe(cfg.Probes.CPUIterations),
		probe.NewDiskIOProbe(
			probe.WithScratchDir(cfg.Probes.DiskScratchDir),
			probe.WithPayloadSize(cfg.Probes.DiskBytes),
		),
		probe.NewNetworkThroughputProbe(cfg.Probes.NetworkURL, cfg.Probes.NetworkRetries, logger),
		probe.NewTranscodeProbe(prober, transcoder, cfg.Probes.MediaSample,
			probe.WithTargetScale(cfg.Probes.ScaleWidth, cfg.Probes.ScaleHeight),
		),
		probe.NewSystemMetricsProbe(sampler),
	}

	// The media-server probes only run when a server is configured.
	if cfg.Sessions.ServerURL != "" {
		api, err := sessions.NewInspector(
			sessions.InspectorConfig{ServerURL: cfg.Sessions.ServerURL, Token: cfg.Sessions.Token},
			sessions.InspectorDependencies{Logger: logger},
		)
		if err != nil {
			return nil, fmt.Errorf("init media server client: %w", err)
		}
		simulator, err := sessions.NewSimulator(api, sessions.SimulatorConfig{
			Title:          mediaTitle(cfg.Probes.MediaSample),
			Concurrency:    cfg.Sessions.Concurrency,
			RequestsPerSec: cfg.Sessions.RequestsPerSec,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("init stream simulator: %w", err)
		}
		probes = append(probes,
			probe.NewSessionSimulationProbe(simulator, cfg.Sessions.Streams),
			probe.NewActiveTranscodesProbe(api),
		)
	}

	return probe.NewRunner(probes, probe.Dependencies{
		Logger:  logger,
		Metrics: store,
		Timeout: time.Duration(cfg.Probes.TimeoutSec) * time.Second,
	}), nil
}

func runReport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	configPath := fs.String("config", config.DefaultConfigPath, "Path to harness configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := loadConfig(ctx, *configPath, func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	})
	logger := logging.New(cfg.Logging)

	runner, err := buildRunner(cfg, logger, nil)
	if err != nil {
		return err
	}

	env := runner.Generate(ctx)
	return printJSON(env)
}

func runServer(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	configPath := fs.String("config", config.DefaultConfigPath, "Path to harness configuration file")
	host := fs.String("host", "", "Listen host override")
	port := fs.Int("port", 0, "Listen port override")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := loadConfig(ctx, *configPath, func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	})
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger := logging.New(cfg.Logging)
	store := metrics.NewStore()

	runner, err := buildRunner(cfg, logger, store)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		ReadTimeout: time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
	}, runner, server.Dependencies{Logger: logger, Metrics: store})
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	grp, groupCtx := errgroup.WithContext(runCtx)
	grp.Go(func() error {
		if err := srv.ListenAndServe(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	if err := grp.Wait(); err != nil {
		return err
	}

	snap := store.Snapshot()
	logger.Infof("server stopped (connections=%d reports=%d mismatches=%d probe_failures=%d)",
		snap.ConnectionsAccepted, snap.ReportsServed, snap.ProtocolMismatches, snap.ProbeFailures)
	return nil
}

func runClient(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	configPath := fs.String("config", config.DefaultConfigPath, "Path to harness configuration file")
	host := fs.String("host", "", "Server host override")
	port := fs.Int("port", 0, "Server port override")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := loadConfig(ctx, *configPath, func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	})
	if *host != "" {
		cfg.Client.Host = *host
	}
	if *port > 0 {
		cfg.Client.Port = *port
	}

	logger := logging.New(cfg.Logging)
	c := client.New(client.Config{
		Host:        cfg.Client.Host,
		Port:        cfg.Client.Port,
		DialTimeout: time.Duration(cfg.Client.DialTimeoutSec) * time.Second,
	}, logger)

	env, err := c.Fetch(ctx)
	if err != nil {
		return err
	}
	return printJSON(env)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// mediaTitle derives the library title viewers search for from the sample
// file name, extension stripped.
func mediaTitle(samplePath string) string {
	base := filepath.Base(samplePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
