// Package server accepts report requests over TCP and answers each recognized
// request with one freshly generated report.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mediabenchhq/harness/internal/metrics"
	"github.com/mediabenchhq/harness/internal/protocol"
	"github.com/mediabenchhq/harness/pkg/types"
)

// ReportGenerator produces one full report envelope per accepted request.
type ReportGenerator interface {
	Generate(ctx context.Context) types.ReportEnvelope
}

// Config holds the static configuration for a Server.
type Config struct {
	Host        string
	Port        int
	ReadTimeout time.Duration
}

// Dependencies allow overrides for logging and telemetry.
type Dependencies struct {
	Logger  *logrus.Logger
	Metrics *metrics.Store
}

// Server runs a single sequential accept loop. Connections are handled one at
// a time: a running report blocks later callers for its full duration. That
// is a deliberate simplification for an occasional-use harness, not a bug.
type Server struct {
	addr        string
	readTimeout time.Duration
	generator   ReportGenerator
	logger      *logrus.Logger
	metrics     *metrics.Store

	mu sync.Mutex
	ln net.Listener
}

func New(cfg Config, generator ReportGenerator, deps Dependencies) (*Server, error) {
	if generator == nil {
		return nil, fmt.Errorf("report generator is required")
	}
	host := cfg.Host
	if host == "" {
		host = "0.0.0.0"
	}
	port := cfg.Port
	if port <= 0 {
		port = 5000
	}
	readTimeout := cfg.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 10 * time.Second
	}
	logger := deps.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Server{
		addr:        net.JoinHostPort(host, fmt.Sprintf("%d", port)),
		readTimeout: readTimeout,
		generator:   generator,
		logger:      logger,
		metrics:     deps.Metrics,
	}, nil
}

// Listen binds the configured endpoint. Call before Serve when the caller
// needs the bound address (tests use port 0).
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve accepts connections until ctx ends. Transport and protocol errors are
// logged and terminate only their own connection, never the server.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		return fmt.Errorf("server is not listening")
	}

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	s.logger.Infof("listening on %s", ln.Addr())
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Warnf("accept: %v", err)
			continue
		}
		s.handle(ctx, conn)
	}
}

// ListenAndServe binds and serves in one call.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	s.metrics.RecordConnectionAccepted()
	remote := conn.RemoteAddr().String()
	log := s.logger.WithField("remote", remote)

	_ = conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	if err := protocol.ReadRequest(conn); err != nil {
		s.metrics.RecordProtocolMismatch()
		log.Warnf("closing connection: %v", err)
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	log.Info("request matched, running report")
	env := s.generator.Generate(ctx)

	if err := protocol.WriteEnvelope(conn, env); err != nil {
		log.Warnf("send report: %v", err)
		return
	}
	s.metrics.RecordReportServed()
	log.WithField("run_id", env.RunID).Info("report sent")
}
