// Package client requests a report from a running harness server.
package client

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mediabenchhq/harness/internal/protocol"
	"github.com/mediabenchhq/harness/pkg/types"
)

// Config holds the static configuration for a Client.
type Config struct {
	Host        string
	Port        int
	DialTimeout time.Duration
}

// Client issues a single request/response exchange per Fetch call. Any
// transport error is surfaced to the caller; there is no retry.
type Client struct {
	addr        string
	dialTimeout time.Duration
	logger      *logrus.Logger
}

func New(cfg Config, logger *logrus.Logger) *Client {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port <= 0 {
		port = 5000
	}
	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Client{
		addr:        net.JoinHostPort(host, fmt.Sprintf("%d", port)),
		dialTimeout: dialTimeout,
		logger:      logger,
	}
}

// Fetch connects, sends the request token, and decodes the framed report. The
// server runs every probe before answering, so the read blocks for the full
// report duration; bound it with the caller's ctx deadline if needed.
func (c *Client) Fetch(ctx context.Context) (types.ReportEnvelope, error) {
	var env types.ReportEnvelope

	d := net.Dialer{Timeout: c.dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return env, fmt.Errorf("connect %s: %w", c.addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c.logger.Infof("requesting report from %s", c.addr)
	if _, err := io.WriteString(conn, protocol.RequestToken); err != nil {
		return env, fmt.Errorf("send request: %w", err)
	}

	env, err = protocol.ReadEnvelope(conn)
	if err != nil {
		return env, fmt.Errorf("receive report: %w", err)
	}
	return env, nil
}
