package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

// NetworkThroughputProbe downloads a fixed-size reference payload and reports
// the transfer rate in Mbps. Best effort: any transport failure after the
// bounded retries becomes a failure entry.
type NetworkThroughputProbe struct {
	url    string
	client *retryablehttp.Client
}

func NewNetworkThroughputProbe(url string, retries int, logger *logrus.Logger) *NetworkThroughputProbe {
	client := retryablehttp.NewClient()
	client.RetryMax = retries
	client.HTTPClient.Timeout = 60 * time.Second
	if logger != nil {
		client.Logger = logger
	} else {
		client.Logger = nil
	}
	return &NetworkThroughputProbe{url: url, client: client}
}

func (p *NetworkThroughputProbe) Key() string { return "network_throughput" }

func (p *NetworkThroughputProbe) Run(ctx context.Context) (any, error) {
	req, err := retryablehttp.NewRequest(http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}
	req = req.WithContext(ctx)

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", p.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: unexpected status %s", p.url, resp.Status)
	}

	n, err := io.Copy(io.Discard, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read download body: %w", err)
	}
	elapsed := secondsSince(start)

	mbps := float64(n) * 8 / 1e6 / elapsed
	return map[string]any{
		"bytes":           n,
		"elapsed_seconds": round2(elapsed),
		"mbps":            round2(mbps),
	}, nil
}
