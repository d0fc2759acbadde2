package sessions

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/mediabenchhq/harness/pkg/types"
)

// StreamRequester resolves one playable stream, standing in for a viewer
// starting playback.
type StreamRequester interface {
	StreamURL(ctx context.Context, title string) (string, error)
}

// SimulatorConfig holds the static configuration for a stream fan-out run.
type SimulatorConfig struct {
	// Title is the library entry every simulated viewer requests.
	Title string
	// Concurrency caps the number of in-flight stream requests. Submissions
	// beyond the cap block until a worker frees up.
	Concurrency int
	// RequestsPerSec paces submissions into the pool. Zero disables pacing.
	RequestsPerSec float64
}

// Simulator drives a bounded batch of concurrent stream requests and blocks
// until every request has completed.
type Simulator struct {
	requester   StreamRequester
	title       string
	concurrency int
	limiter     *rate.Limiter
	logger      *logrus.Logger
}

func NewSimulator(requester StreamRequester, cfg SimulatorConfig, logger *logrus.Logger) (*Simulator, error) {
	if requester == nil {
		return nil, fmt.Errorf("stream requester is required")
	}
	if cfg.Title == "" {
		return nil, fmt.Errorf("stream title is required")
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), 1)
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Simulator{
		requester:   requester,
		title:       cfg.Title,
		concurrency: concurrency,
		limiter:     limiter,
		logger:      logger,
	}, nil
}

// Simulate fans out the requested number of streams through a worker pool
// sized by the concurrency limit, then joins on all of them. Streams that
// cannot be submitted after the context ends are counted as failed; the
// outcome always accounts for every requested stream.
func (s *Simulator) Simulate(ctx context.Context, streams int) (types.SimulationOutcome, error) {
	outcome := types.SimulationOutcome{Requested: streams}
	if streams <= 0 {
		return outcome, nil
	}

	pool, err := ants.NewPool(s.concurrency)
	if err != nil {
		return outcome, fmt.Errorf("create stream pool: %w", err)
	}
	defer pool.Release()

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int64
		failed    atomic.Int64
	)

	start := time.Now()
	for i := 0; i < streams; i++ {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				failed.Add(int64(streams - i))
				break
			}
		}

		index := i
		wg.Add(1)
		task := func() {
			defer wg.Done()
			if _, err := s.requester.StreamURL(ctx, s.title); err != nil {
				s.logger.WithField("stream", index+1).Debugf("stream request failed: %v", err)
				failed.Add(1)
				return
			}
			succeeded.Add(1)
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			failed.Add(1)
		}
	}
	wg.Wait()

	outcome.Succeeded = int(succeeded.Load())
	outcome.Failed = int(failed.Load())
	outcome.ElapsedSeconds = time.Since(start).Seconds()
	return outcome, nil
}
