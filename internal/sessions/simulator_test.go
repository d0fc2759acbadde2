package sessions

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingRequester struct {
	mu         sync.Mutex
	inFlight   int
	maxSeen    int
	calls      atomic.Int64
	delay      time.Duration
	failEveryN int
}

func (c *countingRequester) StreamURL(ctx context.Context, title string) (string, error) {
	c.mu.Lock()
	c.inFlight++
	if c.inFlight > c.maxSeen {
		c.maxSeen = c.inFlight
	}
	c.mu.Unlock()

	if c.delay > 0 {
		time.Sleep(c.delay)
	}

	c.mu.Lock()
	c.inFlight--
	c.mu.Unlock()

	n := c.calls.Add(1)
	if c.failEveryN > 0 && n%int64(c.failEveryN) == 0 {
		return "", errors.New("stream rejected")
	}
	return "http://media/stream/" + title, nil
}

func TestSimulateAccountsForEveryStream(t *testing.T) {
	requester := &countingRequester{failEveryN: 3}
	sim, err := NewSimulator(requester, SimulatorConfig{Title: "sample", Concurrency: 2}, nil)
	if err != nil {
		t.Fatalf("new simulator: %v", err)
	}

	outcome, err := sim.Simulate(context.Background(), 9)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if outcome.Requested != 9 {
		t.Fatalf("expected 9 requested got %d", outcome.Requested)
	}
	if outcome.Succeeded+outcome.Failed != 9 {
		t.Fatalf("expected all streams accounted for, got %d+%d", outcome.Succeeded, outcome.Failed)
	}
	if outcome.Failed != 3 {
		t.Fatalf("expected 3 failures got %d", outcome.Failed)
	}
}

func TestSimulateRespectsConcurrencyBound(t *testing.T) {
	requester := &countingRequester{delay: 20 * time.Millisecond}
	sim, err := NewSimulator(requester, SimulatorConfig{Title: "sample", Concurrency: 3}, nil)
	if err != nil {
		t.Fatalf("new simulator: %v", err)
	}

	if _, err := sim.Simulate(context.Background(), 12); err != nil {
		t.Fatalf("simulate: %v", err)
	}

	if requester.maxSeen > 3 {
		t.Fatalf("concurrency bound exceeded: saw %d in flight", requester.maxSeen)
	}
	if got := requester.calls.Load(); got != 12 {
		t.Fatalf("expected 12 stream requests got %d", got)
	}
}

func TestSimulateZeroStreams(t *testing.T) {
	sim, err := NewSimulator(&countingRequester{}, SimulatorConfig{Title: "sample"}, nil)
	if err != nil {
		t.Fatalf("new simulator: %v", err)
	}

	outcome, err := sim.Simulate(context.Background(), 0)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if outcome.Requested != 0 || outcome.Succeeded != 0 || outcome.Failed != 0 {
		t.Fatalf("expected empty outcome got %+v", outcome)
	}
}

func TestNewSimulatorValidation(t *testing.T) {
	if _, err := NewSimulator(nil, SimulatorConfig{Title: "sample"}, nil); err == nil {
		t.Fatalf("expected error for nil requester")
	}
	if _, err := NewSimulator(&countingRequester{}, SimulatorConfig{}, nil); err == nil {
		t.Fatalf("expected error for missing title")
	}
}
