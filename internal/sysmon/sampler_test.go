package sysmon

import (
	"context"
	"testing"
	"time"
)

func TestSamplerCollectsWithinWindow(t *testing.T) {
	s := New(150*time.Millisecond, 50*time.Millisecond, "/")

	samples, err := s.Sample(context.Background())
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if len(samples) == 0 {
		t.Fatalf("expected at least one sample")
	}
	for i, sample := range samples {
		if sample.Timestamp.IsZero() {
			t.Fatalf("sample %d has zero timestamp", i)
		}
		if sample.MemoryPercent <= 0 {
			t.Fatalf("sample %d has non-positive memory usage %v", i, sample.MemoryPercent)
		}
	}
}

func TestSamplerHonoursCancellation(t *testing.T) {
	s := New(10*time.Second, 50*time.Millisecond, "/")

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := s.Sample(ctx)
	if err == nil {
		t.Fatalf("expected context error")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("cancellation ignored, sampling took %s", elapsed)
	}
}
