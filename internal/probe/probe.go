// Package probe defines the measurement probes and the aggregator that turns
// a configured probe battery into one ordered report.
package probe

import (
	"context"
	"errors"
	"math"
)

// Probe is one independent unit of measurement. Run returns the probe's value
// or an error; errors are converted to failure entries by the aggregator and
// never abort the batch.
type Probe interface {
	Key() string
	Run(ctx context.Context) (any, error)
}

var (
	// ErrCollaboratorUnavailable marks an external tool or API that is absent
	// or unreachable.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
	// ErrInputMissing marks a required media file that does not exist.
	ErrInputMissing = errors.New("input not found")
	// ErrMalformedOutput marks collaborator output the probe cannot parse.
	ErrMalformedOutput = errors.New("malformed collaborator output")
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
