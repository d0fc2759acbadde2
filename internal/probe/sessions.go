package probe

import (
	"context"
	"fmt"

	"github.com/mediabenchhq/harness/pkg/types"
)

// StreamSimulator fans out concurrent playback requests against the media
// server and reports the outcome.
type StreamSimulator interface {
	Simulate(ctx context.Context, streams int) (types.SimulationOutcome, error)
}

// SessionInspector lists the media server's in-flight transcode sessions.
type SessionInspector interface {
	ActiveTranscodes(ctx context.Context) ([]types.TranscodeSession, error)
}

// SessionSimulationProbe stresses the media server with a bounded batch of
// concurrent stream requests.
type SessionSimulationProbe struct {
	simulator StreamSimulator
	streams   int
}

func NewSessionSimulationProbe(simulator StreamSimulator, streams int) *SessionSimulationProbe {
	if streams <= 0 {
		streams = 5
	}
	return &SessionSimulationProbe{simulator: simulator, streams: streams}
}

func (p *SessionSimulationProbe) Key() string { return "session_simulation" }

func (p *SessionSimulationProbe) Run(ctx context.Context) (any, error) {
	outcome, err := p.simulator.Simulate(ctx, p.streams)
	if err != nil {
		return nil, fmt.Errorf("simulate %d streams: %w", p.streams, err)
	}
	return outcome, nil
}

// ActiveTranscodesProbe snapshots the sessions the media server is currently
// transcoding.
type ActiveTranscodesProbe struct {
	inspector SessionInspector
}

func NewActiveTranscodesProbe(inspector SessionInspector) *ActiveTranscodesProbe {
	return &ActiveTranscodesProbe{inspector: inspector}
}

func (p *ActiveTranscodesProbe) Key() string { return "active_transcodes" }

func (p *ActiveTranscodesProbe) Run(ctx context.Context) (any, error) {
	sessions, err := p.inspector.ActiveTranscodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCollaboratorUnavailable, err)
	}
	return map[string]any{
		"count":    len(sessions),
		"sessions": sessions,
	}, nil
}
