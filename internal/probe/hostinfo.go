package probe

import (
	"context"
	"fmt"

	"github.com/mediabenchhq/harness/pkg/types"
)

// HostInspector is the opaque source of static system facts.
type HostInspector interface {
	Inspect(ctx context.Context) (types.HostFacts, error)
}

// HostInfoProbe reports the host's OS, CPU, and memory facts.
type HostInfoProbe struct {
	inspector HostInspector
}

func NewHostInfoProbe(inspector HostInspector) *HostInfoProbe {
	return &HostInfoProbe{inspector: inspector}
}

func (p *HostInfoProbe) Key() string { return "system_info" }

func (p *HostInfoProbe) Run(ctx context.Context) (any, error) {
	facts, err := p.inspector.Inspect(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCollaboratorUnavailable, err)
	}
	return facts, nil
}
