package metrics

import "sync/atomic"

// Store maintains in-memory counters for harness telemetry. All methods are
// nil-safe so components can run without a store wired in.
type Store struct {
	connectionsAccepted atomic.Uint64
	reportsServed       atomic.Uint64
	protocolMismatches  atomic.Uint64
	probeFailures       atomic.Uint64
}

// NewStore constructs a Store with zeroed counters.
func NewStore() *Store {
	return &Store{}
}

// Snapshot captures the current counter values in a plain struct.
type Snapshot struct {
	ConnectionsAccepted uint64
	ReportsServed       uint64
	ProtocolMismatches  uint64
	ProbeFailures       uint64
}

// Snapshot returns a point-in-time copy of the counters.
func (s *Store) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	return Snapshot{
		ConnectionsAccepted: s.connectionsAccepted.Load(),
		ReportsServed:       s.reportsServed.Load(),
		ProtocolMismatches:  s.protocolMismatches.Load(),
		ProbeFailures:       s.probeFailures.Load(),
	}
}

// RecordConnectionAccepted counts one accepted connection.
func (s *Store) RecordConnectionAccepted() {
	if s == nil {
		return
	}
	s.connectionsAccepted.Add(1)
}

// RecordReportServed counts one report delivered to a caller.
func (s *Store) RecordReportServed() {
	if s == nil {
		return
	}
	s.reportsServed.Add(1)
}

// RecordProtocolMismatch counts one rejected request token.
func (s *Store) RecordProtocolMismatch() {
	if s == nil {
		return
	}
	s.protocolMismatches.Add(1)
}

// RecordProbeFailure counts one probe converted to a failure entry.
func (s *Store) RecordProbeFailure() {
	if s == nil {
		return
	}
	s.probeFailures.Add(1)
}
