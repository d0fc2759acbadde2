package metrics

import "testing"

func TestStoreCounts(t *testing.T) {
	store := NewStore()
	store.RecordConnectionAccepted()
	store.RecordConnectionAccepted()
	store.RecordReportServed()
	store.RecordProtocolMismatch()
	store.RecordProbeFailure()
	store.RecordProbeFailure()
	store.RecordProbeFailure()

	snap := store.Snapshot()
	if snap.ConnectionsAccepted != 2 {
		t.Fatalf("expected 2 connections got %d", snap.ConnectionsAccepted)
	}
	if snap.ReportsServed != 1 {
		t.Fatalf("expected 1 report got %d", snap.ReportsServed)
	}
	if snap.ProtocolMismatches != 1 {
		t.Fatalf("expected 1 mismatch got %d", snap.ProtocolMismatches)
	}
	if snap.ProbeFailures != 3 {
		t.Fatalf("expected 3 probe failures got %d", snap.ProbeFailures)
	}
}

func TestNilStoreIsSafe(t *testing.T) {
	var store *Store
	store.RecordConnectionAccepted()
	store.RecordReportServed()
	store.RecordProtocolMismatch()
	store.RecordProbeFailure()

	if snap := store.Snapshot(); snap.ConnectionsAccepted != 0 {
		t.Fatalf("expected zero snapshot got %+v", snap)
	}
}
