package types

import (
	"encoding/json"
	"testing"
)

func TestReportPreservesInsertionOrder(t *testing.T) {
	var report Report
	report.Add(OK("system_info", map[string]any{"os": "linux"}))
	report.Add(OK("cpu_benchmark", map[string]any{"elapsed_seconds": 1.5}))
	report.Add(Fail("disk_io", "scratch dir not writable"))

	keys := report.Keys()
	want := []string{"system_info", "cpu_benchmark", "disk_io"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys got %d", len(want), len(keys))
	}
	for i, key := range want {
		if keys[i] != key {
			t.Fatalf("key %d: expected %q got %q", i, key, keys[i])
		}
	}
}

func TestReportFailurePayloadIsMessage(t *testing.T) {
	var report Report
	report.Add(Fail("network_throughput", "connection refused"))

	value, ok := report.Value("network_throughput")
	if !ok {
		t.Fatalf("expected entry for network_throughput")
	}
	if value != "connection refused" {
		t.Fatalf("expected failure message payload, got %v", value)
	}
}

func TestReportJSONRoundTrip(t *testing.T) {
	var report Report
	report.Add(OK("system_info", map[string]any{"os": "linux", "logical_cpus": 8.0}))
	report.Add(OK("cpu_benchmark", map[string]any{"elapsed_seconds": 1.52}))
	report.Add(Fail("transcode", "input not found: /tmp/sample.mp4"))
	report.Add(OK("disk_io", map[string]any{"write_mb_per_sec": 512.33, "read_mb_per_sec": 1024.5}))

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal report: %v", err)
	}

	var decoded Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal report: %v", err)
	}

	if decoded.Len() != report.Len() {
		t.Fatalf("expected %d entries got %d", report.Len(), decoded.Len())
	}
	for i, entry := range report.Entries {
		if decoded.Entries[i].Key != entry.Key {
			t.Fatalf("entry %d: expected key %q got %q", i, entry.Key, decoded.Entries[i].Key)
		}
	}

	value, ok := decoded.Value("cpu_benchmark")
	if !ok {
		t.Fatalf("expected cpu_benchmark entry")
	}
	mapping, ok := value.(map[string]any)
	if !ok {
		t.Fatalf("expected nested mapping, got %T", value)
	}
	if mapping["elapsed_seconds"] != 1.52 {
		t.Fatalf("expected elapsed_seconds 1.52 got %v", mapping["elapsed_seconds"])
	}

	failure, _ := decoded.Value("transcode")
	if failure != "input not found: /tmp/sample.mp4" {
		t.Fatalf("unexpected failure payload %v", failure)
	}
}

func TestReportAppendConcatenatesInOrder(t *testing.T) {
	var first Report
	first.Add(OK("system_info", "a"))
	first.Add(OK("cpu_benchmark", "b"))

	var second Report
	second.Add(OK("disk_io", "c"))

	first.Append(second)

	keys := first.Keys()
	want := []string{"system_info", "cpu_benchmark", "disk_io"}
	for i, key := range want {
		if keys[i] != key {
			t.Fatalf("key %d: expected %q got %q", i, key, keys[i])
		}
	}
}

func TestReportRejectsNonObject(t *testing.T) {
	var report Report
	if err := json.Unmarshal([]byte(`["not", "an", "object"]`), &report); err == nil {
		t.Fatalf("expected decode error for non-object report")
	}
}
