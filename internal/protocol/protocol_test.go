package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mediabenchhq/harness/pkg/types"
)

func TestReadRequestAcceptsToken(t *testing.T) {
	if err := ReadRequest(strings.NewReader(RequestToken)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReadRequestRejectsOtherPayloads(t *testing.T) {
	cases := []string{"RUN_TEST?", "run_tests", "GET / HTTP/1.1", "", "RUN"}
	for _, payload := range cases {
		err := ReadRequest(strings.NewReader(payload))
		if !errors.Is(err, ErrTokenMismatch) {
			t.Fatalf("payload %q: expected ErrTokenMismatch got %v", payload, err)
		}
	}
}

func TestFrameRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 64<<10)

	var buf bytes.Buffer
	if err := WriteFrame(&buf, payload); err != nil {
		t.Fatalf("write frame: %v", err)
	}

	got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch: %d bytes vs %d", len(got), len(payload))
	}
}

func TestReadFrameRejectsOversizedLength(t *testing.T) {
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], MaxFrameBytes+1)

	_, err := ReadFrame(bytes.NewReader(header[:]))
	if !errors.Is(err, ErrFrameTooLarge) {
		t.Fatalf("expected ErrFrameTooLarge got %v", err)
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	var report types.Report
	report.Add(types.OK("system_info", map[string]any{"os": "linux"}))
	report.Add(types.Fail("transcode", "input not found"))

	env := types.ReportEnvelope{
		RunID:       "run-123",
		GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Report:      report,
	}

	var buf bytes.Buffer
	if err := WriteEnvelope(&buf, env); err != nil {
		t.Fatalf("write envelope: %v", err)
	}

	got, err := ReadEnvelope(&buf)
	if err != nil {
		t.Fatalf("read envelope: %v", err)
	}
	if got.RunID != env.RunID {
		t.Fatalf("expected run ID %q got %q", env.RunID, got.RunID)
	}
	keys := got.Report.Keys()
	if len(keys) != 2 || keys[0] != "system_info" || keys[1] != "transcode" {
		t.Fatalf("unexpected keys %v", keys)
	}
}
