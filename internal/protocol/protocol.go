// Package protocol defines the request token and the framed response encoding
// exchanged between a report requester and a report producer.
package protocol

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mediabenchhq/harness/pkg/types"
)

const (
	// RequestToken is the exact byte sequence a caller must send to trigger a
	// report run. Raw ASCII, no framing, for compatibility with existing
	// callers.
	RequestToken = "RUN_TESTS"

	// MaxFrameBytes bounds a response frame. Larger declared lengths are
	// rejected as corrupt rather than allocated.
	MaxFrameBytes = 16 << 20

	headerBytes = 4
)

var (
	// ErrTokenMismatch means the received payload was not the request token.
	ErrTokenMismatch = errors.New("unrecognized request token")
	// ErrFrameTooLarge means a frame declared a length above MaxFrameBytes.
	ErrFrameTooLarge = errors.New("frame exceeds maximum size")
)

// ReadRequest consumes and validates the request token from r.
func ReadRequest(r io.Reader) error {
	buf := make([]byte, len(RequestToken))
	n, err := io.ReadFull(r, buf)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: short request (%d bytes)", ErrTokenMismatch, n)
		}
		return fmt.Errorf("read request: %w", err)
	}
	if string(buf) != RequestToken {
		return ErrTokenMismatch
	}
	return nil
}

// WriteFrame writes a length-prefixed payload: 4-byte big-endian size, then
// the payload bytes. The prefix lets arbitrarily large reports round-trip
// without a fixed receive buffer truncating them.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxFrameBytes {
		return ErrFrameTooLarge
	}
	var header [headerBytes]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("write frame header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write frame payload: %w", err)
	}
	return nil
}

// ReadFrame reads one length-prefixed payload from r.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [headerBytes]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("read frame header: %w", err)
	}
	size := binary.BigEndian.Uint32(header[:])
	if size > MaxFrameBytes {
		return nil, ErrFrameTooLarge
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read frame payload: %w", err)
	}
	return payload, nil
}

// WriteEnvelope frames and sends one serialized report envelope.
func WriteEnvelope(w io.Writer, env types.ReportEnvelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return WriteFrame(w, payload)
}

// ReadEnvelope receives and decodes one report envelope.
func ReadEnvelope(r io.Reader) (types.ReportEnvelope, error) {
	var env types.ReportEnvelope
	payload, err := ReadFrame(r)
	if err != nil {
		return env, err
	}
	if err := json.Unmarshal(payload, &env); err != nil {
		return env, fmt.Errorf("decode report: %w", err)
	}
	return env, nil
}
