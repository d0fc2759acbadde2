package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Result is the outcome of a single probe run. A probe either succeeds with a
// value or fails with an explanatory message; nothing else crosses the probe
// boundary.
type Result struct {
	Key     string
	Value   any
	Message string
	Success bool
}

// OK builds a successful result carrying the probe's measurement value.
func OK(key string, value any) Result {
	return Result{Key: key, Value: value, Success: true}
}

// Fail builds a failed result carrying the explanatory message.
func Fail(key, message string) Result {
	return Result{Key: key, Message: message}
}

// Payload returns the value that represents this result inside a report:
// the raw value on success, the message string on failure.
func (r Result) Payload() any {
	if r.Success {
		return r.Value
	}
	return r.Message
}

// Entry is one keyed value inside a report.
type Entry struct {
	Key   string
	Value any
}

// Report is the ordered collection of probe outputs for one run. Entry order
// reflects probe execution order and survives a JSON round trip.
type Report struct {
	Entries []Entry
}

// Add appends a probe result, preserving insertion order.
func (r *Report) Add(res Result) {
	r.Entries = append(r.Entries, Entry{Key: res.Key, Value: res.Payload()})
}

// Append concatenates another report's entries after this report's own.
func (r *Report) Append(other Report) {
	r.Entries = append(r.Entries, other.Entries...)
}

// Keys returns the report keys in entry order.
func (r Report) Keys() []string {
	keys := make([]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		keys = append(keys, e.Key)
	}
	return keys
}

// Value returns the payload stored under key.
func (r Report) Value(key string) (any, bool) {
	for _, e := range r.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Len returns the number of entries.
func (r Report) Len() int {
	return len(r.Entries)
}

// MarshalJSON encodes the report as a single JSON object whose member order
// matches entry order.
func (r Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range r.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, fmt.Errorf("marshal report key %q: %w", e.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal report value for %q: %w", e.Key, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a report object token by token so entry order is kept.
func (r *Report) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode report: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decode report: expected object, got %v", tok)
	}

	entries := make([]Entry, 0, 8)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode report key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("decode report: non-string key %v", keyTok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decode report value for %q: %w", key, err)
		}
		entries = append(entries, Entry{Key: key, Value: normalizeNumbers(value)})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode report: %w", err)
	}

	r.Entries = entries
	return nil
}

func normalizeNumbers(value any) any {
	switch v := value.(type) {
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case map[string]any:
		for k, inner := range v {
			v[k] = normalizeNumbers(inner)
		}
		return v
	case []any:
		for i, inner := range v {
			v[i] = normalizeNumbers(inner)
		}
		return v
	default:
		return value
	}
}

// ReportEnvelope wraps one generated report with its run identity.
type ReportEnvelope struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Report      Report    `json:"report"`
}
