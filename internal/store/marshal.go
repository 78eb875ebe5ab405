package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/orderlens/internal/loader"
)

// timeLayout keeps sub-second precision and the original offset.
const timeLayout = time.RFC3339Nano

// marshalJSON encodes v as compact JSON TEXT without HTML escaping.
// Struct field order is fixed, so equal values encode to equal text.
func marshalJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	// Encoder.Encode appends a newline
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func marshalOptions(o Options) (string, error) {
	s, err := marshalJSON(o)
	if err != nil {
		return "", fmt.Errorf("marshal options: %w", err)
	}
	return s, nil
}

func unmarshalOptions(s string) (Options, error) {
	var o Options
	if err := json.Unmarshal([]byte(s), &o); err != nil {
		return Options{}, fmt.Errorf("unmarshal options: %w", err)
	}
	return o, nil
}

func marshalSignature(sig loader.Signature) (string, error) {
	s, err := marshalJSON(sig)
	if err != nil {
		return "", fmt.Errorf("marshal signature: %w", err)
	}
	return s, nil
}

func unmarshalSignature(s string) (loader.Signature, error) {
	var sig loader.Signature
	if err := json.Unmarshal([]byte(s), &sig); err != nil {
		return loader.Signature{}, fmt.Errorf("unmarshal signature: %w", err)
	}
	return sig, nil
}

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}
