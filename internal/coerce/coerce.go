// Package coerce converts loosely typed JSON scalars into Go numbers.
//
// The upstream API serializes Postgres aggregates inconsistently: the same
// field may arrive as a JSON number or as a numeric string.
package coerce

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Sentinel kinds for coercion failures.
var (
	ErrNull       = errors.New("null value")
	ErrNotNumeric = errors.New("value is not numeric")
)

// Int converts raw into an int. Floats are truncated toward zero.
// An empty raw message is the caller's concern; Int treats it as invalid.
func Int(raw json.RawMessage) (int, error) {
	v, err := scalar(raw)
	if err != nil {
		return 0, err
	}
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s", ErrNotNumeric, t)
		}
		return int(math.Trunc(f)), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotNumeric, t)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrNotNumeric, bytes.TrimSpace(raw))
	}
}

// Float converts raw into a float64.
func Float(raw json.RawMessage) (float64, error) {
	v, err := scalar(raw)
	if err != nil {
		return 0, err
	}
	var s string
	switch t := v.(type) {
	case json.Number:
		s = t.String()
	case string:
		s = strings.TrimSpace(t)
	default:
		return 0, fmt.Errorf("%w: %s", ErrNotNumeric, bytes.TrimSpace(raw))
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, s)
	}
	return f, nil
}

// String returns raw as a string when it holds a JSON string or number.
func String(raw json.RawMessage) (string, error) {
	v, err := scalar(raw)
	if err != nil {
		return "", err
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	default:
		return "", fmt.Errorf("unexpected value %s", bytes.TrimSpace(raw))
	}
}

func scalar(raw json.RawMessage) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrNotNumeric)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrNull
	}
	return v, nil
}
