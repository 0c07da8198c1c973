package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/okian/blaseref/internal/coerce"
	"github.com/okian/blaseref/pkg/model"
)

// Subject keys of the aggregate endpoints.
const (
	keyBatter  = "batter_id"
	keyPitcher = "pitcher_id"
	keyID      = "id"
)

// CountByType holds per-pitcher and per-batter counts of one event type.
type CountByType struct {
	Pitchers map[string]int
	Batters  map[string]int
}

func decodeError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDecode, fmt.Sprintf(format, args...))
}

// bodyError classifies a failure met while reading the response body.
// Malformed or truncated JSON is a decode error; anything else came from
// the connection and is returned as it is.
func bodyError(what string, err error) error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.Is(err, ErrDecode):
		return fmt.Errorf("%s: %w", what, err)
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF),
		errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return fmt.Errorf("%w: %s: %w", ErrDecode, what, err)
	default:
		return err
	}
}

func isNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// readRecords accepts a list either wrapped as {"results": [...]} or bare.
func readRecords(r io.Reader) ([]json.RawMessage, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, bodyError("response body", err)
	}
	return recordList(raw, "results")
}

func recordList(raw json.RawMessage, envelope string) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || isNull(trimmed) {
		return nil, decodeError("%s: want a list, got %q", envelope, trimmed)
	}
	if trimmed[0] == '{' {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil, decodeError("%s: %v", envelope, err)
		}
		inner, ok := obj[envelope]
		if !ok {
			return nil, decodeError("missing %q list", envelope)
		}
		trimmed = bytes.TrimSpace(inner)
		if isNull(trimmed) {
			return nil, decodeError("%s: want a list, got null", envelope)
		}
	}
	var records []json.RawMessage
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, decodeError("%s: want a list: %v", envelope, err)
	}
	return records, nil
}

// subject returns the identifier of an aggregate record, preferring key
// over the generic id field.
func subject(rec map[string]json.RawMessage, key string) (string, error) {
	for _, k := range []string{key, keyID} {
		raw, ok := rec[k]
		if !ok || isNull(raw) {
			continue
		}
		s, err := coerce.String(raw)
		if err != nil {
			return "", decodeError("%s: %v", k, err)
		}
		return s, nil
	}
	return "", decodeError("record has neither %q nor %q", key, keyID)
}

func aggregate[T any](records []json.RawMessage, key, field string, convert func(json.RawMessage) (T, error)) (map[string]T, error) {
	out := make(map[string]T, len(records))
	for i, rawRec := range records {
		var rec map[string]json.RawMessage
		if err := json.Unmarshal(rawRec, &rec); err != nil {
			return nil, decodeError("record %d: %v", i, err)
		}
		id, err := subject(rec, key)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		raw, ok := rec[field]
		if !ok {
			return nil, decodeError("record %d: missing %q", i, field)
		}
		val, err := convert(raw)
		if err != nil {
			return nil, decodeError("record %d: %s: %v", i, field, err)
		}
		out[id] = val
	}
	return out, nil
}

// decodeCounts maps subject to integer count. Duplicate subjects keep the
// last record.
func decodeCounts(r io.Reader, key string) (map[string]int, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	return aggregate(records, key, "count", coerce.Int)
}

// decodeRates maps subject to a floating-point value.
func decodeRates(r io.Reader, key string) (map[string]float64, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	return aggregate(records, key, "value", coerce.Float)
}

func decodeEvents(r io.Reader) ([]model.GameEvent, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	events := make([]model.GameEvent, len(records))
	for i, rec := range records {
		if err := json.Unmarshal(rec, &events[i]); err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
	}
	return events, nil
}

func decodeCountByType(r io.Reader) (CountByType, error) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return CountByType{}, bodyError("response body", err)
	}
	if body == nil {
		return CountByType{}, decodeError("response body: want an object, got null")
	}
	if results, ok := body["results"]; ok && len(body) == 1 {
		if isNull(results) {
			return CountByType{}, decodeError("results: want an object, got null")
		}
		body = nil
		if err := json.Unmarshal(results, &body); err != nil {
			return CountByType{}, decodeError("results: %v", err)
		}
	}

	out := CountByType{Pitchers: map[string]int{}, Batters: map[string]int{}}
	parts := []struct {
		list string
		key  string
		dst  *map[string]int
	}{
		{"pitchers", keyPitcher, &out.Pitchers},
		{"batters", keyBatter, &out.Batters},
	}
	for _, p := range parts {
		raw, ok := body[p.list]
		if !ok {
			continue
		}
		records, err := recordList(raw, p.list)
		if err != nil {
			return CountByType{}, err
		}
		counts, err := aggregate(records, p.key, "count", coerce.Int)
		if err != nil {
			return CountByType{}, fmt.Errorf("%s: %w", p.list, err)
		}
		*p.dst = counts
	}
	return out, nil
}

// decodeRaw parses any JSON value. Numbers stay json.Number.
func decodeRaw(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, bodyError("response body", err)
	}
	return v, nil
}
