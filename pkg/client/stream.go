package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"sync"

	"github.com/okian/blaseref/pkg/model"
)

// EventStream decodes game events one at a time straight from the response
// body. It can be ranged over once; the body is closed when iteration ends,
// when the caller breaks out early, or on Close.
type EventStream struct {
	ctx      context.Context
	client   *Client
	op       string
	endpoint string
	body     io.ReadCloser
	dec      *json.Decoder

	mu     sync.Mutex
	used   bool
	closed bool
}

func newEventStream(ctx context.Context, c *Client, op, endpoint string, body io.ReadCloser) *EventStream {
	return &EventStream{
		ctx:      ctx,
		client:   c,
		op:       op,
		endpoint: endpoint,
		body:     body,
		dec:      json.NewDecoder(body),
	}
}

// All yields events in response order. A decode or read failure is yielded
// once as the final pair. Calling All a second time yields ErrStreamConsumed.
func (s *EventStream) All() iter.Seq2[model.GameEvent, error] {
	return func(yield func(model.GameEvent, error) bool) {
		s.mu.Lock()
		if s.used {
			s.mu.Unlock()
			yield(model.GameEvent{}, NewKind(s.op, ErrStreamConsumed))
			return
		}
		s.used = true
		s.mu.Unlock()
		defer s.Close()

		n := 0
		defer func() { s.client.metrics.RecordDecoded(s.endpoint, n) }()

		fail := func(err error) {
			yield(model.GameEvent{}, s.client.fail(s.ctx, s.endpoint, wrapDecode(s.op, err)))
		}

		if err := s.seekList(); err != nil {
			fail(err)
			return
		}
		for s.dec.More() {
			var e model.GameEvent
			if err := s.dec.Decode(&e); err != nil {
				fail(bodyError(fmt.Sprintf("event %d", n), err))
				return
			}
			n++
			if !yield(e, nil) {
				return
			}
		}
		// More also reports false on a read error, so the closing bracket
		// must actually arrive.
		if _, err := s.dec.Token(); err != nil {
			fail(bodyError(fmt.Sprintf("after event %d", n), err))
		}
	}
}

// Close releases the response body. It is safe to call more than once.
func (s *EventStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.used = true
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}

// seekList positions the decoder on the first element of the event list,
// either a bare array or the "results" member of an object.
func (s *EventStream) seekList() error {
	tok, err := s.dec.Token()
	if err != nil {
		return bodyError("response body", err)
	}
	switch tok {
	case json.Delim('['):
		return nil
	case json.Delim('{'):
	default:
		return decodeError("unexpected token %v, want a list", tok)
	}

	for s.dec.More() {
		key, err := s.dec.Token()
		if err != nil {
			return bodyError("response body", err)
		}
		if key != "results" {
			var skip json.RawMessage
			if err := s.dec.Decode(&skip); err != nil {
				return bodyError(fmt.Sprint(key), err)
			}
			continue
		}
		tok, err := s.dec.Token()
		if err != nil {
			return bodyError("results", err)
		}
		if tok != json.Delim('[') {
			return decodeError("results: unexpected token %v, want a list", tok)
		}
		return nil
	}
	return decodeError(`missing "results" list`)
}
