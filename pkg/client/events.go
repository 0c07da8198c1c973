package client

import (
	"context"
	"io"
	"net/url"

	"github.com/okian/blaseref/pkg/model"
)

// Endpoint names.
const (
	endpointEvents      = "events"
	endpointRawEvents   = "data/events"
	endpointCountByType = "countByType"
)

// fetch runs one request and decodes its body. Every failure is counted
// against endpoint before it is returned.
func fetch[T any](ctx context.Context, c *Client, op, endpoint string, params url.Values,
	decode func(io.Reader) (T, error), size func(T) int,
) (T, error) {
	var zero T
	resp, err := c.get(ctx, endpoint, params)
	if err != nil {
		return zero, c.fail(ctx, endpoint, err)
	}
	defer resp.Body.Close()

	out, err := decode(resp.Body)
	if err != nil {
		return zero, c.fail(ctx, endpoint, wrapDecode(op, err))
	}
	c.metrics.RecordDecoded(endpoint, size(out))
	return out, nil
}

// Events returns every game event matching q, decoded eagerly.
func (c *Client) Events(ctx context.Context, q EventsQuery) ([]model.GameEvent, error) {
	const op = "client.events"
	params, err := q.params(op)
	if err != nil {
		return nil, c.fail(ctx, endpointEvents, err)
	}
	return fetch(ctx, c, op, endpointEvents, params, decodeEvents,
		func(events []model.GameEvent) int { return len(events) })
}

// StreamEvents returns the game events matching q as a lazy, single-use
// stream. The caller must range over All or call Close.
func (c *Client) StreamEvents(ctx context.Context, q EventsQuery) (*EventStream, error) {
	const op = "client.stream_events"
	params, err := q.params(op)
	if err != nil {
		return nil, c.fail(ctx, endpointEvents, err)
	}
	resp, err := c.get(ctx, endpointEvents, params)
	if err != nil {
		return nil, c.fail(ctx, endpointEvents, err)
	}
	return newEventStream(ctx, c, op, endpointEvents, resp.Body), nil
}

// RawEvents dumps every event the API holds as untyped JSON. The query is
// unbounded, so confirm must be true or no request is made.
func (c *Client) RawEvents(ctx context.Context, confirm bool) (any, error) {
	const op = "client.raw_events"
	if !confirm {
		return nil, c.fail(ctx, endpointRawEvents, NewKind(op, ErrConfirmationRequired))
	}
	return fetch(ctx, c, op, endpointRawEvents, nil, decodeRaw,
		func(any) int { return 1 })
}

// CountByType counts events of q.EventType per pitcher and per batter.
func (c *Client) CountByType(ctx context.Context, q CountByTypeQuery) (CountByType, error) {
	const op = "client.count_by_type"
	params, err := q.params(op)
	if err != nil {
		return CountByType{}, c.fail(ctx, endpointCountByType, err)
	}
	return fetch(ctx, c, op, endpointCountByType, params, decodeCountByType,
		func(r CountByType) int { return len(r.Pitchers) + len(r.Batters) })
}
