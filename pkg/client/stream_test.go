package client_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"testing/iotest"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/blaseref/pkg/client"
	"github.com/okian/blaseref/pkg/logger"
	"github.com/okian/blaseref/pkg/metrics"
)

// trackedBody counts bytes read and records Close.
type trackedBody struct {
	r      io.Reader
	read   atomic.Int64
	closed atomic.Bool
}

func (b *trackedBody) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	b.read.Add(int64(n))
	return n, err
}

func (b *trackedBody) Close() error {
	b.closed.Store(true)
	return nil
}

// bodyDoer answers every request with the same tracked body, with status
// 200 unless set.
type bodyDoer struct {
	body   *trackedBody
	status int
}

func (d bodyDoer) Do(req *http.Request) (*http.Response, error) {
	status := d.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       d.body,
		Header:     http.Header{},
		Request:    req,
	}, nil
}

func streamClient(payload string) (*client.Client, *trackedBody) {
	body := &trackedBody{r: strings.NewReader(payload)}
	c, err := client.New(
		client.WithBaseURL("http://stats.test"),
		client.WithHTTPClient(bodyDoer{body: body}),
		client.WithLogger(logger.Discard()),
		client.WithMetrics(metrics.NewManager(metrics.WithMetricsEnabled(false))),
	)
	So(err, ShouldBeNil)
	return c, body
}

func TestEventStream(t *testing.T) {
	Convey("Given a streamed event list", t, func() {
		ctx := context.Background()
		q := client.EventsQuery{GameIDs: client.ID("g")}

		Convey("When it is fully consumed", func() {
			c, body := streamClient(`{"count":3,"results":[{"id":1},{"id":2},{"id":3}],"next":null}`)
			stream, err := c.StreamEvents(ctx, q)
			So(err, ShouldBeNil)

			var ids []int64
			for e, err := range stream.All() {
				So(err, ShouldBeNil)
				ids = append(ids, e.ID)
			}

			Convey("Then events arrive in response order and the body is closed", func() {
				So(ids, ShouldResemble, []int64{1, 2, 3})
				So(body.closed.Load(), ShouldBeTrue)
			})

			Convey("And a second pass reports the stream as consumed", func() {
				var errs []error
				for _, err := range stream.All() {
					errs = append(errs, err)
				}
				So(len(errs), ShouldEqual, 1)
				So(errors.Is(errs[0], client.ErrStreamConsumed), ShouldBeTrue)
			})
		})

		Convey("When the list is a bare array", func() {
			c, _ := streamClient(`[{"id":7}]`)
			stream, err := c.StreamEvents(ctx, q)
			So(err, ShouldBeNil)

			n := 0
			for e, err := range stream.All() {
				So(err, ShouldBeNil)
				So(e.ID, ShouldEqual, int64(7))
				n++
			}
			So(n, ShouldEqual, 1)
		})

		Convey("When the caller stops early", func() {
			payload := `{"results":[{"id":1},` + strings.Repeat(`{"id":2,"event_text":"`+strings.Repeat("x", 512)+`"},`, 200) + `{"id":3}]}`
			c, body := streamClient(payload)
			stream, err := c.StreamEvents(ctx, q)
			So(err, ShouldBeNil)

			for e, err := range stream.All() {
				So(err, ShouldBeNil)
				So(e.ID, ShouldEqual, int64(1))
				break
			}

			Convey("Then the rest of the body is left unread and the body is closed", func() {
				So(body.read.Load(), ShouldBeLessThan, int64(len(payload)))
				So(body.closed.Load(), ShouldBeTrue)
			})
		})

		Convey("When an element fails to decode", func() {
			c, _ := streamClient(`{"results":[{"id":1},{"game_id":"x"},{"id":3}]}`)
			stream, err := c.StreamEvents(ctx, q)
			So(err, ShouldBeNil)

			var ids []int64
			var failure error
			for e, err := range stream.All() {
				if err != nil {
					failure = err
					continue
				}
				ids = append(ids, e.ID)
			}

			Convey("Then earlier events are kept and iteration ends on the error", func() {
				So(ids, ShouldResemble, []int64{1})
				So(errors.Is(failure, client.ErrDecode), ShouldBeTrue)
			})
		})

		Convey("When the body has no result list", func() {
			c, _ := streamClient(`{"message":"nothing here"}`)
			stream, err := c.StreamEvents(ctx, q)
			So(err, ShouldBeNil)

			var failure error
			for _, err := range stream.All() {
				failure = err
			}
			So(errors.Is(failure, client.ErrDecode), ShouldBeTrue)
		})

		Convey("When the body or its results are null", func() {
			for _, payload := range []string{`null`, `{"results":null}`} {
				c, _ := streamClient(payload)
				stream, err := c.StreamEvents(ctx, q)
				So(err, ShouldBeNil)

				var errs []error
				for _, err := range stream.All() {
					errs = append(errs, err)
				}
				So(len(errs), ShouldEqual, 1)
				So(errors.Is(errs[0], client.ErrDecode), ShouldBeTrue)
			}
		})

		Convey("When the stream is closed before use", func() {
			c, body := streamClient(`[{"id":1}]`)
			stream, err := c.StreamEvents(ctx, q)
			So(err, ShouldBeNil)
			So(stream.Close(), ShouldBeNil)
			So(stream.Close(), ShouldBeNil)
			So(body.closed.Load(), ShouldBeTrue)

			for _, err := range stream.All() {
				So(errors.Is(err, client.ErrStreamConsumed), ShouldBeTrue)
			}
		})

		Convey("When no filter is given", func() {
			c, body := streamClient(`[]`)
			_, err := c.StreamEvents(ctx, client.EventsQuery{})
			So(errors.Is(err, client.ErrMissingArgument), ShouldBeTrue)
			So(body.read.Load(), ShouldEqual, int64(0))
		})
	})
}

var errConnReset = errors.New("read tcp 10.0.0.2:51234->10.0.0.1:443: connection reset by peer")

// cutClient serves prefix and then fails every further read with cause.
func cutClient(prefix string, cause error, opts ...client.Option) (*client.Client, *trackedBody, *prometheus.Registry) {
	body := &trackedBody{r: io.MultiReader(strings.NewReader(prefix), iotest.ErrReader(cause))}
	reg := prometheus.NewRegistry()
	base := []client.Option{
		client.WithBaseURL("http://stats.test"),
		client.WithHTTPClient(bodyDoer{body: body}),
		client.WithLogger(logger.Discard()),
		client.WithMetrics(metrics.NewManager(metrics.WithPrometheusRegistry(reg))),
	}
	c, err := client.New(append(base, opts...)...)
	So(err, ShouldBeNil)
	return c, body, reg
}

func errorCount(reg *prometheus.Registry, endpoint, kind string) float64 {
	families, err := reg.Gather()
	So(err, ShouldBeNil)
	for _, mf := range families {
		if mf.GetName() != "blaseref_client_errors_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["endpoint"] == endpoint && labels["kind"] == kind {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestInterruptedBody(t *testing.T) {
	Convey("Given a connection that drops partway through a success body", t, func() {
		ctx := context.Background()
		q := client.EventsQuery{GameIDs: client.ID("g")}
		prefix := `{"results": [{"id": 1}, {"id": 2`

		Convey("When events are decoded eagerly", func() {
			c, body, reg := cutClient(prefix, errConnReset)
			events, err := c.Events(ctx, q)

			Convey("Then the read error surfaces as it is, not as a decode error", func() {
				So(events, ShouldBeNil)
				So(errors.Is(err, errConnReset), ShouldBeTrue)
				So(errors.Is(err, client.ErrDecode), ShouldBeFalse)
				var cerr *client.Error
				So(errors.As(err, &cerr), ShouldBeFalse)
				So(body.closed.Load(), ShouldBeTrue)
			})

			Convey("And it is counted as a transport failure", func() {
				So(errorCount(reg, "events", metrics.KindTransport), ShouldEqual, 1.0)
				So(errorCount(reg, "events", metrics.KindDecode), ShouldEqual, 0.0)
			})
		})

		Convey("When an aggregate is decoded", func() {
			c, _, _ := cutClient(`{"results": [{"batter_id": "a", "count": 1}, {"batter_id": "b"`, errConnReset)
			_, err := c.Hits(ctx, client.StatQuery{})
			So(errors.Is(err, errConnReset), ShouldBeTrue)
			So(errors.Is(err, client.ErrDecode), ShouldBeFalse)
		})

		Convey("When events are streamed", func() {
			c, body, reg := cutClient(prefix, errConnReset)
			stream, err := c.StreamEvents(ctx, q)
			So(err, ShouldBeNil)

			var ids []int64
			var errs []error
			for e, err := range stream.All() {
				if err != nil {
					errs = append(errs, err)
					continue
				}
				ids = append(ids, e.ID)
			}

			Convey("Then events before the cut arrive and the read error ends iteration", func() {
				So(ids, ShouldResemble, []int64{1})
				So(len(errs), ShouldEqual, 1)
				So(errors.Is(errs[0], errConnReset), ShouldBeTrue)
				So(errors.Is(errs[0], client.ErrDecode), ShouldBeFalse)
				So(body.closed.Load(), ShouldBeTrue)
				So(errorCount(reg, "events", metrics.KindTransport), ShouldEqual, 1.0)
			})
		})

		Convey("When the cut falls between two streamed events", func() {
			c, _, _ := cutClient(`{"results": [{"id": 1}`, errConnReset)
			stream, err := c.StreamEvents(ctx, q)
			So(err, ShouldBeNil)

			var ids []int64
			var failure error
			for e, err := range stream.All() {
				if err != nil {
					failure = err
					continue
				}
				ids = append(ids, e.ID)
			}

			Convey("Then the stream does not end as if the list were complete", func() {
				So(ids, ShouldResemble, []int64{1})
				So(errors.Is(failure, errConnReset), ShouldBeTrue)
			})
		})

		Convey("When the body simply stops short", func() {
			c, _, reg := cutClient(prefix, io.EOF)

			_, err := c.Events(ctx, q)
			So(errors.Is(err, client.ErrDecode), ShouldBeTrue)
			So(errors.Is(err, io.ErrUnexpectedEOF), ShouldBeTrue)
			So(errorCount(reg, "events", metrics.KindDecode), ShouldEqual, 1.0)
		})

		Convey("When a streamed body simply stops short", func() {
			c, _, _ := cutClient(`{"results": [{"id": 1}`, io.EOF)
			stream, err := c.StreamEvents(ctx, q)
			So(err, ShouldBeNil)

			var failure error
			for _, err := range stream.All() {
				failure = err
			}
			So(errors.Is(failure, client.ErrDecode), ShouldBeTrue)
		})
	})
}

func TestErrorBodyReadFailure(t *testing.T) {
	Convey("Given an error response whose body cannot be read in full", t, func() {
		var buf bytes.Buffer
		body := &trackedBody{r: io.MultiReader(strings.NewReader(`{"error":"bad gat`), iotest.ErrReader(errConnReset))}
		c, err := client.New(
			client.WithBaseURL("http://stats.test"),
			client.WithHTTPClient(bodyDoer{body: body, status: http.StatusBadGateway}),
			client.WithLogger(logger.New(&buf)),
			client.WithMetrics(metrics.NewManager(metrics.WithMetricsEnabled(false))),
		)
		So(err, ShouldBeNil)

		_, err = c.ERA(context.Background(), client.StatQuery{})

		Convey("Then the HTTP error keeps what arrived and the read error", func() {
			var herr *client.HTTPError
			So(errors.As(err, &herr), ShouldBeTrue)
			So(herr.StatusCode, ShouldEqual, http.StatusBadGateway)
			So(herr.Body, ShouldEqual, `{"error":"bad gat`)
			So(errors.Is(herr.BodyErr, errConnReset), ShouldBeTrue)
			So(body.closed.Load(), ShouldBeTrue)
		})

		Convey("And the warning notes the read failure", func() {
			So(buf.String(), ShouldContainSubstring, "non-success status")
			So(buf.String(), ShouldContainSubstring, "body_read_error=")
			So(buf.String(), ShouldContainSubstring, "connection reset by peer")
		})
	})

	Convey("Given an error response read in full", t, func() {
		var buf bytes.Buffer
		body := &trackedBody{r: strings.NewReader(`{"error":"down"}`)}
		c, err := client.New(
			client.WithBaseURL("http://stats.test"),
			client.WithHTTPClient(bodyDoer{body: body, status: http.StatusServiceUnavailable}),
			client.WithLogger(logger.New(&buf)),
			client.WithMetrics(metrics.NewManager(metrics.WithMetricsEnabled(false))),
		)
		So(err, ShouldBeNil)

		_, err = c.ERA(context.Background(), client.StatQuery{})
		var herr *client.HTTPError
		So(errors.As(err, &herr), ShouldBeTrue)
		So(herr.BodyErr, ShouldBeNil)
		So(buf.String(), ShouldNotContainSubstring, "body_read_error")
	})
}
