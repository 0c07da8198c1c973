package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/okian/blaseref/pkg/logger"
	"github.com/okian/blaseref/pkg/metrics"
)

// Constants for the transport.
const (
	headerRequestID = "X-Request-ID"
	maxErrorBody    = 64 << 10
)

// get performs one GET against endpoint. On success the caller owns the
// response body. Any non-2xx status is returned as *HTTPError with the body
// already read and closed. Transport failures are returned as they are.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (*http.Response, error) {
	target := c.endpointURL(endpoint, params)
	requestID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(headerRequestID, requestID)

	c.log.Debug(ctx, "request",
		logger.String("endpoint", endpoint),
		logger.String("url", target),
		logger.String("request_id", requestID),
	)

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.log.Error(ctx, "request failed",
			logger.String("endpoint", endpoint),
			logger.String("request_id", requestID),
			logger.Duration("elapsed", elapsed),
			logger.Error(err),
		)
		return nil, err
	}
	c.metrics.RecordRequest(endpoint, resp.StatusCode, elapsed)

	c.log.Debug(ctx, "response",
		logger.String("endpoint", endpoint),
		logger.String("request_id", requestID),
		logger.Int("status", resp.StatusCode),
		logger.Duration("elapsed", elapsed),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		herr := &HTTPError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
			BodyErr:    readErr,
		}
		fields := []logger.Field{
			logger.String("endpoint", endpoint),
			logger.String("request_id", requestID),
			logger.Int("status", resp.StatusCode),
		}
		if readErr != nil {
			fields = append(fields, logger.String("body_read_error", readErr.Error()))
		}
		c.log.Warn(ctx, "non-success status", fields...)
		return nil, herr
	}
	return resp, nil
}

// fail counts err against endpoint and returns it unchanged.
func (c *Client) fail(ctx context.Context, endpoint string, err error) error {
	c.countError(ctx, endpoint, errorKind(err))
	return err
}

func (c *Client) countError(ctx context.Context, endpoint, kind string) {
	if err := c.metrics.RecordError(endpoint, kind); err != nil {
		c.log.Debug(ctx, "error not counted",
			logger.String("endpoint", endpoint),
			logger.String("kind", kind),
			logger.Error(err),
		)
	}
}

// errorKind maps an accessor error to its errors_total label.
func errorKind(err error) string {
	var herr *HTTPError
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return metrics.KindInvalidArgument
	case errors.Is(err, ErrMissingArgument):
		return metrics.KindMissingArgument
	case errors.Is(err, ErrConfirmationRequired):
		return metrics.KindConfirmationRequired
	case errors.As(err, &herr):
		return metrics.KindHTTP
	case errors.Is(err, ErrDecode):
		return metrics.KindDecode
	default:
		return metrics.KindTransport
	}
}
