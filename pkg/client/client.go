// Package client is a thin, read-only client for the Blaseball Reference
// statistics API. Every accessor performs one GET request and decodes the
// response into the types of package model or into plain identifier maps.
//
// A Client holds no mutable state after New returns and is safe for
// concurrent use.
package client

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/okian/blaseref/pkg/config"
	"github.com/okian/blaseref/pkg/logger"
	"github.com/okian/blaseref/pkg/metrics"
)

// Client issues requests against one API host and version.
type Client struct {
	baseURL    string
	apiVersion string
	userAgent  string
	http       Doer
	log        logger.Logger
	metrics    *metrics.Manager
}

// New creates a Client for the public API. Options override the defaults.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:    config.DefaultBaseURL,
		apiVersion: config.DefaultAPIVersion,
		userAgent:  config.DefaultUserAgent,
		http:       http.DefaultClient,
		metrics:    metrics.Default(),
	}
	if logger.Initialized() {
		c.log = logger.Named("blaseref")
	} else {
		c.log = logger.Discard()
	}

	for _, opt := range opts {
		opt(c)
	}

	u, err := url.Parse(c.baseURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: base url %q", ErrInvalidArgument, c.baseURL)
	}
	c.baseURL = strings.TrimRight(c.baseURL, "/")
	c.apiVersion = strings.Trim(c.apiVersion, "/")

	return c, nil
}

// NewFromConfig creates a Client from a loaded configuration. Options are
// applied after the configuration and win over it.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	base := []Option{
		WithBaseURL(cfg.BaseURL),
		WithAPIVersion(cfg.APIVersion),
		WithUserAgent(cfg.UserAgent),
		WithHTTPClient(&http.Client{Timeout: cfg.Timeout()}),
	}
	if !cfg.MetricsEnabled {
		base = append(base, WithMetrics(metrics.NewManager(metrics.WithMetricsEnabled(false))))
	}
	return New(append(base, opts...)...)
}

// endpointURL returns {base}/{version}/{endpoint}?{params}.
func (c *Client) endpointURL(endpoint string, params url.Values) string {
	u := c.baseURL + "/" + c.apiVersion + "/" + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}
