// Package config defines the client configuration and its loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and the environment over those defaults.
// - External errors are wrapped with this package's sentinels.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Defaults for the public statistics API.
const (
	DefaultBaseURL    = "https://api.blaseball-reference.com"
	DefaultAPIVersion = "v1"
	DefaultUserAgent  = "blaseref-go"
)

// Config contains client configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// BaseURL is the API host, without the version segment.
	BaseURL string `koanf:"base_url"`

	// APIVersion is the path segment placed between host and endpoint.
	APIVersion string `koanf:"api_version"`

	// TimeoutMS bounds each request. Zero disables the client-side timeout.
	TimeoutMS int `koanf:"timeout_ms"`

	// UserAgent is sent with every request.
	UserAgent string `koanf:"user_agent"`

	// MetricsEnabled turns the Prometheus series on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		BaseURL:        DefaultBaseURL,
		APIVersion:     DefaultAPIVersion,
		TimeoutMS:      30_000,
		UserAgent:      DefaultUserAgent,
		MetricsEnabled: true,
	}
}

// Timeout returns TimeoutMS as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// Validate checks the fields a client cannot work without.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("%w: base_url: %w", ErrInvalidConfig, err)
	}
	if !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: base_url must be an absolute http(s) URL, got %q", ErrInvalidConfig, c.BaseURL)
	}
	if c.APIVersion == "" {
		return fmt.Errorf("%w: api_version must not be empty", ErrInvalidConfig)
	}
	if c.TimeoutMS < 0 {
		return fmt.Errorf("%w: timeout_ms must not be negative, got %d", ErrInvalidConfig, c.TimeoutMS)
	}
	return nil
}
