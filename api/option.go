package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

type Option func(*Client)

// WithBaseURL sets the API base URL.
func WithBaseURL(URL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(URL, "/")
	}
}

// WithTransport sets the transport underneath the authenticating RoundTripper.
func WithTransport(transport http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = transport
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}
