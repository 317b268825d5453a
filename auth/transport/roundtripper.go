package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// maxAttempts bounds the request to the original attempt plus one retry after a forced refresh.
const maxAttempts = 2

// ErrRetryBudgetExceeded signals that the attempt loop ended without producing a response.
var ErrRetryBudgetExceeded = errors.New("retry budget exceeded")

// Authenticator supplies bearer credentials.
type Authenticator interface {
	Authenticate(ctx context.Context) (string, error)
	ForceRefresh(ctx context.Context) (string, error)
}

type RoundTripper struct {
	authenticator Authenticator
	transport     http.RoundTripper
	logger        *slog.Logger
}

func (r *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	body, err := readBody(req)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	bearer, err := r.authenticator.Authenticate(ctx)
	if err != nil {
		return nil, err
	}
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		attemptReq := clone(req, body)
		attemptReq.Header.Set("Authorization", "Bearer "+bearer)
		resp, err := r.transport.RoundTrip(attemptReq)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusUnauthorized || attempt == maxAttempts {
			if resp.StatusCode == http.StatusUnauthorized {
				r.logger.Warn("credential rejected after refresh", "method", req.Method, "url", req.URL.Redacted())
			}
			return resp, nil
		}
		drain(resp)
		r.logger.Info("credential rejected, forcing refresh", "method", req.Method, "url", req.URL.Redacted())
		if bearer, err = r.authenticator.ForceRefresh(ctx); err != nil {
			return nil, fmt.Errorf("failed to refresh credential: %w", err)
		}
	}
	return nil, ErrRetryBudgetExceeded
}

// New creates a RoundTripper authenticating requests with authenticator.
func New(authenticator Authenticator, options ...Option) *RoundTripper {
	ret := &RoundTripper{
		authenticator: authenticator,
		transport:     http.DefaultTransport,
		logger:        slog.Default(),
	}
	for _, opt := range options {
		opt(ret)
	}
	ret.logger = ret.logger.With("component", "transport")
	return ret
}
