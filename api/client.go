package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/viant/xapi/auth"
	"github.com/viant/xapi/auth/transport"
)

// Client calls the X v2 API on behalf of one authenticated user.
type Client struct {
	baseURL    string
	transport  http.RoundTripper
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// do sends a JSON request and decodes a 2xx response into result.
func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%v %v: %w", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err = checkResponse(resp, data); err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "status", resp.StatusCode, "error", err)
		return err
	}
	if result == nil || len(data) == 0 {
		return nil
	}
	if err = json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// checkResponse maps a non-2xx response to an error.
func checkResponse(resp *http.Response, data []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %v", ErrUnauthorized, strings.TrimSpace(string(data)))
	case http.StatusTooManyRequests:
		return rateLimitError(resp.Header)
	}
	apiErr := &APIError{}
	if err := json.Unmarshal(data, apiErr); err == nil && apiErr.Title != "" && apiErr.Type != "" && apiErr.Status != 0 {
		return apiErr
	}
	return &OpaqueError{StatusCode: resp.StatusCode, Body: string(data)}
}

func rateLimitError(header http.Header) *RateLimitError {
	ret := &RateLimitError{}
	ret.Limit, _ = strconv.Atoi(header.Get("x-rate-limit-limit"))
	ret.Remaining, _ = strconv.Atoi(header.Get("x-rate-limit-remaining"))
	if reset, err := strconv.ParseInt(header.Get("x-rate-limit-reset"), 10, 64); err == nil {
		ret.Reset = time.Unix(reset, 0)
	}
	return ret
}

// New creates a client authenticating with authenticator, typically an *auth.Manager.
func New(authenticator transport.Authenticator, options ...Option) *Client {
	ret := &Client{
		baseURL:   auth.DefaultAPIBaseURL,
		transport: http.DefaultTransport,
		logger:    slog.Default(),
	}
	for _, opt := range options {
		opt(ret)
	}
	ret.logger = ret.logger.With("component", "api")
	ret.httpClient = &http.Client{
		Transport: transport.New(authenticator, transport.WithTransport(ret.transport), transport.WithLogger(ret.logger)),
		Timeout:   ret.timeout,
	}
	return ret
}
