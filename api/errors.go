package api

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnauthorized is returned when the API rejects the credential even after a refresh.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRateLimited is returned on 429 Too Many Requests.
	ErrRateLimited = errors.New("rate limited")
)

// RateLimitError carries the rate limit headers of a 429 response.
type RateLimitError struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

func (e *RateLimitError) Error() string {
	if e.Reset.IsZero() {
		return ErrRateLimited.Error()
	}
	return fmt.Sprintf("%v: resets at %v", ErrRateLimited, e.Reset.UTC().Format(time.RFC3339))
}

func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// APIError is the structured problem returned by the API.
type APIError struct {
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
	Type   string `json:"type"`
	Status int    `json:"status"`
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api error %d: %v", e.Status, e.Title)
	}
	return fmt.Sprintf("api error %d: %v: %v", e.Status, e.Title, e.Detail)
}

// OpaqueError is returned for failures without a structured body.
type OpaqueError struct {
	StatusCode int
	Body       string
}

func (e *OpaqueError) Error() string {
	return fmt.Sprintf("unexpected status %d: %v", e.StatusCode, e.Body)
}
