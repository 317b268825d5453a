package store

import (
	"context"
	"time"
)

// Record is a persisted credential pair.
type Record struct {
	BearerToken  string    `json:"bearer_token,omitempty" yaml:"bearerToken,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty" yaml:"refreshToken,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty" yaml:"updatedAt,omitempty"`
}

// merge applies a newly acquired pair; an empty refresh keeps the previous one.
func (r *Record) merge(bearer, refresh string) {
	r.BearerToken = bearer
	if refresh != "" {
		r.RefreshToken = refresh
	}
	r.UpdatedAt = time.Now().UTC()
}

// Sink receives credentials whenever an acquisition succeeds.
type Sink interface {
	// Save records bearer and, when not empty, refresh.
	Save(ctx context.Context, bearer, refresh string) error
	// Load returns the last saved record, or nil when nothing was saved yet.
	Load(ctx context.Context) (*Record, error)
}
