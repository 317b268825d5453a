package auth

import "time"

const (
	MethodRefresh     = "refresh"
	MethodInteractive = "interactive"
)

// Status is a point-in-time snapshot of a Manager.
type Status struct {
	Cached               bool
	Bearer               string // masked
	HasRefreshCredential bool
	Acquisitions         int
	LastMethod           string
	LastAcquiredAt       time.Time
	// PersistErr is the last Sink failure; it is cleared by the next successful save.
	PersistErr error
}
