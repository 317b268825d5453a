package auth

import (
	"errors"

	"github.com/viant/xapi/auth/flow"
)

var (
	// ErrNoRefreshCredential is returned by refresh-only paths when the manager holds no refresh credential.
	ErrNoRefreshCredential = errors.New("no refresh credential available")
	// ErrAuthentication is returned when neither refresh nor interactive acquisition produced a credential.
	ErrAuthentication = errors.New("authentication failed")

	ErrExchangeRejected       = flow.ErrExchangeRejected
	ErrEmptyAuthorizationCode = flow.ErrEmptyAuthorizationCode
	ErrInteractiveUnavailable = flow.ErrInteractiveUnavailable
)
