package flow

import "errors"

var (
	// ErrEmptyAuthorizationCode is returned when the operator submits a blank code.
	ErrEmptyAuthorizationCode = errors.New("authorization code cannot be empty")
	// ErrExchangeRejected is returned when the token endpoint rejects an exchange.
	ErrExchangeRejected = errors.New("token exchange rejected")
	// ErrInteractiveUnavailable is returned by flows that cannot reach an operator.
	ErrInteractiveUnavailable = errors.New("interactive authorization unavailable")
	// ErrStateMismatch is returned when a pasted redirect URL carries a foreign state.
	ErrStateMismatch = errors.New("authorization state mismatch")
)
