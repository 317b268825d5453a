// Package flow implements the interactive OAuth 2.0 authorization-code
// exchange with PKCE (S256).
//
// TerminalFlow prints the authorization URL and waits for the operator to paste
// back the authorization code (or the whole redirect URL). HeadlessFlow is a
// drop-in replacement for environments without an operator; it always fails
// with ErrInteractiveUnavailable.
package flow
