// Package transport implements an http.RoundTripper that attaches the bearer
// credential of an auth.Manager to outgoing requests.
//
// When the server answers 401 Unauthorized the RoundTripper forces a credential
// refresh and replays the request exactly once. A second 401 is returned to the
// caller as is.
package transport
