// Package auth manages the OAuth 2.0 bearer credential used by outbound X v2
// API calls.
//
// A Manager is the single source of truth for the current credential. It serves
// the cached bearer when present, otherwise runs an acquisition under exclusive
// access: a refresh_token exchange first, then the interactive
// authorization-code flow with PKCE. At most one acquisition runs at a time;
// callers that arrive while one is in flight wait and receive its result.
//
// The request layer calls Authenticate before each call and ForceRefresh once
// after a 401, see package auth/transport.
package auth
