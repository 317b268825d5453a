// Package api is a minimal X v2 API client. Every call goes through an
// auth/transport RoundTripper, so the bearer credential is attached, and
// refreshed once on 401, without per-endpoint logic.
package api
