// Package mock provides an in-process OAuth 2.0 authorization server and X v2
// API stub that facilitate testing of the credential lifecycle.
//
// The server supports the refresh_token and authorization_code (PKCE S256)
// grants, counts token endpoint calls per grant and lets tests revoke
// credentials to simulate server-side expiry.
package mock
