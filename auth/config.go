package auth

import "golang.org/x/oauth2"

const (
	DefaultRedirectURL = "http://localhost:8080/callback"
	DefaultAPIBaseURL  = "https://api.x.com"
)

// DefaultScopes are requested by the interactive flow; offline.access makes
// the server issue a refresh credential.
var DefaultScopes = []string{"tweet.read", "tweet.write", "users.read", "offline.access"}

// Endpoint is the X OAuth 2.0 endpoint. Confidential clients authenticate with HTTP Basic.
var Endpoint = oauth2.Endpoint{
	AuthURL:   "https://x.com/i/oauth2/authorize",
	TokenURL:  "https://api.x.com/2/oauth2/token",
	AuthStyle: oauth2.AuthStyleInHeader,
}

// NewConfig returns an oauth2.Config for the X endpoint with the default redirect URL and scopes.
func NewConfig(clientID, clientSecret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     Endpoint,
		RedirectURL:  DefaultRedirectURL,
		Scopes:       append([]string{}, DefaultScopes...),
	}
}
