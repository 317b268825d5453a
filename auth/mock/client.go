package mock

import (
	"github.com/viant/afs/url"
	"golang.org/x/oauth2"
)

// NewTestConfig returns an oauth2.Config pointing at the mock server issuer.
func NewTestConfig(issuer string) *oauth2.Config {
	return &oauth2.Config{ClientID: "test_client_id", ClientSecret: "test_client_secret", Endpoint: oauth2.Endpoint{
		AuthURL:   url.Join(issuer, "i/oauth2/authorize"),
		TokenURL:  url.Join(issuer, "2/oauth2/token"),
		AuthStyle: oauth2.AuthStyleInHeader,
	}, Scopes: []string{"tweet.read", "tweet.write", "users.read", "offline.access"}, RedirectURL: "http://localhost:8080/callback"}
}
