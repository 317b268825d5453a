package flow

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

// Flow obtains a token through an authorization-code exchange.
type Flow interface {
	Token(ctx context.Context, config *oauth2.Config, options ...Option) (*oauth2.Token, error)
}

// exchangeConfig returns a copy of config carrying the option scopes and redirect URL.
func exchangeConfig(config *oauth2.Config, opts *Options) *oauth2.Config {
	ret := *config
	ret.Scopes = append(append([]string{}, config.Scopes...), opts.Scopes()...)
	if opts.redirectURL != "" {
		ret.RedirectURL = opts.redirectURL
	}
	return &ret
}

// buildAuthCodeURL builds the authorization URL with an S256 PKCE challenge.
func buildAuthCodeURL(config *oauth2.Config, opts *Options) string {
	var oauth2Options = []oauth2.AuthCodeOption{
		oauth2.S256ChallengeOption(opts.CodeVerifier()),
	}
	for paramName, paramValue := range opts.authURLParams {
		oauth2Options = append(oauth2Options, oauth2.SetAuthURLParam(paramName, paramValue))
	}
	return config.AuthCodeURL(opts.State(), oauth2Options...)
}

// exchange trades code and the PKCE verifier for a token.
func exchange(ctx context.Context, config *oauth2.Config, code string, opts *Options) (*oauth2.Token, error) {
	token, err := config.Exchange(ctx, code, oauth2.VerifierOption(opts.CodeVerifier()))
	if err != nil {
		return nil, fmt.Errorf("%w: authorization code: %w", ErrExchangeRejected, err)
	}
	if token == nil || token.AccessToken == "" {
		return nil, fmt.Errorf("%w: authorization code: empty access token", ErrExchangeRejected)
	}
	return token, nil
}

// parseCode extracts the authorization code from operator input, which is
// either the bare code or the redirect URL carrying code and state.
func parseCode(input, state string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrEmptyAuthorizationCode
	}
	if !strings.Contains(input, "code=") {
		return input, nil
	}
	URL, err := url.Parse(input)
	if err != nil {
		return input, nil
	}
	query := URL.Query()
	if errorMessage := query.Get("error"); errorMessage != "" {
		return "", fmt.Errorf("authorization denied: %v", errorMessage)
	}
	if received := query.Get("state"); received != "" && received != state {
		return "", fmt.Errorf("%w: expected %v, got %v", ErrStateMismatch, state, received)
	}
	code := strings.TrimSpace(query.Get("code"))
	if code == "" {
		return "", ErrEmptyAuthorizationCode
	}
	return code, nil
}
