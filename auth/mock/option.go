package mock

import "time"

type Option func(*AuthorizationService)

// WithClient sets client credentials.
func WithClient(clientID, clientSecret string) Option {
	return func(s *AuthorizationService) {
		s.ClientID = clientID
		s.ClientSecret = clientSecret
	}
}

// WithRefreshTokenRotation enables refresh token rotation.
func WithRefreshTokenRotation() Option {
	return func(s *AuthorizationService) {
		s.RotateRefreshToken = true
	}
}

// WithExchangeDelay delays every token endpoint response.
func WithExchangeDelay(delay time.Duration) Option {
	return func(s *AuthorizationService) {
		s.ExchangeDelay = delay
	}
}

// WithAccessTokenTTL sets the lifetime of issued access tokens; a negative
// value issues tokens that are already expired.
func WithAccessTokenTTL(ttl time.Duration) Option {
	return func(s *AuthorizationService) {
		s.AccessTokenTTL = ttl
	}
}
