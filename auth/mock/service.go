package mock

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/viant/xapi/internal/collection"
)

const (
	GrantRefreshToken      = "refresh_token"
	GrantAuthorizationCode = "authorization_code"
)

// authorizationCode is an issued, not yet redeemed, authorization code.
type authorizationCode struct {
	challenge   string
	redirectURI string
}

// AuthorizationService simulates an OAuth2 authorization server guarding the X v2 API.
type AuthorizationService struct {
	PrivateKey       *rsa.PrivateKey
	Issuer           string
	ClientID         string
	ClientSecret     string
	AuthorizedScopes []string
	AccessTokenTTL   time.Duration
	// RotateRefreshToken issues a new refresh token on every refresh grant and revokes the old one.
	RotateRefreshToken bool
	// ExchangeDelay slows down token endpoint responses.
	ExchangeDelay time.Duration

	TokenHandler     func(w http.ResponseWriter, r *http.Request)
	AuthorizeHandler func(w http.ResponseWriter, r *http.Request)
	TweetsHandler    func(w http.ResponseWriter, r *http.Request)
	MeHandler        func(w http.ResponseWriter, r *http.Request)

	refreshTokens *collection.SyncMap[string, bool]
	accessTokens  *collection.SyncMap[string, bool]
	codes         *collection.SyncMap[string, *authorizationCode]

	mux          sync.Mutex
	issued       []string
	rateLimited  atomic.Bool
	refreshCalls atomic.Int64
	codeCalls    atomic.Int64
	apiCalls     atomic.Int64
}

// NewAuthorizationService creates a new mock OAuth2 authorization server
func NewAuthorizationService(opts ...Option) (*AuthorizationService, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA key: %v", err)
	}
	service := &AuthorizationService{
		PrivateKey:       privateKey,
		ClientID:         "test_client_id",
		ClientSecret:     "test_client_secret",
		AuthorizedScopes: []string{"tweet.read", "tweet.write", "users.read", "offline.access"},
		AccessTokenTTL:   2 * time.Hour,
		refreshTokens:    collection.NewSyncMap[string, bool](),
		accessTokens:     collection.NewSyncMap[string, bool](),
		codes:            collection.NewSyncMap[string, *authorizationCode](),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// Register registers HTTP handlers for all mock endpoints onto the given ServeMux.
func (m *AuthorizationService) Register(mux *http.ServeMux) {
	mux.Handle("/", &Handler{Server: m})
}

// Handler returns an http.Handler for all mock endpoints, suitable for any HTTP server.
func (m *AuthorizationService) Handler() http.Handler {
	mux := http.NewServeMux()
	m.Register(mux)
	return mux
}

// IssueRefreshToken registers and returns a refresh token accepted by the token endpoint.
func (m *AuthorizationService) IssueRefreshToken() (string, error) {
	token, err := m.mint(useRefresh, 30*24*time.Hour)
	if err != nil {
		return "", err
	}
	m.refreshTokens.Put(token, true)
	return token, nil
}

// IssueAccessToken registers and returns an access token accepted by the API endpoints.
func (m *AuthorizationService) IssueAccessToken() (string, error) {
	token, err := m.mint(useAccess, m.AccessTokenTTL)
	if err != nil {
		return "", err
	}
	m.accessTokens.Put(token, true)
	m.mux.Lock()
	m.issued = append(m.issued, token)
	m.mux.Unlock()
	return token, nil
}

// IssueCode registers an authorization code bound to a PKCE S256 challenge.
func (m *AuthorizationService) IssueCode(challenge, redirectURI string) string {
	code := newID()
	m.codes.Put(code, &authorizationCode{challenge: challenge, redirectURI: redirectURI})
	return code
}

// RevokeAccessTokens invalidates every issued access token, as an expiry would.
func (m *AuthorizationService) RevokeAccessTokens() {
	m.accessTokens.Clear()
}

// RevokeRefreshTokens invalidates every issued refresh token.
func (m *AuthorizationService) RevokeRefreshTokens() {
	m.refreshTokens.Clear()
}

// IsValidAccessToken reports whether token is issued, not revoked and not expired.
func (m *AuthorizationService) IsValidAccessToken(token string) bool {
	if _, ok := m.accessTokens.Get(token); !ok {
		return false
	}
	return m.verify(token, useAccess) == nil
}

// IsValidRefreshToken reports whether token is issued, not revoked and not expired.
func (m *AuthorizationService) IsValidRefreshToken(token string) bool {
	if _, ok := m.refreshTokens.Get(token); !ok {
		return false
	}
	return m.verify(token, useRefresh) == nil
}

// SetRateLimited makes the API endpoints answer 429.
func (m *AuthorizationService) SetRateLimited(limited bool) {
	m.rateLimited.Store(limited)
}

// IssuedAccessTokens returns the access tokens minted so far, oldest first.
func (m *AuthorizationService) IssuedAccessTokens() []string {
	m.mux.Lock()
	defer m.mux.Unlock()
	return append([]string{}, m.issued...)
}

// TokenCalls returns the number of token endpoint requests for grantType.
func (m *AuthorizationService) TokenCalls(grantType string) int {
	switch grantType {
	case GrantRefreshToken:
		return int(m.refreshCalls.Load())
	case GrantAuthorizationCode:
		return int(m.codeCalls.Load())
	}
	return int(m.refreshCalls.Load() + m.codeCalls.Load())
}

// APICalls returns the number of API endpoint requests.
func (m *AuthorizationService) APICalls() int {
	return int(m.apiCalls.Load())
}
