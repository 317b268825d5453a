package mock

import (
	"net/http/httptest"
	"sync"

	"github.com/viant/afs/url"
	"golang.org/x/oauth2"
)

// HTTPTestAuthorizationServer serves an AuthorizationService on a loopback
// address; the service issuer is the server base URL.
type HTTPTestAuthorizationServer struct {
	*AuthorizationService
	Issuer     string
	httpServer *httptest.Server
	closeOnce  sync.Once
}

// URL joins elements to the server base URL.
func (s *HTTPTestAuthorizationServer) URL(elements ...string) string {
	return url.Join(s.Issuer, elements...)
}

// Config returns a client configuration registered with the server.
func (s *HTTPTestAuthorizationServer) Config() *oauth2.Config {
	return NewTestConfig(s.Issuer)
}

// Close stops the server; it is safe to call more than once.
func (s *HTTPTestAuthorizationServer) Close() {
	s.closeOnce.Do(s.httpServer.Close)
}

// NewHTTPTestAuthorizationServer starts a server for a new AuthorizationService.
func NewHTTPTestAuthorizationServer(opts ...Option) (*HTTPTestAuthorizationServer, error) {
	service, err := NewAuthorizationService(opts...)
	if err != nil {
		return nil, err
	}
	httpServer := httptest.NewServer(service.Handler())
	service.Issuer = httpServer.URL
	return &HTTPTestAuthorizationServer{
		AuthorizationService: service,
		Issuer:               httpServer.URL,
		httpServer:           httpServer,
	}, nil
}
