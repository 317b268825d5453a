package auth

import (
	"log/slog"
	"net/http"

	"github.com/viant/xapi/auth/flow"
	"github.com/viant/xapi/auth/store"
)

type Option func(*Manager)

// WithSink sets the persistence collaborator receiving acquired credentials.
func WithSink(sink store.Sink) Option {
	return func(m *Manager) {
		m.sink = sink
	}
}

// WithFlow sets the interactive authorization flow.
func WithFlow(flow flow.Flow) Option {
	return func(m *Manager) {
		m.flow = flow
	}
}

// WithFlowOptions sets options passed to every interactive exchange.
func WithFlowOptions(options ...flow.Option) Option {
	return func(m *Manager) {
		m.flowOptions = append(m.flowOptions, options...)
	}
}

// WithRefreshToken sets the initial refresh credential.
func WithRefreshToken(refreshToken string) Option {
	return func(m *Manager) {
		m.refreshToken = refreshToken
	}
}

// WithBearer seeds the slot with a previously acquired bearer credential.
func WithBearer(bearer string) Option {
	return func(m *Manager) {
		m.bearer = bearer
	}
}

// WithHTTPClient sets the client used for token endpoint calls.
func WithHTTPClient(client *http.Client) Option {
	return func(m *Manager) {
		m.httpClient = client
	}
}

// WithLogger sets logger
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}
