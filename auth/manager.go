package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/viant/xapi/auth/flow"
	"github.com/viant/xapi/auth/store"
	"github.com/viant/xapi/internal/logging"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// Manager owns the bearer credential of one OAuth 2.0 client.
type Manager struct {
	config      *oauth2.Config
	slot        *store.Slot
	sink        store.Sink
	flow        flow.Flow
	flowOptions []flow.Option
	httpClient  *http.Client
	logger      *slog.Logger
	bearer      string
	flights     singleflight.Group

	mux            sync.RWMutex
	refreshToken   string
	acquisitions   int
	lastMethod     string
	lastAcquiredAt time.Time
	persistErr     error
}

// Authenticate returns the current bearer credential, acquiring one when the
// slot is empty.
func (m *Manager) Authenticate(ctx context.Context) (string, error) {
	if bearer, ok := m.slot.Read(); ok {
		return bearer, nil
	}
	return m.run(ctx, "authenticate", func(ctx context.Context) (string, error) {
		guard := m.slot.Acquire()
		defer guard.Release()
		// filled by the acquisition we waited on
		if bearer, ok := guard.Read(); ok {
			return bearer, nil
		}
		token, method, err := m.acquire(ctx)
		if err != nil {
			m.logger.Error("credential acquisition failed", "error", err)
			return "", err
		}
		guard.Set(token.AccessToken)
		m.record(ctx, token, method)
		return token.AccessToken, nil
	})
}

// ForceRefresh discards the cached credential and acquires a new one through
// the refresh exchange only. The slot stays empty on failure. Concurrent calls
// share one exchange.
func (m *Manager) ForceRefresh(ctx context.Context) (string, error) {
	return m.run(ctx, "force-refresh", func(ctx context.Context) (string, error) {
		guard := m.slot.Acquire()
		defer guard.Release()
		guard.Clear()
		token, err := m.refresh(ctx)
		if err != nil {
			m.logger.Warn("forced refresh failed", "error", err)
			return "", err
		}
		guard.Set(token.AccessToken)
		m.record(ctx, token, MethodRefresh)
		return token.AccessToken, nil
	})
}

// Refresh replaces the cached credential using the refresh exchange. Unlike
// ForceRefresh it keeps the cached credential when the exchange fails.
func (m *Manager) Refresh(ctx context.Context) (string, error) {
	return m.run(ctx, "refresh", func(ctx context.Context) (string, error) {
		guard := m.slot.Acquire()
		defer guard.Release()
		token, err := m.refresh(ctx)
		if err != nil {
			m.logger.Warn("refresh failed, cached credential kept", "error", err)
			return "", err
		}
		guard.Set(token.AccessToken)
		m.record(ctx, token, MethodRefresh)
		return token.AccessToken, nil
	})
}

// Interactive replaces the cached credential using the interactive flow.
func (m *Manager) Interactive(ctx context.Context) (string, error) {
	return m.run(ctx, "interactive", func(ctx context.Context) (string, error) {
		guard := m.slot.Acquire()
		defer guard.Release()
		token, err := m.interactive(ctx)
		if err != nil {
			return "", err
		}
		guard.Set(token.AccessToken)
		m.record(ctx, token, MethodInteractive)
		return token.AccessToken, nil
	})
}

// run starts acquisition once per key and waits for its result. The
// acquisition runs on a context detached from ctx so it completes even when
// every waiter gives up; ctx only bounds the wait.
func (m *Manager) run(ctx context.Context, key string, acquisition func(ctx context.Context) (string, error)) (string, error) {
	detached := context.WithoutCancel(ctx)
	results := m.flights.DoChan(key, func() (interface{}, error) {
		return acquisition(detached)
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case result := <-results:
		if result.Err != nil {
			return "", result.Err
		}
		if result.Shared {
			m.logger.Debug("acquisition shared", "operation", key)
		}
		return result.Val.(string), nil
	}
}

// Invalidate empties the slot without acquiring a new credential.
func (m *Manager) Invalidate(ctx context.Context) {
	guard := m.slot.Acquire()
	defer guard.Release()
	guard.Clear()
	m.logger.Debug("credential invalidated")
}

// Restore loads credentials saved by the sink. Values already supplied through
// options take precedence.
func (m *Manager) Restore(ctx context.Context) error {
	record, err := m.sink.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore credentials: %w", err)
	}
	if record == nil {
		return nil
	}
	m.mux.Lock()
	if m.refreshToken == "" {
		m.refreshToken = record.RefreshToken
	}
	m.mux.Unlock()
	if record.BearerToken == "" {
		return nil
	}
	guard := m.slot.Acquire()
	defer guard.Release()
	if _, ok := guard.Read(); !ok {
		guard.Set(record.BearerToken)
	}
	return nil
}

// Status returns a snapshot of the manager state.
func (m *Manager) Status() *Status {
	bearer, cached := m.slot.Read()
	m.mux.RLock()
	defer m.mux.RUnlock()
	return &Status{
		Cached:               cached,
		Bearer:               logging.Mask(bearer),
		HasRefreshCredential: m.refreshToken != "",
		Acquisitions:         m.acquisitions,
		LastMethod:           m.lastMethod,
		LastAcquiredAt:       m.lastAcquiredAt,
		PersistErr:           m.persistErr,
	}
}

// RefreshToken returns the refresh credential in use, including a rotated one.
func (m *Manager) RefreshToken() string {
	m.mux.RLock()
	defer m.mux.RUnlock()
	return m.refreshToken
}

// acquire runs refresh, then the interactive flow. Callers hold the slot guard.
func (m *Manager) acquire(ctx context.Context) (*oauth2.Token, string, error) {
	token, refreshErr := m.refresh(ctx)
	if refreshErr == nil {
		return token, MethodRefresh, nil
	}
	if errors.Is(refreshErr, ErrNoRefreshCredential) {
		m.logger.Debug("no refresh credential, falling back to interactive flow")
	} else {
		m.logger.Warn("refresh failed, falling back to interactive flow", "error", refreshErr)
	}
	token, err := m.interactive(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrAuthentication, errors.Join(refreshErr, err))
	}
	return token, MethodInteractive, nil
}

func (m *Manager) refresh(ctx context.Context) (*oauth2.Token, error) {
	refreshToken := m.RefreshToken()
	if refreshToken == "" {
		return nil, ErrNoRefreshCredential
	}
	m.logger.Debug("refreshing credential", "refresh_token", logging.Mask(refreshToken))
	token, err := m.config.TokenSource(m.clientContext(ctx), &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("%w: refresh: %w", ErrExchangeRejected, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: refresh: empty access token", ErrExchangeRejected)
	}
	return token, nil
}

func (m *Manager) interactive(ctx context.Context) (*oauth2.Token, error) {
	token, err := m.flow.Token(m.clientContext(ctx), m.config, m.flowOptions...)
	if err != nil {
		return nil, err
	}
	if token == nil || token.AccessToken == "" {
		return nil, fmt.Errorf("%w: interactive: empty access token", ErrExchangeRejected)
	}
	return token, nil
}

// record updates the manager state after an acquisition and hands the bearer
// and the refresh credential in use to the sink. A returned refresh credential
// that differs from the current one replaces it.
func (m *Manager) record(ctx context.Context, token *oauth2.Token, method string) {
	m.mux.Lock()
	rotated := token.RefreshToken != "" && token.RefreshToken != m.refreshToken
	if rotated {
		m.refreshToken = token.RefreshToken
	}
	refreshToken := m.refreshToken
	m.acquisitions++
	m.lastMethod = method
	m.lastAcquiredAt = time.Now()
	m.mux.Unlock()

	m.logger.Info("credential acquired", "method", method, "bearer", logging.Mask(token.AccessToken), "expiry", token.Expiry)
	if rotated {
		m.logger.Info("refresh credential rotated", "refresh_token", logging.Mask(refreshToken))
	}
	err := m.sink.Save(context.WithoutCancel(ctx), token.AccessToken, refreshToken)
	if err != nil {
		m.logger.Error("failed to persist credentials", "error", err)
	}
	m.mux.Lock()
	m.persistErr = err
	m.mux.Unlock()
}

func (m *Manager) clientContext(ctx context.Context) context.Context {
	if m.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)
}

// New creates a manager for config. By default it keeps credentials in memory
// and runs the interactive flow on the process terminal.
func New(config *oauth2.Config, options ...Option) *Manager {
	ret := &Manager{
		config: config,
		sink:   store.NewMemorySink(nil),
		flow:   flow.NewTerminalFlow(os.Stdin, os.Stdout),
		logger: slog.Default(),
	}
	for _, opt := range options {
		opt(ret)
	}
	ret.logger = ret.logger.With("component", "auth")
	ret.slot = store.NewSlot(ret.bearer)
	ret.bearer = ""
	return ret
}
