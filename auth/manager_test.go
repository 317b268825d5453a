package auth

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/xapi/auth/flow"
	"github.com/viant/xapi/auth/mock"
	"github.com/viant/xapi/auth/store"
	"github.com/viant/xapi/internal/logging"
	"golang.org/x/oauth2"
)

// countingFlow counts interactive attempts and delegates to Flow when set.
type countingFlow struct {
	calls atomic.Int32
	Flow  flow.Flow
}

func (c *countingFlow) Token(ctx context.Context, config *oauth2.Config, options ...flow.Option) (*oauth2.Token, error) {
	c.calls.Add(1)
	if c.Flow == nil {
		return nil, flow.ErrInteractiveUnavailable
	}
	return c.Flow.Token(ctx, config, options...)
}

type failingSink struct {
	store.MemorySink
}

func (f *failingSink) Save(ctx context.Context, bearer, refresh string) error {
	return errors.New("disk full")
}

func newServer(t *testing.T, options ...mock.Option) *mock.HTTPTestAuthorizationServer {
	server, err := mock.NewHTTPTestAuthorizationServer(options...)
	require.NoError(t, err)
	t.Cleanup(server.Close)
	return server
}

func newManager(server *mock.HTTPTestAuthorizationServer, options ...Option) *Manager {
	options = append([]Option{WithLogger(logging.Discard()), WithFlow(&countingFlow{})}, options...)
	return New(mock.NewTestConfig(server.Issuer), options...)
}

func TestManager_Authenticate(t *testing.T) {
	server := newServer(t)
	refreshToken, err := server.IssueRefreshToken()
	require.NoError(t, err)

	interactive := &countingFlow{}
	sink := store.NewMemorySink(nil)
	manager := newManager(server, WithRefreshToken(refreshToken), WithFlow(interactive), WithSink(sink))
	assert.False(t, manager.Status().Cached)

	bearer, err := manager.Authenticate(context.Background())
	require.NoError(t, err)
	assert.True(t, server.IsValidAccessToken(bearer))
	assert.Equal(t, 1, server.TokenCalls(mock.GrantRefreshToken))
	assert.EqualValues(t, 0, interactive.calls.Load())

	// cache hit: no network
	again, err := manager.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, bearer, again)
	assert.Equal(t, 1, server.TokenCalls(""))

	status := manager.Status()
	assert.True(t, status.Cached)
	assert.True(t, status.HasRefreshCredential)
	assert.Equal(t, 1, status.Acquisitions)
	assert.Equal(t, MethodRefresh, status.LastMethod)
	assert.NoError(t, status.PersistErr)

	record, err := sink.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, bearer, record.BearerToken)
	assert.Equal(t, refreshToken, record.RefreshToken)
}

func TestManager_Authenticate_Seeded(t *testing.T) {
	server := newServer(t)
	manager := newManager(server, WithBearer("seeded"))
	bearer, err := manager.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "seeded", bearer)
	assert.Equal(t, 0, server.TokenCalls(""))
}

func TestManager_Authenticate_Concurrent(t *testing.T) {
	server := newServer(t, mock.WithExchangeDelay(50*time.Millisecond))
	refreshToken, err := server.IssueRefreshToken()
	require.NoError(t, err)
	manager := newManager(server, WithRefreshToken(refreshToken))

	const callers = 50
	var wg sync.WaitGroup
	bearers := make([]string, callers)
	errs := make([]error, callers)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			bearers[i], errs[i] = manager.Authenticate(context.Background())
		}(i)
	}
	close(start)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, bearers[0], bearers[i])
	}
	assert.Equal(t, 1, server.TokenCalls(mock.GrantRefreshToken))
	assert.Equal(t, 1, manager.Status().Acquisitions)
}

func TestManager_Authenticate_InteractiveFallback(t *testing.T) {
	var testCases = []struct {
		description  string
		refreshToken string
		refreshCalls int
	}{
		{description: "no refresh credential", refreshCalls: 0},
		{description: "rejected refresh credential", refreshToken: "revoked", refreshCalls: 1},
	}

	for _, testCase := range testCases {
		server := newServer(t)
		operator := mock.NewOperator()
		interactive := &countingFlow{Flow: flow.NewTerminalFlow(operator, operator)}
		sink := store.NewMemorySink(nil)
		manager := newManager(server, WithRefreshToken(testCase.refreshToken), WithFlow(interactive), WithSink(sink))

		bearer, err := manager.Authenticate(context.Background())
		require.NoError(t, err, testCase.description)
		assert.True(t, server.IsValidAccessToken(bearer), testCase.description)
		assert.Equal(t, testCase.refreshCalls, server.TokenCalls(mock.GrantRefreshToken), testCase.description)
		assert.Equal(t, 1, server.TokenCalls(mock.GrantAuthorizationCode), testCase.description)
		assert.Equal(t, 1, operator.Prompts(), testCase.description)
		assert.Equal(t, MethodInteractive, manager.Status().LastMethod, testCase.description)

		// the issued refresh credential is persisted and used from now on
		record, err := sink.Load(context.Background())
		require.NoError(t, err, testCase.description)
		assert.True(t, server.IsValidRefreshToken(record.RefreshToken), testCase.description)
		assert.Equal(t, record.RefreshToken, manager.RefreshToken(), testCase.description)

		refreshed, err := manager.ForceRefresh(context.Background())
		require.NoError(t, err, testCase.description)
		assert.NotEqual(t, bearer, refreshed, testCase.description)
		assert.Equal(t, 1, operator.Prompts(), testCase.description)
	}
}

func TestManager_Authenticate_EmptyCode(t *testing.T) {
	server := newServer(t)
	operator := &mock.Operator{Answer: func(string) (string, error) { return "", nil }}
	manager := newManager(server, WithFlow(flow.NewTerminalFlow(operator, operator)))

	bearer, err := manager.Authenticate(context.Background())
	assert.Empty(t, bearer)
	assert.ErrorIs(t, err, ErrEmptyAuthorizationCode)
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.ErrorIs(t, err, ErrNoRefreshCredential)
	assert.Equal(t, 0, server.TokenCalls(""))
	assert.False(t, manager.Status().Cached)
}

func TestManager_ForceRefresh(t *testing.T) {
	t.Run("no refresh credential", func(t *testing.T) {
		server := newServer(t)
		interactive := &countingFlow{}
		manager := newManager(server, WithBearer("stale"), WithFlow(interactive))

		bearer, err := manager.ForceRefresh(context.Background())
		assert.Empty(t, bearer)
		assert.ErrorIs(t, err, ErrNoRefreshCredential)
		assert.EqualValues(t, 0, interactive.calls.Load())
		assert.Equal(t, 0, server.TokenCalls(""))
		assert.False(t, manager.Status().Cached)
	})

	t.Run("rejected", func(t *testing.T) {
		server := newServer(t)
		refreshToken, err := server.IssueRefreshToken()
		require.NoError(t, err)
		interactive := &countingFlow{}
		manager := newManager(server, WithBearer("stale"), WithRefreshToken(refreshToken), WithFlow(interactive))
		server.RevokeRefreshTokens()

		bearer, err := manager.ForceRefresh(context.Background())
		assert.Empty(t, bearer)
		assert.ErrorIs(t, err, ErrExchangeRejected)
		var retrieveErr *oauth2.RetrieveError
		assert.ErrorAs(t, err, &retrieveErr)
		assert.EqualValues(t, 0, interactive.calls.Load())
		assert.False(t, manager.Status().Cached)
	})

	t.Run("success", func(t *testing.T) {
		server := newServer(t)
		refreshToken, err := server.IssueRefreshToken()
		require.NoError(t, err)
		manager := newManager(server, WithBearer("stale"), WithRefreshToken(refreshToken))

		bearer, err := manager.ForceRefresh(context.Background())
		require.NoError(t, err)
		assert.NotEqual(t, "stale", bearer)
		cached, err := manager.Authenticate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, bearer, cached)
		assert.Equal(t, 1, server.TokenCalls(mock.GrantRefreshToken))
	})
}

func TestManager_ForceRefresh_Coalesced(t *testing.T) {
	server := newServer(t)
	refreshToken, err := server.IssueRefreshToken()
	require.NoError(t, err)

	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	var calls atomic.Int32
	server.TokenHandler = func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		entered <- struct{}{}
		<-release
		_ = r.ParseForm()
		token, _ := server.IssueAccessToken()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"` + token + `","token_type":"bearer","expires_in":7200}`))
	}
	manager := newManager(server, WithRefreshToken(refreshToken))

	const callers = 10
	var wg sync.WaitGroup
	bearers := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bearers[i], _ = manager.ForceRefresh(context.Background())
		}(i)
	}
	<-entered
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
	for i := 0; i < callers; i++ {
		assert.Equal(t, bearers[0], bearers[i])
	}
	assert.True(t, server.IsValidAccessToken(bearers[0]))
}

// blockingTokenHandler serves refresh grants once release is closed.
func blockingTokenHandler(server *mock.HTTPTestAuthorizationServer, entered chan struct{}, release chan struct{}, calls *atomic.Int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		entered <- struct{}{}
		<-release
		token, _ := server.IssueAccessToken()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"` + token + `","token_type":"bearer","expires_in":7200}`))
	}
}

func TestManager_ForceRefresh_CallerCancelled(t *testing.T) {
	server := newServer(t)
	refreshToken, err := server.IssueRefreshToken()
	require.NoError(t, err)
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	var calls atomic.Int32
	server.TokenHandler = blockingTokenHandler(server, entered, release, &calls)
	manager := newManager(server, WithRefreshToken(refreshToken))

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := manager.ForceRefresh(ctx)
		first <- err
	}()
	<-entered

	type result struct {
		bearer string
		err    error
	}
	second := make(chan result, 1)
	go func() {
		bearer, err := manager.ForceRefresh(context.Background())
		second <- result{bearer: bearer, err: err}
	}()
	time.Sleep(100 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)
	close(release)

	actual := <-second
	require.NoError(t, actual.err)
	assert.True(t, server.IsValidAccessToken(actual.bearer))
	assert.EqualValues(t, 1, calls.Load())
	assert.True(t, manager.Status().Cached)
}

func TestManager_Authenticate_CallerCancelled(t *testing.T) {
	server := newServer(t)
	refreshToken, err := server.IssueRefreshToken()
	require.NoError(t, err)
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	var calls atomic.Int32
	server.TokenHandler = blockingTokenHandler(server, entered, release, &calls)
	manager := newManager(server, WithRefreshToken(refreshToken))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := manager.Authenticate(ctx)
		done <- err
	}()
	<-entered
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	close(release)

	// the abandoned acquisition still fills the slot
	assert.Eventually(t, func() bool { return manager.Status().Cached }, time.Second, 10*time.Millisecond)
	bearer, err := manager.Authenticate(context.Background())
	require.NoError(t, err)
	assert.True(t, server.IsValidAccessToken(bearer))
	assert.EqualValues(t, 1, calls.Load())
}

func TestManager_RefreshRotation(t *testing.T) {
	server := newServer(t, mock.WithRefreshTokenRotation())
	refreshToken, err := server.IssueRefreshToken()
	require.NoError(t, err)
	sink := store.NewMemorySink(nil)
	manager := newManager(server, WithRefreshToken(refreshToken), WithSink(sink))

	_, err = manager.Authenticate(context.Background())
	require.NoError(t, err)
	rotated := manager.RefreshToken()
	assert.NotEqual(t, refreshToken, rotated)
	record, err := sink.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rotated, record.RefreshToken)

	// the original credential is no longer accepted; the rotated one is
	_, err = manager.ForceRefresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, server.TokenCalls(mock.GrantRefreshToken))
	assert.NotEqual(t, rotated, manager.RefreshToken())
}

func TestManager_PersistFailure(t *testing.T) {
	server := newServer(t)
	refreshToken, err := server.IssueRefreshToken()
	require.NoError(t, err)
	manager := newManager(server, WithRefreshToken(refreshToken), WithSink(&failingSink{}))

	bearer, err := manager.Authenticate(context.Background())
	require.NoError(t, err)
	assert.True(t, server.IsValidAccessToken(bearer))
	status := manager.Status()
	assert.True(t, status.Cached)
	assert.EqualError(t, status.PersistErr, "disk full")
}

func TestManager_Refresh(t *testing.T) {
	server := newServer(t)
	manager := newManager(server, WithBearer("current"), WithRefreshToken("unknown"))

	_, err := manager.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrExchangeRejected)
	bearer, err := manager.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "current", bearer)
}

func TestManager_Interactive(t *testing.T) {
	server := newServer(t)
	operator := mock.NewOperator()
	manager := newManager(server, WithBearer("current"), WithFlow(flow.NewTerminalFlow(operator, operator)))

	bearer, err := manager.Interactive(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, "current", bearer)
	assert.True(t, server.IsValidAccessToken(bearer))
	assert.True(t, manager.Status().HasRefreshCredential)
}

func TestManager_Invalidate(t *testing.T) {
	server := newServer(t)
	refreshToken, err := server.IssueRefreshToken()
	require.NoError(t, err)
	manager := newManager(server, WithBearer("stale"), WithRefreshToken(refreshToken))

	manager.Invalidate(context.Background())
	assert.False(t, manager.Status().Cached)
	bearer, err := manager.Authenticate(context.Background())
	require.NoError(t, err)
	assert.True(t, server.IsValidAccessToken(bearer))
	assert.Equal(t, 1, server.TokenCalls(mock.GrantRefreshToken))
}

func TestManager_Restore(t *testing.T) {
	server := newServer(t)
	sink := store.NewMemorySink(&store.Record{BearerToken: "saved-bearer", RefreshToken: "saved-refresh"})

	manager := newManager(server, WithSink(sink))
	require.NoError(t, manager.Restore(context.Background()))
	bearer, err := manager.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "saved-bearer", bearer)
	assert.Equal(t, "saved-refresh", manager.RefreshToken())

	configured := newManager(server, WithSink(sink), WithRefreshToken("configured"), WithBearer("configured-bearer"))
	require.NoError(t, configured.Restore(context.Background()))
	assert.Equal(t, "configured", configured.RefreshToken())
	bearer, err = configured.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "configured-bearer", bearer)
}

func TestNewConfig(t *testing.T) {
	config := NewConfig("id", "secret")
	assert.Equal(t, "https://api.x.com/2/oauth2/token", config.Endpoint.TokenURL)
	assert.Equal(t, "https://x.com/i/oauth2/authorize", config.Endpoint.AuthURL)
	assert.Equal(t, DefaultScopes, config.Scopes)
	assert.Equal(t, oauth2.AuthStyleInHeader, config.Endpoint.AuthStyle)
}
