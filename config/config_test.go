package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/xapi/auth/store"
	"golang.org/x/oauth2"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xapi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
clientID: id-1
clientSecret: secret-1
tokenURL: http://127.0.0.1:8081/2/oauth2/token
scopes:
  - tweet.read
store:
  kind: file
  url: /tmp/xapi/credentials.json
log:
  level: debug
`), 0o600))

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "id-1", cfg.ClientID)
	assert.Equal(t, "secret-1", cfg.ClientSecret)
	assert.Equal(t, "http://127.0.0.1:8081/2/oauth2/token", cfg.TokenURL)
	assert.Equal(t, "https://x.com/i/oauth2/authorize", cfg.AuthURL)
	assert.Equal(t, []string{"tweet.read"}, cfg.Scopes)
	assert.Equal(t, StoreFile, cfg.Store.Kind)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	require.NoError(t, cfg.Validate())

	_, err = Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_Default(t *testing.T) {
	cfg, err := Load(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, []string{"tweet.read", "tweet.write", "users.read", "offline.access"}, cfg.Scopes)
}

func TestConfig_ApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvClientID:     "env-id",
		EnvRefreshToken: " env-refresh ",
		EnvBearerToken:  "",
	}
	cfg := Default()
	cfg.ClientID = "file-id"
	cfg.BearerToken = "file-bearer"
	cfg.ApplyEnv(func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	})
	assert.Equal(t, "env-id", cfg.ClientID)
	assert.Equal(t, "env-refresh", cfg.RefreshToken)
	assert.Equal(t, "file-bearer", cfg.BearerToken)
	assert.Equal(t, "", cfg.ClientSecret)
}

func TestConfig_Merge(t *testing.T) {
	cfg := Default()
	cfg.ClientID = "file-id"
	cfg.Merge(&Config{ClientSecret: "flag-secret", Scopes: []string{"users.read"}, Store: Store{Kind: StoreEnv, URL: ".env"}})
	assert.Equal(t, "file-id", cfg.ClientID)
	assert.Equal(t, "flag-secret", cfg.ClientSecret)
	assert.Equal(t, []string{"users.read"}, cfg.Scopes)
	assert.Equal(t, StoreEnv, cfg.Store.Kind)
	assert.Equal(t, ".env", cfg.Store.URL)
}

func TestConfig_Validate(t *testing.T) {
	var testCases = []struct {
		description string
		update      func(c *Config)
		expectErr   bool
	}{
		{description: "valid", update: func(c *Config) {}},
		{description: "missing client id", update: func(c *Config) { c.ClientID = "" }, expectErr: true},
		{description: "missing token url", update: func(c *Config) { c.TokenURL = "" }, expectErr: true},
		{description: "file store without url", update: func(c *Config) { c.Store.Kind = StoreFile }, expectErr: true},
		{description: "unknown store", update: func(c *Config) { c.Store.Kind = "redis" }, expectErr: true},
		{description: "secret store", update: func(c *Config) { c.Store = Store{Kind: StoreSecret, URL: "/tmp/x.json"} }},
	}
	for _, testCase := range testCases {
		cfg := Default()
		cfg.ClientID = "id"
		testCase.update(cfg)
		err := cfg.Validate()
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
		} else {
			assert.NoError(t, err, testCase.description)
		}
	}
}

func TestConfig_OAuth2(t *testing.T) {
	cfg := Default()
	cfg.ClientID = "id"
	cfg.ClientSecret = "secret"
	oauthConfig := cfg.OAuth2()
	assert.Equal(t, "id", oauthConfig.ClientID)
	assert.Equal(t, oauth2.AuthStyleInHeader, oauthConfig.Endpoint.AuthStyle)
	assert.Equal(t, "http://localhost:8080/callback", oauthConfig.RedirectURL)
	assert.Equal(t, cfg.Scopes, oauthConfig.Scopes)

	cfg.ClientSecret = ""
	assert.Equal(t, oauth2.AuthStyleInParams, cfg.OAuth2().Endpoint.AuthStyle)
}

func TestConfig_Sink(t *testing.T) {
	dir := t.TempDir()
	var testCases = []struct {
		kind   string
		expect store.Sink
	}{
		{kind: StoreMemory, expect: &store.MemorySink{}},
		{kind: StoreFile, expect: &store.FileSink{}},
		{kind: StoreEnv, expect: &store.EnvSink{}},
		{kind: StoreSecret, expect: &store.SecretSink{}},
	}
	for _, testCase := range testCases {
		cfg := Default()
		cfg.Store = Store{Kind: testCase.kind, URL: filepath.Join(dir, testCase.kind)}
		sink, err := cfg.Sink()
		require.NoError(t, err, testCase.kind)
		assert.IsType(t, testCase.expect, sink, testCase.kind)
	}
	cfg := Default()
	cfg.Store.Kind = "redis"
	_, err := cfg.Sink()
	assert.Error(t, err)
}

func TestConfig_ApplyOAuth2(t *testing.T) {
	cfg := Default()
	cfg.ClientID = "file-id"
	cfg.applyOAuth2(&oauth2.Config{
		ClientSecret: "secret",
		Endpoint:     oauth2.Endpoint{TokenURL: "http://127.0.0.1/token"},
		Scopes:       []string{"tweet.read", "offline.access"},
	})
	assert.Equal(t, "file-id", cfg.ClientID)
	assert.Equal(t, "secret", cfg.ClientSecret)
	assert.Equal(t, "http://127.0.0.1/token", cfg.TokenURL)
	assert.Equal(t, "https://x.com/i/oauth2/authorize", cfg.AuthURL)
	assert.Equal(t, []string{"tweet.read", "offline.access"}, cfg.Scopes)

	assert.NoError(t, Default().LoadOAuth2Config(context.Background()))
}
