package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/scy/auth/authorizer"
	"github.com/viant/xapi/auth"
	"github.com/viant/xapi/auth/store"
	"github.com/viant/xapi/internal/logging"
	"golang.org/x/oauth2"
	"gopkg.in/yaml.v3"
)

const (
	EnvClientID     = "X_CLIENT_ID"
	EnvClientSecret = "X_CLIENT_SECRET"
	EnvBearerToken  = "X_BEARER_TOKEN"
	EnvRefreshToken = "X_REFRESH_TOKEN"
)

const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreEnv    = "env"
	StoreSecret = "secret"
)

// Config holds the OAuth 2.0 client, endpoints and credential persistence settings.
type Config struct {
	ClientID     string   `yaml:"clientID,omitempty" json:"clientID,omitempty"  long:"client-id" description:"oauth2 client id"`
	ClientSecret string   `yaml:"clientSecret,omitempty" json:"clientSecret,omitempty"  long:"client-secret" description:"oauth2 client secret"`
	BearerToken  string   `yaml:"bearerToken,omitempty" json:"bearerToken,omitempty"  long:"bearer" description:"initial bearer token"`
	RefreshToken string   `yaml:"refreshToken,omitempty" json:"refreshToken,omitempty"  long:"refresh-token" description:"refresh token"`
	AuthURL      string   `yaml:"authURL,omitempty" json:"authURL,omitempty"  long:"auth-url" description:"authorization endpoint"`
	TokenURL     string   `yaml:"tokenURL,omitempty" json:"tokenURL,omitempty"  long:"token-url" description:"token endpoint"`
	RedirectURL  string   `yaml:"redirectURL,omitempty" json:"redirectURL,omitempty"  long:"redirect-url" description:"registered redirect URL"`
	APIBaseURL   string   `yaml:"apiBaseURL,omitempty" json:"apiBaseURL,omitempty"  long:"api-url" description:"api base URL"`
	Scopes       []string `yaml:"scopes,omitempty" json:"scopes,omitempty"  long:"scope" description:"requested scope, repeatable"`
	Store        Store    `yaml:"store,omitempty" json:"store,omitempty"  group:"store" namespace:"store"`

	OAuth2ConfigURL string `yaml:"oauth2ConfigURL,omitempty" json:"oauth2ConfigURL,omitempty"  long:"oauth2-config" description:"oauth2 client config file"`
	EncryptionKey   string `yaml:"encryptionKey,omitempty" json:"encryptionKey,omitempty"  short:"k" long:"key" description:"oauth2 client config encryption key"`

	Log logging.Config `yaml:"log,omitempty" json:"log,omitempty" no-flag:"true"`
}

// Store selects where acquired credentials are persisted.
type Store struct {
	Kind string `yaml:"kind,omitempty" json:"kind,omitempty"  long:"kind" description:"credential store" choice:"memory" choice:"file" choice:"env" choice:"secret"`
	URL  string `yaml:"url,omitempty" json:"url,omitempty"  long:"url" description:"credential store location"`
	Key  string `yaml:"key,omitempty" json:"key,omitempty"  long:"key" description:"secret store encryption key"`
}

// Default returns the configuration for the public X endpoints.
func Default() *Config {
	return &Config{
		AuthURL:     auth.Endpoint.AuthURL,
		TokenURL:    auth.Endpoint.TokenURL,
		RedirectURL: auth.DefaultRedirectURL,
		APIBaseURL:  auth.DefaultAPIBaseURL,
		Scopes:      append([]string{}, auth.DefaultScopes...),
		Store:       Store{Kind: StoreMemory},
		Log:         logging.Config{Level: "info", Format: "text"},
	}
}

// Load returns Default() overlaid with the YAML document at URL.
func Load(ctx context.Context, URL string) (*Config, error) {
	ret := Default()
	if URL == "" {
		return ret, nil
	}
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to parse config %v: %w", URL, err)
	}
	return ret, nil
}

// LoadOAuth2Config overlays the client settings stored at OAuth2ConfigURL,
// decrypted with EncryptionKey when set.
func (c *Config) LoadOAuth2Config(ctx context.Context) error {
	if c.OAuth2ConfigURL == "" {
		return nil
	}
	configURL := c.OAuth2ConfigURL
	if c.EncryptionKey != "" {
		configURL += "|" + c.EncryptionKey
	}
	oauthCfg := &authorizer.OAuthConfig{ConfigURL: configURL}
	if err := authorizer.New().EnsureConfig(ctx, oauthCfg); err != nil {
		return fmt.Errorf("failed to load oauth2 config %q: %w", c.OAuth2ConfigURL, err)
	}
	c.applyOAuth2(oauthCfg.Config)
	return nil
}

func (c *Config) applyOAuth2(oauthCfg *oauth2.Config) {
	if oauthCfg == nil {
		return
	}
	c.Merge(&Config{
		ClientID:     oauthCfg.ClientID,
		ClientSecret: oauthCfg.ClientSecret,
		AuthURL:      oauthCfg.Endpoint.AuthURL,
		TokenURL:     oauthCfg.Endpoint.TokenURL,
		RedirectURL:  oauthCfg.RedirectURL,
		Scopes:       oauthCfg.Scopes,
	})
}

// ApplyEnv overrides credentials with X_* variables found by lookup, typically os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	for key, target := range map[string]*string{
		EnvClientID:     &c.ClientID,
		EnvClientSecret: &c.ClientSecret,
		EnvBearerToken:  &c.BearerToken,
		EnvRefreshToken: &c.RefreshToken,
	} {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			*target = strings.TrimSpace(value)
		}
	}
}

// Merge overrides c with every non-empty value of overrides.
func (c *Config) Merge(overrides *Config) {
	if overrides == nil {
		return
	}
	merge := func(target *string, value string) {
		if value != "" {
			*target = value
		}
	}
	merge(&c.ClientID, overrides.ClientID)
	merge(&c.ClientSecret, overrides.ClientSecret)
	merge(&c.BearerToken, overrides.BearerToken)
	merge(&c.RefreshToken, overrides.RefreshToken)
	merge(&c.AuthURL, overrides.AuthURL)
	merge(&c.TokenURL, overrides.TokenURL)
	merge(&c.RedirectURL, overrides.RedirectURL)
	merge(&c.APIBaseURL, overrides.APIBaseURL)
	merge(&c.Store.Kind, overrides.Store.Kind)
	merge(&c.Store.URL, overrides.Store.URL)
	merge(&c.Store.Key, overrides.Store.Key)
	merge(&c.OAuth2ConfigURL, overrides.OAuth2ConfigURL)
	merge(&c.EncryptionKey, overrides.EncryptionKey)
	merge(&c.Log.Level, overrides.Log.Level)
	merge(&c.Log.Format, overrides.Log.Format)
	merge(&c.Log.File, overrides.Log.File)
	if len(overrides.Scopes) > 0 {
		c.Scopes = append([]string{}, overrides.Scopes...)
	}
}

// Validate checks the settings required to authenticate.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("client id is required (%v)", EnvClientID)
	}
	if c.TokenURL == "" {
		return fmt.Errorf("token URL is required")
	}
	switch c.Store.Kind {
	case "", StoreMemory:
	case StoreFile, StoreEnv, StoreSecret:
		if c.Store.URL == "" {
			return fmt.Errorf("store %v requires url", c.Store.Kind)
		}
	default:
		return fmt.Errorf("unsupported store: %v", c.Store.Kind)
	}
	return nil
}

// OAuth2 returns the client configuration. A client without secret is treated
// as public and sends its id in the request body.
func (c *Config) OAuth2() *oauth2.Config {
	authStyle := oauth2.AuthStyleInHeader
	if c.ClientSecret == "" {
		authStyle = oauth2.AuthStyleInParams
	}
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   c.AuthURL,
			TokenURL:  c.TokenURL,
			AuthStyle: authStyle,
		},
		RedirectURL: c.RedirectURL,
		Scopes:      append([]string{}, c.Scopes...),
	}
}

// Sink returns the credential sink selected by Store.
func (c *Config) Sink() (store.Sink, error) {
	switch c.Store.Kind {
	case "", StoreMemory:
		return store.NewMemorySink(nil), nil
	case StoreFile:
		return store.NewFileSink(c.Store.URL), nil
	case StoreEnv:
		return store.NewEnvSink(c.Store.URL), nil
	case StoreSecret:
		return store.NewSecretSink(c.Store.URL, c.Store.Key), nil
	}
	return nil, fmt.Errorf("unsupported store: %v", c.Store.Kind)
}
