package flow

import (
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// Options holds per-exchange settings.
type Options struct {
	scopes        []string
	state         string
	codeVerifier  string
	redirectURL   string
	authURLParams map[string]string
}

type Option func(*Options)

// WithScopes adds scopes on top of the oauth2.Config ones.
func WithScopes(scopes ...string) Option {
	return func(o *Options) {
		o.scopes = append(o.scopes, scopes...)
	}
}

// WithState sets the anti-forgery state; a random one is used otherwise.
func WithState(state string) Option {
	return func(o *Options) {
		o.state = state
	}
}

// WithCodeVerifier sets the PKCE verifier; a random one is used otherwise.
func WithCodeVerifier(verifier string) Option {
	return func(o *Options) {
		o.codeVerifier = verifier
	}
}

// WithRedirectURL overrides the oauth2.Config redirect URL.
func WithRedirectURL(URL string) Option {
	return func(o *Options) {
		o.redirectURL = URL
	}
}

// WithAuthURLParam adds an extra authorization URL query parameter.
func WithAuthURLParam(name, value string) Option {
	return func(o *Options) {
		o.authURLParams[name] = value
	}
}

func (o *Options) Scopes() []string {
	return o.scopes
}

func (o *Options) State() string {
	if o.state == "" {
		o.state = uuid.NewString()
	}
	return o.state
}

func (o *Options) CodeVerifier() string {
	if o.codeVerifier == "" {
		o.codeVerifier = oauth2.GenerateVerifier()
	}
	return o.codeVerifier
}

// NewOptions applies options.
func NewOptions(options []Option) *Options {
	ret := &Options{authURLParams: map[string]string{}}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}
