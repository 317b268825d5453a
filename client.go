package xapi

import (
	"context"
	"log/slog"
	"os"

	"github.com/viant/xapi/api"
	"github.com/viant/xapi/auth"
	"github.com/viant/xapi/auth/flow"
	"github.com/viant/xapi/config"
	"github.com/viant/xapi/internal/logging"
)

// Client is an API client bound to its credential manager.
type Client struct {
	*api.Client
	Manager *auth.Manager
	Config  *config.Config
}

// ClientOptions defines optional collaborators of NewClient.
type ClientOptions struct {
	// Flow completes interactive authorization; defaults to the process terminal.
	Flow flow.Flow
	// Logger defaults to the logger carried by the NewClient context.
	Logger *slog.Logger
}

// NewClient creates the credential manager and API client described by cfg
// and restores credentials persisted by an earlier run.
func NewClient(ctx context.Context, cfg *config.Config, options *ClientOptions) (*Client, error) {
	if options == nil {
		options = &ClientOptions{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := options.Logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}
	interactive := options.Flow
	if interactive == nil {
		interactive = flow.NewTerminalFlow(os.Stdin, os.Stdout)
	}
	sink, err := cfg.Sink()
	if err != nil {
		return nil, err
	}
	manager := auth.New(cfg.OAuth2(),
		auth.WithSink(sink),
		auth.WithFlow(interactive),
		auth.WithRefreshToken(cfg.RefreshToken),
		auth.WithBearer(cfg.BearerToken),
		auth.WithLogger(logger),
	)
	if err = manager.Restore(ctx); err != nil {
		return nil, err
	}
	return &Client{
		Client:  api.New(manager, api.WithBaseURL(cfg.APIBaseURL), api.WithLogger(logger)),
		Manager: manager,
		Config:  cfg,
	}, nil
}
