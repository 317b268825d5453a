package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/viant/xapi"
	"github.com/viant/xapi/auth/flow"
	"github.com/viant/xapi/config"
	"github.com/viant/xapi/internal/logging"
	"golang.org/x/term"
)

// Run executes the xapi command line.
func Run(args []string) error {
	runner := &Runner{
		in:          os.Stdin,
		out:         os.Stdout,
		lookupEnv:   os.LookupEnv,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}
	return runner.Run(args)
}

// Runner binds the commands to their input, output and environment.
type Runner struct {
	in          io.Reader
	out         io.Writer
	lookupEnv   func(string) (string, bool)
	interactive bool
	options     *Options
	closers     []io.Closer
}

// Run parses args and executes the selected command.
func (r *Runner) Run(args []string) error {
	r.options = &Options{}
	r.options.Login.runner = r
	r.options.Refresh.runner = r
	r.options.Status.runner = r
	r.options.Tweet.runner = r
	r.options.Me.runner = r
	defer r.close()
	_, err := flags.ParseArgs(r.options, args)
	var flagsErr *flags.Error
	if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
		return nil
	}
	return err
}

func (r *Runner) close() {
	for _, closer := range r.closers {
		_ = closer.Close()
	}
	r.closers = nil
}

// session builds the client of the current command; the returned context
// carries the command logger.
func (r *Runner) session(ctx context.Context, command string) (context.Context, *xapi.Client, error) {
	cfg, err := config.Load(ctx, r.options.ConfigURL)
	if err != nil {
		return nil, nil, err
	}
	cfg.Merge(&config.Config{OAuth2ConfigURL: r.options.Client.OAuth2ConfigURL, EncryptionKey: r.options.Client.EncryptionKey})
	if err = cfg.LoadOAuth2Config(ctx); err != nil {
		return nil, nil, err
	}
	cfg.ApplyEnv(r.lookupEnv)
	cfg.Merge(&r.options.Client)
	cfg.Merge(&config.Config{Log: logging.Config{Level: r.options.LogLevel, Format: r.options.LogFormat}})
	logger, closer, err := logging.Setup(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	r.closers = append(r.closers, closer)
	ctx = logging.NewContext(ctx, logger.With("command", command))
	var interactive flow.Flow = flow.NewTerminalFlow(r.in, r.out)
	if r.options.Headless || !r.interactive {
		interactive = flow.NewHeadlessFlow()
	}
	client, err := xapi.NewClient(ctx, cfg, &xapi.ClientOptions{Flow: interactive})
	if err != nil {
		return nil, nil, err
	}
	return ctx, client, nil
}

// NewRunner creates a runner reading operator input from in and writing results to out.
func NewRunner(in io.Reader, out io.Writer, lookupEnv func(string) (string, bool), interactive bool) *Runner {
	if lookupEnv == nil {
		lookupEnv = func(string) (string, bool) { return "", false }
	}
	return &Runner{in: in, out: out, lookupEnv: lookupEnv, interactive: interactive}
}
