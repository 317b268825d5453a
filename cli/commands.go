package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/viant/xapi"
)

type LoginCommand struct {
	runner *Runner
}

func (c *LoginCommand) Execute(args []string) error {
	ctx, s, err := c.runner.session(context.Background(), "login")
	if err != nil {
		return err
	}
	if _, err = s.Manager.Interactive(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.runner.out, "logged in")
	return c.runner.printStatus(s)
}

type RefreshCommand struct {
	runner *Runner
}

func (c *RefreshCommand) Execute(args []string) error {
	ctx, s, err := c.runner.session(context.Background(), "refresh")
	if err != nil {
		return err
	}
	if _, err = s.Manager.Refresh(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.runner.out, "refreshed")
	return c.runner.printStatus(s)
}

type StatusCommand struct {
	runner *Runner
}

func (c *StatusCommand) Execute(args []string) error {
	_, s, err := c.runner.session(context.Background(), "status")
	if err != nil {
		return err
	}
	return c.runner.printStatus(s)
}

type TweetCommand struct {
	runner *Runner
}

func (c *TweetCommand) Execute(args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return errors.New("tweet text is required")
	}
	ctx, s, err := c.runner.session(context.Background(), "tweet")
	if err != nil {
		return err
	}
	resp, err := s.Tweet(ctx, text)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.runner.out, "posted %v: %v\n", resp.Data.ID, resp.Data.Text)
	return c.runner.persistErr(s)
}

type MeCommand struct {
	runner *Runner
}

func (c *MeCommand) Execute(args []string) error {
	ctx, s, err := c.runner.session(context.Background(), "me")
	if err != nil {
		return err
	}
	resp, err := s.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.runner.out, "@%v (%v) id: %v\n", resp.Data.Username, resp.Data.Name, resp.Data.ID)
	return c.runner.persistErr(s)
}

func (r *Runner) printStatus(s *xapi.Client) error {
	status := s.Manager.Status()
	fmt.Fprintf(r.out, "store: %v %v\n", s.Config.Store.Kind, s.Config.Store.URL)
	fmt.Fprintf(r.out, "bearer cached: %v %v\n", status.Cached, status.Bearer)
	fmt.Fprintf(r.out, "refresh credential: %v\n", status.HasRefreshCredential)
	if !status.LastAcquiredAt.IsZero() {
		fmt.Fprintf(r.out, "last acquisition: %v at %v\n", status.LastMethod, status.LastAcquiredAt.Format(time.RFC3339))
	}
	return r.persistErr(s)
}

// persistErr reports a credential that was acquired but could not be stored.
func (r *Runner) persistErr(s *xapi.Client) error {
	if err := s.Manager.Status().PersistErr; err != nil {
		return fmt.Errorf("credentials were not persisted: %w", err)
	}
	return nil
}
