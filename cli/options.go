package cli

import "github.com/viant/xapi/config"

// Options are the global command line options.
type Options struct {
	ConfigURL string        `short:"c" long:"config" description:"configuration file URL (yaml)"`
	LogLevel  string        `short:"l" long:"log-level" description:"log level" choice:"debug" choice:"info" choice:"warn" choice:"error"`
	LogFormat string        `long:"log-format" description:"log format" choice:"text" choice:"json"`
	Headless  bool          `long:"headless" description:"never prompt for interactive authorization"`
	Client    config.Config `group:"client options"`

	Login   LoginCommand   `command:"login" description:"authorize interactively and store the credentials"`
	Refresh RefreshCommand `command:"refresh" description:"exchange the refresh token for a new bearer token"`
	Status  StatusCommand  `command:"status" description:"show the stored credential state"`
	Tweet   TweetCommand   `command:"tweet" description:"post a tweet"`
	Me      MeCommand      `command:"me" description:"show the authenticated user"`
}
