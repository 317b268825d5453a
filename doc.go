// Package xapi is an X (Twitter) v2 API client that keeps its OAuth 2.0 bearer
// credential alive across calls.
//
// NewClient assembles the pieces from a config.Config: an auth.Manager owning
// the credential, a persistence sink and an api.Client whose requests carry
// the bearer and recover once from a 401 by forcing a refresh.
//
// Example:
//
//	cfg, _ := config.Load(ctx, "xapi.yaml")
//	cfg.ApplyEnv(os.LookupEnv)
//	client, _ := xapi.NewClient(ctx, cfg, nil)
//	_, err := client.Tweet(ctx, "hello")
package xapi
