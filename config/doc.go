// Package config defines the xapi client configuration.
//
// Values are layered: defaults, then an optional YAML file read through afs,
// then X_* environment variables, then command line flags.
package config
