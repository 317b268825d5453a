// Package cli implements the xapi command line: login, refresh, status, tweet
// and me.
package cli
