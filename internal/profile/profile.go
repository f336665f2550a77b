// Package profile provides saved comparison profiles: named
// source/destination pairs with a filter, persisted as a TOML file, and
// a runner that executes them against live instances.
package profile

import (
	"time"

	"github.com/bovinemagnet/pg-console/internal/compare"
)

// Endpoint identifies one side of a profile: a connection string and
// the schema to snapshot on it.
type Endpoint struct {
	DSN    string `toml:"dsn"`
	Schema string `toml:"schema"`
}

// Profile is a saved comparison configuration. Profiles trigger
// comparison runs; they are not part of the comparison algorithm.
type Profile struct {
	Name        string         `toml:"name"`
	Source      Endpoint       `toml:"source"`
	Destination Endpoint       `toml:"destination"`
	Filter      compare.Filter `toml:"filter"`

	LastRunAt time.Time        `toml:"last_run_at,omitempty"`
	LastRun   *compare.Summary `toml:"last_run,omitempty"`
}
