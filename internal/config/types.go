// Package config provides configuration loading for CrossFrame tools.
// It is decoupled from CLI concerns so that other embedders can load
// the same project configuration.
package config

import (
	"fmt"

	"github.com/leapstack-labs/crossframe/pkg/core"
	"github.com/leapstack-labs/crossframe/pkg/sqlrel/dialect"
)

// TargetConfig holds the SQL engine target used by the lazy backend.
type TargetConfig struct {
	// Type is the SQL dialect ("duckdb", "sqlite", "postgres").
	Type string `koanf:"type"`

	// Path is the file path for file-based engines. ":memory:" (or
	// empty) selects an in-memory database.
	Path string `koanf:"path"`

	// DSN is the connection string for network engines (postgres).
	DSN string `koanf:"dsn"`
}

// Validate checks the target against the dialect registry.
func (t *TargetConfig) Validate() error {
	if t.Type == "" {
		return nil
	}
	if _, ok := dialect.Get(t.Type); !ok {
		return fmt.Errorf("unknown target type %q (registered: %v)", t.Type, dialect.List())
	}
	return nil
}

// Config is the full CrossFrame configuration.
type Config struct {
	// DriftPolicy is "strict" (default) or "permissive".
	DriftPolicy string `koanf:"drift_policy"`

	// DefaultBackend selects the backend the CLI uses when reading
	// local files: "arrow" or "sql".
	DefaultBackend string `koanf:"default_backend"`

	// Target configures the SQL engine for the sql backend.
	Target TargetConfig `koanf:"target"`

	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.DriftPolicy == "" {
		c.DriftPolicy = "strict"
	}
	if c.DefaultBackend == "" {
		c.DefaultBackend = "arrow"
	}
	if c.Target.Type == "" {
		c.Target.Type = "duckdb"
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if _, ok := core.ParseDriftPolicy(c.DriftPolicy); !ok {
		return fmt.Errorf("unknown drift policy %q (want strict or permissive)", c.DriftPolicy)
	}
	if c.DefaultBackend != "arrow" && c.DefaultBackend != "sql" {
		return fmt.Errorf("unknown default backend %q (want arrow or sql)", c.DefaultBackend)
	}
	return c.Target.Validate()
}

// Policy returns the parsed drift policy.
func (c *Config) Policy() core.DriftPolicy {
	p, _ := core.ParseDriftPolicy(c.DriftPolicy)
	return p
}
