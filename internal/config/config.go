// Package config loads the compiler driver's process configuration: the
// target triple, the instantiation cache's DSN, and the warnings-as-errors
// toggle. Environment variables are read first, then flag overrides are
// layered on top; a local .env is loaded through joho/godotenv before
// reading os.Getenv.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the resolved process configuration for one `cmd/midc` run.
type Config struct {
	// TargetTriple, when empty, means target.Host(): the triple of the
	// machine running the compiler.
	TargetTriple string

	// CacheDSN is the instantiation cache's database source name: a local
	// file path, or a libsql://  / http(s):// URL for a remote/replica
	// Turso database (see internal/cache.Open).
	CacheDSN string

	// WarningsAsErrors promotes every diag.Warning to a build failure.
	WarningsAsErrors bool

	// Debug enables gorm's verbose SQL logging on the cache connection.
	Debug bool
}

const (
	defaultCacheDSN = ".midc/cache.db"
)

// DefaultCacheDSN returns the cache DSN Load falls back to when
// MIDC_CACHE_DSN is unset, for callers that want to show it (e.g. a CLI
// flag's help text).
func DefaultCacheDSN() string { return defaultCacheDSN }

// Load reads a local .env (if present — a missing one is not an error) and
// then the MIDC_* environment variables, applying a default-if-empty and
// guarded-numeric-parse pattern to each.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		TargetTriple: os.Getenv("MIDC_TARGET_TRIPLE"),
		CacheDSN:     os.Getenv("MIDC_CACHE_DSN"),
	}
	if cfg.CacheDSN == "" {
		cfg.CacheDSN = defaultCacheDSN
	}

	if v := os.Getenv("MIDC_WARNINGS_AS_ERRORS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.WarningsAsErrors = b
		}
	}
	if v := os.Getenv("MIDC_CACHE_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = b
		}
	}

	return cfg
}

// Overrides carries flag-parsed values that, when set, take precedence over
// whatever Load resolved from the environment. A nil *bool or empty string
// means "flag not given"; the env-derived value stands.
type Overrides struct {
	TargetTriple     string
	CacheDSN         string
	WarningsAsErrors *bool
	Debug            *bool
}

// Apply layers o on top of c, flags winning over environment.
func (c *Config) Apply(o Overrides) {
	if o.TargetTriple != "" {
		c.TargetTriple = o.TargetTriple
	}
	if o.CacheDSN != "" {
		c.CacheDSN = o.CacheDSN
	}
	if o.WarningsAsErrors != nil {
		c.WarningsAsErrors = *o.WarningsAsErrors
	}
	if o.Debug != nil {
		c.Debug = *o.Debug
	}
}
