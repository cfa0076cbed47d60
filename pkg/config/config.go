// Package config provides configuration management for bzlsum.
// It supports multi-layer configuration with precedence:
//  1. Built-in defaults (lowest priority)
//  2. Global user config (~/.config/bzlsum/config.toml)
//  3. Project config (.bzlsum/config.toml or bzlsum.toml)
//  4. Environment variables (BZLSUM_*)
//  5. CLI flags (highest priority)
package config

// Config is the main configuration struct for bzlsum.
type Config struct {
	// Paths configures the files the tool reads and rewrites.
	Paths PathsConfig `toml:"paths"`

	// Sync configures the behavior of the sync command.
	Sync SyncConfig `toml:"sync"`
}

// PathsConfig holds the manifest and build file locations.
type PathsConfig struct {
	// GoSum is the path to the go.sum checksum manifest,
	// relative to the working directory unless absolute.
	GoSum string `toml:"go_sum"`

	// DepsBzl is the path to the deps.bzl file to rewrite.
	DepsBzl string `toml:"deps_bzl"`
}

// SyncConfig holds sync command behavior.
type SyncConfig struct {
	// FailOnMissing makes sync exit non-zero when any go_repository
	// rule has no matching go.sum entry. Default is to warn and
	// leave the rule untouched.
	FailOnMissing *bool `toml:"fail_on_missing"`
}

// NewConfig creates a new Config with built-in defaults. The default
// paths match the conventional repository layout: go.sum and deps.bzl
// at the workspace root.
func NewConfig() *Config {
	falseVal := false
	return &Config{
		Paths: PathsConfig{
			GoSum:   "go.sum",
			DepsBzl: "deps.bzl",
		},
		Sync: SyncConfig{
			FailOnMissing: &falseVal,
		},
	}
}

// FailOnMissing reports whether sync should fail on missing entries.
func (c *Config) FailOnMissing() bool {
	return c.Sync.FailOnMissing != nil && *c.Sync.FailOnMissing
}

// Merge merges another config into this one (other takes precedence).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Paths.GoSum != "" {
		c.Paths.GoSum = other.Paths.GoSum
	}
	if other.Paths.DepsBzl != "" {
		c.Paths.DepsBzl = other.Paths.DepsBzl
	}
	if other.Sync.FailOnMissing != nil {
		c.Sync.FailOnMissing = other.Sync.FailOnMissing
	}
}
