// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory change event queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of audit workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the change-event deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// TrailSize bounds the in-memory audit trail.
	TrailSize int `koanf:"trail_size"`

	// MaxChangesLimit caps GET /changes?limit.
	MaxChangesLimit int `koanf:"max_changes_limit"`

	// EnforceCapacity enables the max_participants check on signup.
	// Off by default: the reference behavior stores the capacity but never
	// checks it.
	EnforceCapacity bool `koanf:"enforce_capacity"`

	// SeedFile optionally points at a YAML roster replacing the built-in seed.
	SeedFile string `koanf:"seed_file"`
}

// New creates a Config populated with defaults.
func New() *Config {
	c := &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":8000",
		QueueSize:       10_000,
		WorkerCount:     runtime.NumCPU() * 2,
		DedupeSize:      50_000,
		TrailSize:       1000,
		MaxChangesLimit: 100,
		EnforceCapacity: false,
		SeedFile:        "",
	}
	return c
}
