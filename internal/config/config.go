// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Fields are exported and carry koanf tags so Load can unmarshal into them.
// - New() builds a Config with defaults; Load layers a file and env vars over it.
// - All future functions must accept context.Context as the first parameter.
// - Load returns errors unwrapped; ErrInvalidConfig and ErrLoadConfig are unused.
package config

import "runtime"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// EventQueueSize bounds the in-memory ingestion queue.
	EventQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of validate-and-apply workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// StripeCount configures the number of per-customer lock stripes and
	// scoreMap shards used by the ranking engine.
	StripeCount int `koanf:"stripe_count"`

	// MaxSkiplistLevel records the skip list's tower height cap. It is not
	// validated and not passed to the ranking engine, whose skip list uses a
	// fixed cap of 32.
	MaxSkiplistLevel int `koanf:"max_skiplist_level"`

	// DeltaMin and DeltaMax bound the accepted range for an event's delta;
	// events outside it are rejected.
	DeltaMin float64 `koanf:"delta_min"`
	DeltaMax float64 `koanf:"delta_max"`

	// MaxRankSpan caps the width of a GET /leaderboard?start=&end= query
	// and is the default up/down window of a GET /customers/{id}/neighbors
	// query when up or down is omitted; explicit up/down values are not capped.
	MaxRankSpan int `koanf:"max_rank_span"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		EventQueueSize:   100_000,
		WorkerCount:      runtime.NumCPU() * 10,
		DedupeSize:       500_000,
		StripeCount:      4096,
		MaxSkiplistLevel: 32,
		DeltaMin:         -1000,
		DeltaMax:         1000,
		MaxRankSpan:      1000,
	}
}
