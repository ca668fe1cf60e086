// Package config defines service configuration structures and loading.
//
// Conventions:
// - Defaults come from New; Load layers file and env on top.
// - External errors are wrapped via this package's sentinel kinds.
package config

import "time"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Spotify API credentials for the client-credentials flow.
	SpotifyClientID     string `koanf:"spotify_client_id"`
	SpotifyClientSecret string `koanf:"spotify_client_secret"`

	// SpotifyAPIURL and SpotifyAuthURL override the Spotify endpoints,
	// mainly for tests.
	SpotifyAPIURL  string `koanf:"spotify_api_url"`
	SpotifyAuthURL string `koanf:"spotify_auth_url"`

	// FetchConcurrency bounds parallel artist lookups per analysis.
	FetchConcurrency int `koanf:"fetch_concurrency"`

	// MaxTracks caps how many playlist entries one analysis processes.
	MaxTracks int `koanf:"max_tracks"`

	// CacheSize and CacheTTLSeconds bound the analysis result cache.
	CacheSize       int `koanf:"cache_size"`
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// RateLimitPerMinute throttles analysis requests per caller.
	RateLimitPerMinute int `koanf:"rate_limit_per_minute"`

	// TimeoutUntil rejects all analysis requests until the given
	// RFC3339 instant. Empty disables the gate. Operational policy,
	// never baked into code.
	TimeoutUntil string `koanf:"timeout_until"`

	// DBPath locates the SQLite analysis history database.
	DBPath string `koanf:"db_path"`

	// HistoryLimit caps GET /history and /leaderboard?limit.
	HistoryLimit int `koanf:"history_limit"`
}

// New returns the default configuration.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		SpotifyAPIURL:      "https://api.spotify.com/v1",
		SpotifyAuthURL:     "https://accounts.spotify.com/api/token",
		FetchConcurrency:   4,
		MaxTracks:          500,
		CacheSize:          1_000,
		CacheTTLSeconds:    600,
		RateLimitPerMinute: 10,
		DBPath:             "clout.db",
		HistoryLimit:       100,
	}
}

// TimeoutUntilTime parses TimeoutUntil. Returns the zero time when the
// gate is disabled and ErrInvalidConfig on a malformed timestamp.
func (c *Config) TimeoutUntilTime() (time.Time, error) {
	if c.TimeoutUntil == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, c.TimeoutUntil)
	if err != nil {
		return time.Time{}, ErrInvalidConfig
	}
	return t, nil
}
