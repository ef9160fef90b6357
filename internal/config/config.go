// Package config loads wavestream settings from TOML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "wavestream"

type Config struct {
	Backend  BackendConfig  `koanf:"backend"`
	Stream   StreamConfig   `koanf:"stream"`
	Playback PlaybackConfig `koanf:"playback"`
	Log      LogConfig      `koanf:"log"`

	// Last.fm "now playing" updates (enabled when fully configured)
	Lastfm LastfmConfig `koanf:"lastfm"`

	Lyrics LyricsConfig `koanf:"lyrics"`
	MPRIS  MPRISConfig  `koanf:"mpris"`
	Notify NotifyConfig `koanf:"notify"`

	// DatabasePath overrides the XDG data location of the state database.
	DatabasePath string `koanf:"database_path"`
}

// BackendConfig locates the music backend.
type BackendConfig struct {
	URL            string `koanf:"url"` // e.g., "https://music.example.com/api"
	Token          string `koanf:"token"`
	TimeoutSeconds int    `koanf:"timeout_seconds"` // default: 15
}

// StreamConfig controls audio downloads.
type StreamConfig struct {
	CacheDir   string `koanf:"cache_dir"` // default: XDG cache dir
	MaxBytes   int64  `koanf:"max_bytes"` // default: 512 MiB
	S3Region   string `koanf:"s3_region"`
	S3Endpoint string `koanf:"s3_endpoint"` // for S3-compatible stores
}

// PlaybackConfig holds engine tuning.
type PlaybackConfig struct {
	HistoryDepth            int `koanf:"history_depth"`             // 1-1000, default: 100
	RestartThresholdSeconds int `koanf:"restart_threshold_seconds"` // default: 3
	ReportTimeoutSeconds    int `koanf:"report_timeout_seconds"`    // default: 10
}

// LogConfig configures the file logger.
type LogConfig struct {
	Level string `koanf:"level"` // debug, info, warn, error (default: info)
	File  string `koanf:"file"`  // default: XDG state dir
}

// LastfmConfig holds Last.fm credentials.
type LastfmConfig struct {
	APIKey     string `koanf:"api_key"`
	APISecret  string `koanf:"api_secret"`
	SessionKey string `koanf:"session_key"`
}

// LyricsConfig toggles the lrclib.net lyrics fallback.
type LyricsConfig struct {
	Lrclib bool `koanf:"lrclib"`
}

// MPRISConfig toggles the D-Bus media player interface.
type MPRISConfig struct {
	Enabled *bool `koanf:"enabled"` // default: true
}

// NotifyConfig toggles desktop notifications on track change.
type NotifyConfig struct {
	Enabled bool `koanf:"enabled"`
}

// Load reads the user config then ./config.toml (last wins).
func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom reads the given files in order; missing files are skipped.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// Normalize backend URL (remove trailing slash)
	cfg.Backend.URL = strings.TrimSuffix(cfg.Backend.URL, "/")

	cfg.Stream.CacheDir = expandPath(cfg.Stream.CacheDir)
	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.DatabasePath = expandPath(cfg.DatabasePath)

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/wavestream/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// HasBackend returns true if a backend URL is configured.
func (c *Config) HasBackend() bool {
	return c.Backend.URL != ""
}

// HasLastfmConfig returns true if Last.fm updates are fully configured.
func (c *Config) HasLastfmConfig() bool {
	return c.Lastfm.APIKey != "" && c.Lastfm.APISecret != "" && c.Lastfm.SessionKey != ""
}

// MPRISEnabled reports whether the MPRIS interface should be exported.
func (c *Config) MPRISEnabled() bool {
	return c.MPRIS.Enabled == nil || *c.MPRIS.Enabled
}

// BackendTimeout returns the backend request timeout with defaults applied.
func (c *Config) BackendTimeout() time.Duration {
	if c.Backend.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// PlaybackSettings returns the playback configuration with defaults applied.
func (c *Config) PlaybackSettings() PlaybackConfig {
	cfg := c.Playback

	// Apply defaults
	if cfg.HistoryDepth <= 0 || cfg.HistoryDepth > 1000 {
		cfg.HistoryDepth = 100
	}
	if cfg.RestartThresholdSeconds <= 0 {
		cfg.RestartThresholdSeconds = 3
	}
	if cfg.ReportTimeoutSeconds <= 0 {
		cfg.ReportTimeoutSeconds = 10
	}

	return cfg
}

// RestartThreshold returns how far into a track "previous" restarts it.
func (p PlaybackConfig) RestartThreshold() time.Duration {
	return time.Duration(p.RestartThresholdSeconds) * time.Second
}

// ReportTimeout bounds each best-effort playback report.
func (p PlaybackConfig) ReportTimeout() time.Duration {
	return time.Duration(p.ReportTimeoutSeconds) * time.Second
}

// LogLevel returns the configured level, "info" when unset.
func (c *Config) LogLevel() string {
	if c.Log.Level == "" {
		return "info"
	}
	return strings.ToLower(c.Log.Level)
}
