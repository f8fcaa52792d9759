package config

import (
	"strings"
	"time"
)

const (
	// DefaultAddress matches the port the web UI has always used.
	DefaultAddress = "127.0.0.1:7621"
	// DefaultCacheDir is the size cache directory, relative to the working directory.
	DefaultCacheDir = "directory_sizes"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
// Zero values are replaced, explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyServerDefaults(&cfg.Server)
	applyCacheDefaults(&cfg.Cache)
	applyLimitsDefaults(&cfg.Limits)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}

	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "auto"
	}

	cfg.Format = strings.ToLower(cfg.Format)
}

func applyServerDefaults(cfg *ServerConfig) {
	if cfg.Address == "" {
		cfg.Address = DefaultAddress
	}

	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
}

func applyCacheDefaults(cfg *CacheConfig) {
	if cfg.Type == "" {
		cfg.Type = "badger"
	}

	cfg.Type = strings.ToLower(cfg.Type)

	if cfg.Dir == "" {
		cfg.Dir = DefaultCacheDir
	}
}

func applyLimitsDefaults(cfg *LimitsConfig) {
	if cfg.Files == 0 {
		cfg.Files = 10
	}

	if cfg.Dirs == 0 {
		cfg.Dirs = 10
	}

	if cfg.Max == 0 {
		cfg.Max = 10000
	}
}
