// Package config loads diskusage configuration from file, environment and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete diskusage configuration.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (DISKUSAGE_*)
//  2. Configuration file (YAML)
//  3. Default values
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging"`

	// Server contains HTTP server settings
	Server ServerConfig `mapstructure:"server"`

	// Cache selects and configures the directory size cache
	Cache CacheConfig `mapstructure:"cache"`

	// Limits bounds the top-n sizes clients may ask for
	Limits LimitsConfig `mapstructure:"limits"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR"`

	// Format specifies the log output format
	// Valid values: auto, text, json. auto picks text on a terminal.
	Format string `mapstructure:"format" validate:"required,oneof=auto text json"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Address is the listen address
	Address string `mapstructure:"address" validate:"required,hostname_port"`

	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0"`
}

// CacheConfig specifies the size cache.
type CacheConfig struct {
	// Type specifies which store implementation to use
	// Valid values: badger, memory
	Type string `mapstructure:"type" validate:"required,oneof=badger memory"`

	// Dir is the BadgerDB directory, relative to the working directory unless absolute
	// Only used when Type = "badger"
	Dir string `mapstructure:"dir" validate:"required_if=Type badger"`

	// BlockCacheSizeMB is BadgerDB's block cache size in MB
	BlockCacheSizeMB int64 `mapstructure:"block_cache_size_mb" validate:"gte=0"`

	// IndexCacheSizeMB is BadgerDB's index cache size in MB
	IndexCacheSizeMB int64 `mapstructure:"index_cache_size_mb" validate:"gte=0"`
}

// LimitsConfig bounds top-n requests.
type LimitsConfig struct {
	// Files is the default number of largest files reported
	Files int `mapstructure:"files" validate:"gt=0,ltefield=Max"`

	// Dirs is the default number of largest directories reported
	Dirs int `mapstructure:"dirs" validate:"gt=0,ltefield=Max"`

	// Max is the largest number of files or directories a request may ask for
	Max int `mapstructure:"max" validate:"gt=0"`
}

// Load loads configuration from file, environment, and defaults.
//
// An empty configPath searches $XDG_CONFIG_HOME/diskusage/config.yaml.
// A missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures viper with environment variables and config file settings.
func setupViper(v *viper.Viper, configPath string) {
	// Example: DISKUSAGE_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix("DISKUSAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only applies to keys viper knows about.
	for _, key := range []string{
		"logging.level", "logging.format",
		"server.address", "server.shutdown_timeout",
		"cache.type", "cache.dir", "cache.block_cache_size_mb", "cache.index_cache_size_mb",
		"limits.files", "limits.dirs", "limits.max",
	} {
		_ = v.BindEnv(key)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)

		return
	}

	v.AddConfigPath(getConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

// readConfigFile reads the configuration file if it exists.
func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("failed to read config file: %w", err)
	}

	return nil
}

// getConfigDir returns $XDG_CONFIG_HOME/diskusage, ~/.config/diskusage or ".".
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "diskusage")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "diskusage")
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}
