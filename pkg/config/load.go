package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns
// any errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Environment variables follow
// the naming convention BENCHVAULT_SECTION_FIELD (e.g.,
// BENCHVAULT_SERVER_LISTEN_ADDRESS) and always take precedence over
// file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// Default returns a configuration with every field at its default
// value, for running without a configuration file.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Variables use the format BENCHVAULT_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Repo overrides
	if val := os.Getenv("BENCHVAULT_REPO_URL"); val != "" {
		cfg.Repo.URL = val
	}

	// Server overrides
	if val := os.Getenv("BENCHVAULT_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("BENCHVAULT_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("BENCHVAULT_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("BENCHVAULT_SERVER_IDLE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.IdleTimeout = d
		}
	}
	if val := os.Getenv("BENCHVAULT_SERVER_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}

	// Storage overrides
	if val := os.Getenv("BENCHVAULT_STORAGE_BACKEND"); val != "" {
		cfg.Storage.Backend = val
	}
	if val := os.Getenv("BENCHVAULT_STORAGE_SQLITE_PATH"); val != "" {
		cfg.Storage.SQLite.Path = val
	}

	// Snapshot overrides
	if val := os.Getenv("BENCHVAULT_SNAPSHOT_PATH"); val != "" {
		cfg.Snapshot.Path = val
	}
	if val := os.Getenv("BENCHVAULT_SNAPSHOT_SCHEDULE"); val != "" {
		cfg.Snapshot.Schedule = val
	}
	if val := os.Getenv("BENCHVAULT_SNAPSHOT_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Snapshot.Watch = b
		}
	}

	// Detector overrides
	if val := os.Getenv("BENCHVAULT_DETECTOR_WINDOW"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Detector.Window = i
		}
	}
	if val := os.Getenv("BENCHVAULT_DETECTOR_THRESHOLD"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Detector.Threshold = f
		}
	}

	// Telemetry overrides
	if val := os.Getenv("BENCHVAULT_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("BENCHVAULT_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("BENCHVAULT_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
}
