package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/linefs/linefs/internal/util"
	"gopkg.in/yaml.v3"
)

// Default configuration constants. See [Config] for field descriptions.
const (
	// DefaultMaxRetries bounds the optimistic compare-and-set retry loop of
	// every mutating operation. Contention past this budget surfaces as a
	// version-conflict error rather than blocking.
	DefaultMaxRetries = 16

	// DefaultMaxGrepMatches caps matching lines reported per file by grep.
	// 0 means unlimited.
	DefaultMaxGrepMatches = 0

	// DefaultLogLvl is the default logger level
	DefaultLogLvl = util.InfoLevel
)

// Verbosity values accepted in overrides (CLI-style 1..5), mapped onto
// internal log levels by [verboseToLevel].
const (
	ErrorVerbose = 1
	WarnVerbose  = 2
	InfoVerbose  = 3
	DebugVerbose = 4
	TraceVerbose = 5
)

// Config contains runtime configuration values for the filesystem engine.
type Config struct {
	MaxRetries     int           // Retry budget for the compare-and-set write loop (Default 16)
	MaxGrepMatches int           // Max matching lines reported per file by grep; 0 = unlimited (Default 0)
	LogLvl         util.LogLevel // Logger level (Default InfoLevel)
}

// ConfigOverride uses pointer fields to distinguish between unset and zero
// values when loading partial configuration. See [Config] for field
// descriptions. LogLvl here is a 1..5 verbosity value, not a util.LogLevel.
type ConfigOverride struct {
	MaxRetries     *int `yaml:"max_retries,omitempty" json:"max_retries,omitempty"`
	MaxGrepMatches *int `yaml:"max_grep_matches,omitempty" json:"max_grep_matches,omitempty"`
	LogLvl         *int `yaml:"verbose,omitempty" json:"verbose,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		MaxRetries:     DefaultMaxRetries,
		MaxGrepMatches: DefaultMaxGrepMatches,
		LogLvl:         DefaultLogLvl,
	}
}

// NewConfig creates a Config from defaults plus an optional override.
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.MaxRetries != nil {
		c.MaxRetries = *override.MaxRetries
	}
	if override.MaxGrepMatches != nil {
		c.MaxGrepMatches = *override.MaxGrepMatches
	}
	if override.LogLvl != nil {
		c.LogLvl = verboseToLevel(*override.LogLvl)
	}
}

// verboseToLevel maps a 1..5 verbosity value (clamped) onto a util.LogLevel.
func verboseToLevel(v int) util.LogLevel {
	if v < ErrorVerbose {
		v = ErrorVerbose
	}
	if v > TraceVerbose {
		v = TraceVerbose
	}
	switch v {
	case ErrorVerbose:
		return util.ErrorLevel
	case WarnVerbose:
		return util.WarnLevel
	case DebugVerbose:
		return util.DebugLevel
	case TraceVerbose:
		return util.TraceLevel
	default:
		return util.InfoLevel
	}
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	// Determine format by file extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults.
// This is a convenience function that combines NewDefaultConfig, LoadConfigOverrideFile, and Merge.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	cfg.Merge(override)
	return cfg, nil
}
