package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brettbedarf/memfs/internal/util"
	"gopkg.in/yaml.v3"
)

// Config contains runtime configuration values for a memfs session.
type Config struct {
	LogLvl       util.LogLevel // Internal log level (Default info)
	Backend      string        // Registered persistence backend name (Default "memory")
	StorePath    string        // File path for on-disk backends (Default "memfs.db")
	StoreKey     string        // Key the tree is persisted under (Default "saveArray")
	HistoryLimit int           // Max navigation entries kept; 0 = unbounded (Default 100)
}

// ConfigOverride uses pointer fields to distinguish between unset and zero values
// when loading partial configuration. See [Config] for field descriptions.
type ConfigOverride struct {
	// LogLvl is the CLI style verbosity between 1 (error) and 5 (trace)
	LogLvl       *int    `yaml:"verbose,omitempty" json:"verbose,omitempty"`
	Backend      *string `yaml:"backend,omitempty" json:"backend,omitempty"`
	StorePath    *string `yaml:"store_path,omitempty" json:"store_path,omitempty"`
	StoreKey     *string `yaml:"store_key,omitempty" json:"store_key,omitempty"`
	HistoryLimit *int    `yaml:"history_limit,omitempty" json:"history_limit,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		LogLvl:       DefaultLogLvl,
		Backend:      DefaultBackend,
		StorePath:    DefaultStorePath,
		StoreKey:     DefaultStoreKey,
		HistoryLimit: DefaultHistoryLimit,
	}
}

// NewConfig returns the defaults with override applied. A nil override yields the defaults.
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
	if override.LogLvl != nil {
		c.LogLvl = util.LevelFromVerbosity(*override.LogLvl)
	}
	if override.Backend != nil {
		c.Backend = *override.Backend
	}
	if override.StorePath != nil {
		c.StorePath = *override.StorePath
	}
	if override.StoreKey != nil {
		c.StoreKey = *override.StoreKey
	}
	if override.HistoryLimit != nil {
		limit := *override.HistoryLimit
		if limit < 0 {
			limit = 0
		}
		c.HistoryLimit = limit
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
func NewConfigFromFile(path string) (*Config, error) {
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	return NewConfig(override), nil
}
