package docgen

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config contains all configuration options for the population engine
type Config struct {
	// CacheMaxSize is the maximum number of templates to cache. 0 disables caching.
	CacheMaxSize int `yaml:"cache_max_size"`
	// CacheTTL is the time-to-live for cached templates. 0 means no expiration.
	CacheTTL time.Duration `yaml:"cache_ttl"`
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string `yaml:"log_level"`
	// NewlinesToBreaks converts embedded line breaks in substituted values
	// into explicit w:br elements instead of literal control characters.
	NewlinesToBreaks bool `yaml:"newlines_to_breaks"`
	// RenderErrorReport renders collected population errors as a visible,
	// bookmarked section prepended to the output document.
	RenderErrorReport bool `yaml:"render_error_report"`
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

func init() {
	configOnce.Do(func() {
		globalConfig = ConfigFromEnvironment()
	})
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		CacheMaxSize:      100,
		CacheTTL:          0,
		LogLevel:          "info",
		NewlinesToBreaks:  true,
		RenderErrorReport: false,
	}
}

// ConfigFromEnvironment creates a configuration from environment variables
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	// DOCGEN_CACHE_MAX_SIZE
	if val := os.Getenv("DOCGEN_CACHE_MAX_SIZE"); val != "" {
		if size, err := strconv.Atoi(val); err == nil {
			config.CacheMaxSize = size
		}
	}

	// DOCGEN_CACHE_TTL
	if val := os.Getenv("DOCGEN_CACHE_TTL"); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.CacheTTL = duration
		}
	}

	// DOCGEN_LOG_LEVEL
	if val := os.Getenv("DOCGEN_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	// DOCGEN_NEWLINES_TO_BREAKS
	if val := os.Getenv("DOCGEN_NEWLINES_TO_BREAKS"); val != "" {
		config.NewlinesToBreaks = parseBool(val)
	}

	// DOCGEN_RENDER_ERROR_REPORT
	if val := os.Getenv("DOCGEN_RENDER_ERROR_REPORT"); val != "" {
		config.RenderErrorReport = parseBool(val)
	}

	return config
}

// ConfigFromFile loads configuration from a YAML file, with environment
// variables taking precedence over file values.
func ConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Environment overrides file settings
	applyEnvironmentOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func applyEnvironmentOverrides(config *Config) {
	env := ConfigFromEnvironment()
	defaults := DefaultConfig()

	if env.CacheMaxSize != defaults.CacheMaxSize {
		config.CacheMaxSize = env.CacheMaxSize
	}
	if env.CacheTTL != defaults.CacheTTL {
		config.CacheTTL = env.CacheTTL
	}
	if env.LogLevel != defaults.LogLevel {
		config.LogLevel = env.LogLevel
	}
	if env.NewlinesToBreaks != defaults.NewlinesToBreaks {
		config.NewlinesToBreaks = env.NewlinesToBreaks
	}
	if env.RenderErrorReport != defaults.RenderErrorReport {
		config.RenderErrorReport = env.RenderErrorReport
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.CacheMaxSize < 0 {
		return errors.New("cache max size cannot be negative")
	}

	if c.CacheTTL < 0 {
		return errors.New("cache TTL cannot be negative")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}

	if !validLogLevels[c.LogLevel] {
		return errors.New("invalid log level: " + c.LogLevel)
	}

	return nil
}

// GetGlobalConfig returns the global configuration
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}

	// Return a copy to prevent modification
	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	// Update logger based on new config (outside the lock to avoid deadlock)
	UpdateLoggerFromConfig()
}

// parseBool parses a boolean value from a string
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
