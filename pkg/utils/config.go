package utils

import (
	"maps"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Config holds the relay's settings, read from the environment and .env files
type Config struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewConfig creates a new Config instance with the provided key-value pairs
func NewConfig(values map[string]string) *Config {
	config := &Config{
		values: make(map[string]string),
	}

	maps.Copy(config.values, values)

	return config
}

// NewConfigFromEnv creates a new Config from the process environment after
// loading the given .env files
func NewConfigFromEnv(files ...string) *Config {
	return NewConfig(LoadEnv(files...))
}

// Get retrieves a configuration value by key
// Returns empty string if key doesn't exist
func (c *Config) Get(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[key]
}

// GetWithDefault retrieves a configuration value by key with a fallback default
func (c *Config) GetWithDefault(key, defaultValue string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if value, exists := c.values[key]; exists && value != "" {
		return value
	}
	return defaultValue
}

// GetFirst returns the first non-empty value among keys, or defaultValue
func (c *Config) GetFirst(defaultValue string, keys ...string) string {
	for _, key := range keys {
		if value := c.Get(key); value != "" {
			return value
		}
	}
	return defaultValue
}

// GetBool retrieves a configuration value as a boolean
// Returns false if key doesn't exist or cannot be parsed as boolean
func (c *Config) GetBool(key string) bool {
	return c.GetBoolWithDefault(key, false)
}

// GetBoolWithDefault retrieves a configuration value as a boolean with a fallback default.
// Values that are not recognised as booleans are logged and yield the default.
func (c *Config) GetBoolWithDefault(key string, defaultValue bool) bool {
	value := c.Get(key)
	if value == "" {
		return defaultValue
	}

	parsed, ok := parseBool(value)
	if !ok {
		logrus.WithField("module", "UTILS").Warnf("%s=%q is not a boolean, using %t", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func parseBool(value string) (bool, bool) {
	if parsed, err := strconv.ParseBool(value); err == nil {
		return parsed, true
	}

	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "on", "enabled":
		return true, true
	case "no", "off", "disabled":
		return false, true
	}
	return false, false
}

// GetIntWithDefault retrieves a configuration value as an integer with a fallback default
func (c *Config) GetIntWithDefault(key string, defaultValue int) int {
	value := c.Get(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// GetDurationWithDefault parses a value such as "50m" or "1h30m"
func (c *Config) GetDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := c.Get(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return defaultValue
	}
	return parsed
}
