package cliconfig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bft-labs/climalog/internal/domain"
)

// Defaults for the sensor link and storage.
const (
	DefaultDevice      = "/dev/ttyACM0"
	DefaultStoragePath = "temp_hum.csv"
)

// Config holds CLI configuration for climalog.
type Config struct {
	Device      string
	BaudRate    int
	ReadTimeout time.Duration
	ChunkSize   int

	Delimiter         string
	FieldSeparator    string
	TemperaturePrefix string
	HumidityPrefix    string

	BatchCapacity int
	PollInterval  time.Duration
	StoragePath   string
	UTCOffset     time.Duration
	Dedup         string

	LogLevel string
	Plain    bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Device:            DefaultDevice,
		BaudRate:          57600,
		ReadTimeout:       2000 * time.Millisecond,
		ChunkSize:         12,
		Delimiter:         ";",
		FieldSeparator:    ",",
		TemperaturePrefix: "t",
		HumidityPrefix:    "h",
		BatchCapacity:     domain.DefaultBatchCapacity,
		PollInterval:      900 * time.Millisecond,
		StoragePath:       DefaultStoragePath,
		UTCOffset:         domain.DefaultUTCOffset,
		Dedup:             "either",
		LogLevel:          "info",
	}
}

// Validate checks the configuration for errors.
// Every returned error wraps domain.ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.Device == "" {
		return invalid("device is required")
	}
	if c.StoragePath == "" {
		return invalid("storage path is required")
	}
	if c.BaudRate <= 0 {
		return invalid("baud rate must be positive")
	}
	if c.ReadTimeout <= 0 {
		return invalid("read timeout must be positive")
	}
	if c.PollInterval <= 0 {
		return invalid("poll interval must be positive")
	}
	if c.ChunkSize < 1 {
		return invalid("chunk size must be at least 1")
	}
	if c.BatchCapacity < 1 {
		return invalid("batch capacity must be at least 1")
	}
	if len(c.Delimiter) != 1 {
		return invalid("delimiter must be a single byte, got %q", c.Delimiter)
	}
	if len(c.FieldSeparator) != 1 {
		return invalid("field separator must be a single byte, got %q", c.FieldSeparator)
	}
	if c.Delimiter == c.FieldSeparator {
		return invalid("delimiter and field separator must differ")
	}
	if c.UTCOffset < -14*time.Hour || c.UTCOffset > 14*time.Hour {
		return invalid("utc offset %v out of range", c.UTCOffset)
	}
	if c.Dedup != "either" && c.Dedup != "exact" {
		return invalid("dedup must be either or exact, got %q", c.Dedup)
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{domain.ErrInvalidConfig}, args...)...)
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
