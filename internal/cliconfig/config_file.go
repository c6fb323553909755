package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Device            string `toml:"device"`
	BaudRate          int    `toml:"baud_rate"`
	ReadTimeout       string `toml:"read_timeout"`
	ChunkSize         int    `toml:"chunk_size"`
	Delimiter         string `toml:"delimiter"`
	FieldSeparator    string `toml:"field_separator"`
	TemperaturePrefix string `toml:"temperature_prefix"`
	HumidityPrefix    string `toml:"humidity_prefix"`
	BatchCapacity     int    `toml:"batch_capacity"`
	PollInterval      string `toml:"poll_interval"`
	StoragePath       string `toml:"storage_path"`
	UTCOffset         string `toml:"utc_offset"`
	Dedup             string `toml:"dedup"`
	LogLevel          string `toml:"log_level"`
	Plain             *bool  `toml:"plain"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.climalog/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".climalog", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("device", fc.Device, &cfg.Device)
	s.setString("delimiter", fc.Delimiter, &cfg.Delimiter)
	s.setString("field-separator", fc.FieldSeparator, &cfg.FieldSeparator)
	s.setString("temperature-prefix", fc.TemperaturePrefix, &cfg.TemperaturePrefix)
	s.setString("humidity-prefix", fc.HumidityPrefix, &cfg.HumidityPrefix)
	s.setString("storage", fc.StoragePath, &cfg.StoragePath)
	s.setString("dedup", fc.Dedup, &cfg.Dedup)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("read-timeout", fc.ReadTimeout, &cfg.ReadTimeout); err != nil {
		return err
	}
	if err := s.setDuration("poll", fc.PollInterval, &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("utc-offset", fc.UTCOffset, &cfg.UTCOffset); err != nil {
		return err
	}

	s.setInt("baud", fc.BaudRate, &cfg.BaudRate)
	s.setInt("chunk-size", fc.ChunkSize, &cfg.ChunkSize)
	s.setInt("batch-capacity", fc.BatchCapacity, &cfg.BatchCapacity)

	s.setBool("plain", fc.Plain, &cfg.Plain)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
