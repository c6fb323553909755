package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (CLIMALOG_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("device", os.Getenv("CLIMALOG_DEVICE"), &cfg.Device)
	s.setString("delimiter", os.Getenv("CLIMALOG_DELIMITER"), &cfg.Delimiter)
	s.setString("field-separator", os.Getenv("CLIMALOG_FIELD_SEPARATOR"), &cfg.FieldSeparator)
	s.setString("temperature-prefix", os.Getenv("CLIMALOG_TEMPERATURE_PREFIX"), &cfg.TemperaturePrefix)
	s.setString("humidity-prefix", os.Getenv("CLIMALOG_HUMIDITY_PREFIX"), &cfg.HumidityPrefix)
	s.setString("storage", os.Getenv("CLIMALOG_STORAGE_PATH"), &cfg.StoragePath)
	s.setString("dedup", os.Getenv("CLIMALOG_DEDUP"), &cfg.Dedup)
	s.setString("log-level", os.Getenv("CLIMALOG_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("read-timeout", os.Getenv("CLIMALOG_READ_TIMEOUT"), &cfg.ReadTimeout); err != nil {
		return err
	}
	if err := s.setDuration("poll", os.Getenv("CLIMALOG_POLL_INTERVAL"), &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("utc-offset", os.Getenv("CLIMALOG_UTC_OFFSET"), &cfg.UTCOffset); err != nil {
		return err
	}

	if err := s.setIntFromString("baud", os.Getenv("CLIMALOG_BAUD_RATE"), &cfg.BaudRate); err != nil {
		return err
	}
	if err := s.setIntFromString("chunk-size", os.Getenv("CLIMALOG_CHUNK_SIZE"), &cfg.ChunkSize); err != nil {
		return err
	}
	if err := s.setIntFromString("batch-capacity", os.Getenv("CLIMALOG_BATCH_CAPACITY"), &cfg.BatchCapacity); err != nil {
		return err
	}

	s.setBoolFromString("plain", os.Getenv("CLIMALOG_PLAIN"), &cfg.Plain)

	return nil
}
