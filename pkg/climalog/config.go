package climalog

import (
	"fmt"
	"time"

	"github.com/bft-labs/climalog/internal/adapters/serial"
	"github.com/bft-labs/climalog/internal/app"
	"github.com/bft-labs/climalog/internal/domain"
	"github.com/bft-labs/climalog/internal/frame"
)

// Reading is one temperature/humidity sample with its capture time.
type Reading = domain.Reading

// DedupPolicy selects how adjacent sorted readings are merged at flush time.
type DedupPolicy = app.DedupPolicy

// Dedup policies.
const (
	DedupEither = app.DedupEither
	DedupExact  = app.DedupExact
)

// Config holds the configuration for a Monitor.
// Use DefaultConfig() to get a Config with the sensor's defaults.
type Config struct {
	// Device is the serial device path. Default: /dev/ttyACM0
	Device string

	// BaudRate of the serial link. Default: 57600
	BaudRate int

	// ReadTimeout bounds every device read. Default: 2s
	ReadTimeout time.Duration

	// ChunkSize is the number of bytes requested per read. Default: 12
	ChunkSize int

	// Delimiter ends a frame. Default: ';'
	Delimiter byte

	// FieldSeparator splits a frame segment into fields. Default: ','
	FieldSeparator byte

	// TemperaturePrefix and HumidityPrefix are stripped from the fields.
	// Defaults: "t" and "h"
	TemperaturePrefix string
	HumidityPrefix    string

	// BatchCapacity is the number of readings per flush. Default: 10
	BatchCapacity int

	// PollInterval is the pause between cycles. Default: 900ms
	PollInterval time.Duration

	// StoragePath is the CSV file readings are appended to. It must exist.
	StoragePath string

	// UTCOffset is the fixed zone used for timestamps. Default: +2h.
	// Use Offset(0) for UTC.
	UTCOffset *time.Duration

	// Dedup selects the merge predicate. Default: DedupEither
	Dedup DedupPolicy

	// Plain disables in-place terminal redraw.
	Plain bool
}

// DefaultConfig returns a Config with default values.
// StoragePath must still be set before calling New.
func DefaultConfig() Config {
	parser := frame.DefaultParser()
	return Config{
		Device:            "/dev/ttyACM0",
		BaudRate:          serial.DefaultBaudRate,
		ReadTimeout:       serial.DefaultReadTimeout,
		ChunkSize:         frame.DefaultChunkSize,
		Delimiter:         parser.Delimiter,
		FieldSeparator:    parser.Separator,
		TemperaturePrefix: parser.TemperaturePrefix,
		HumidityPrefix:    parser.HumidityPrefix,
		BatchCapacity:     domain.DefaultBatchCapacity,
		PollInterval:      app.DefaultPollInterval,
		UTCOffset:         Offset(domain.DefaultUTCOffset),
		Dedup:             DedupEither,
	}
}

// Offset returns a pointer to d, for Config.UTCOffset.
func Offset(d time.Duration) *time.Duration {
	return &d
}

// SetDefaults fills zero-valued fields.
func (c *Config) SetDefaults() {
	d := DefaultConfig()
	if c.Device == "" {
		c.Device = d.Device
	}
	if c.BaudRate <= 0 {
		c.BaudRate = d.BaudRate
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = d.ChunkSize
	}
	if c.Delimiter == 0 {
		c.Delimiter = d.Delimiter
	}
	if c.FieldSeparator == 0 {
		c.FieldSeparator = d.FieldSeparator
	}
	if c.TemperaturePrefix == "" {
		c.TemperaturePrefix = d.TemperaturePrefix
	}
	if c.HumidityPrefix == "" {
		c.HumidityPrefix = d.HumidityPrefix
	}
	if c.BatchCapacity <= 0 {
		c.BatchCapacity = d.BatchCapacity
	}
	if c.PollInterval <= 0 {
		c.PollInterval = d.PollInterval
	}
	if c.UTCOffset == nil {
		c.UTCOffset = d.UTCOffset
	}
	if c.Dedup == "" {
		c.Dedup = d.Dedup
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.StoragePath == "" {
		return fmt.Errorf("%w: storage path is required", domain.ErrInvalidConfig)
	}
	if c.Delimiter == c.FieldSeparator {
		return fmt.Errorf("%w: delimiter and field separator must differ", domain.ErrInvalidConfig)
	}
	if _, err := c.Dedup.Predicate(); err != nil {
		return err
	}
	return nil
}

func (c *Config) parser() frame.Parser {
	return frame.Parser{
		Delimiter:         c.Delimiter,
		Separator:         c.FieldSeparator,
		TemperaturePrefix: c.TemperaturePrefix,
		HumidityPrefix:    c.HumidityPrefix,
	}
}
