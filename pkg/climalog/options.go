package climalog

import (
	"io"
	"os"
	"time"

	logAdapter "github.com/bft-labs/climalog/internal/adapters/log"
	"github.com/bft-labs/climalog/internal/ports"
)

// Logger is the interface for structured logging.
type Logger = ports.Logger

// LogField represents a structured log field.
type LogField = ports.Field

// Device is the byte source a Monitor polls. serial.Port satisfies it.
type Device = ports.Device

// Display receives one snapshot per cycle.
type Display = ports.Display

// Snapshot is what a Display is asked to render.
type Snapshot = ports.Snapshot

// BatchWriter persists flushed batches.
type BatchWriter = ports.BatchWriter

// Option configures optional behavior of a Monitor.
type Option func(*options)

type options struct {
	logger       ports.Logger
	device       ports.Device
	display      ports.Display
	writer       ports.BatchWriter
	output       io.Writer
	now          func() time.Time
	stateHandler func(StateChangeEvent)
	watch        bool
}

func defaultOptions() options {
	return options{
		logger: logAdapter.NewNoopLogger(),
		output: os.Stdout,
		now:    time.Now,
		watch:  true,
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDevice supplies an already open device instead of opening
// Config.Device. The Monitor closes it on Stop.
func WithDevice(device Device) Option {
	return func(o *options) {
		o.device = device
	}
}

// WithDisplay replaces the terminal display.
func WithDisplay(display Display) Option {
	return func(o *options) {
		o.display = display
	}
}

// WithOutput sets the writer the terminal display draws on. Default: os.Stdout
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithBatchWriter replaces the CSV writer. Storage watching is disabled
// because there is no file to watch.
func WithBatchWriter(writer BatchWriter) Option {
	return func(o *options) {
		o.writer = writer
		o.watch = false
	}
}

// WithStorageWatch turns the storage file watcher on or off. Default: on
func WithStorageWatch(enabled bool) Option {
	return func(o *options) {
		o.watch = enabled
	}
}

// WithClock sets the time source used for reading timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithStateHandler registers a callback for lifecycle state changes.
// It is called synchronously from the goroutine causing the change.
func WithStateHandler(fn func(StateChangeEvent)) Option {
	return func(o *options) {
		o.stateHandler = fn
	}
}
