package climalog

import (
	"context"
	"errors"
	"sync"

	"github.com/bft-labs/climalog/internal/adapters/console"
	"github.com/bft-labs/climalog/internal/adapters/csvfile"
	logAdapter "github.com/bft-labs/climalog/internal/adapters/log"
	"github.com/bft-labs/climalog/internal/adapters/serial"
	"github.com/bft-labs/climalog/internal/app"
	"github.com/bft-labs/climalog/internal/domain"
	"github.com/bft-labs/climalog/internal/ports"
)

// Errors a caller may want to match with errors.Is.
var (
	ErrDeviceOpen      = domain.ErrDeviceOpen
	ErrStorageMissing  = domain.ErrStorageMissing
	ErrInvalidConfig   = domain.ErrInvalidConfig
	ErrAlreadyRunning  = domain.ErrAlreadyRunning
	ErrNotRunning      = domain.ErrNotRunning
	ErrShutdownTimeout = domain.ErrShutdownTimeout
)

// IsFatal reports whether err means the monitor cannot continue.
func IsFatal(err error) bool {
	return domain.IsFatal(err)
}

// State is the lifecycle state of a Monitor.
type State = app.State

// Lifecycle states.
const (
	StateStopped  = app.StateStopped
	StateStarting = app.StateStarting
	StateRunning  = app.StateRunning
	StateStopping = app.StateStopping
	StateCrashed  = app.StateCrashed
)

// StateChangeEvent describes one lifecycle transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// Monitor reads the sensor, batches readings and appends them to storage.
// Use New() to create an instance, then Start() to begin sampling.
type Monitor struct {
	config    Config
	opts      options
	lifecycle *app.Lifecycle
	logger    ports.Logger

	mu      sync.Mutex
	device  ports.Device
	watcher *csvfile.Watcher
	loop    *app.Loop
}

// New creates a Monitor in StateStopped. Nothing is opened until Start.
func New(cfg Config, opts ...Option) (*Monitor, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logAdapter.NewNoopLogger()
	}

	m := &Monitor{
		config: cfg,
		opts:   o,
		logger: o.logger,
	}
	m.lifecycle = app.NewLifecycle(o.logger, m)
	return m, nil
}

// OnStateChange implements app.EventEmitter.
func (m *Monitor) OnStateChange(previous, current app.State, reason string) {
	if m.opts.stateHandler == nil {
		return
	}
	m.opts.stateHandler(StateChangeEvent{Previous: previous, Current: current, Reason: reason})
}

// Start opens the device and launches the sampling loop in the background.
// A device that cannot be opened is returned as an error wrapping
// ErrDeviceOpen and leaves the Monitor in StateCrashed.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}
	if err := m.lifecycle.TransitionTo(app.StateStarting, "Start() called"); err != nil {
		return err
	}

	loop, err := m.build()
	if err != nil {
		m.release()
		_ = m.lifecycle.TransitionTo(app.StateCrashed, err.Error())
		return err
	}
	m.loop = loop

	if err := m.lifecycle.TransitionTo(app.StateRunning, "device open"); err != nil {
		m.release()
		return err
	}
	m.lifecycle.Launch(ctx, loop.Run)
	return nil
}

// build wires the adapters for one run.
func (m *Monitor) build() (*app.Loop, error) {
	cfg := m.config

	device := m.opts.device
	if device == nil {
		port, err := serial.Open(serial.Options{
			Path:        cfg.Device,
			BaudRate:    cfg.BaudRate,
			ReadTimeout: cfg.ReadTimeout,
		})
		if err != nil {
			return nil, err
		}
		device = port
		m.logger.Info("device open",
			ports.String("device", cfg.Device),
			ports.Int("baud", cfg.BaudRate),
		)
	}
	m.device = device

	writer := m.opts.writer
	if writer == nil {
		writer = csvfile.NewWriter(cfg.StoragePath, m.logger)
	}

	var monitor ports.StorageMonitor
	if m.opts.watch {
		w, err := csvfile.NewWatcher(cfg.StoragePath, m.logger)
		if err != nil {
			m.logger.Warn("storage watch disabled", ports.Err(err))
		} else {
			m.watcher = w
			monitor = w
		}
	}

	display := m.opts.display
	if display == nil {
		display = console.New(m.opts.output, console.Options{Plain: cfg.Plain})
	}

	buffer, err := app.NewBuffer(cfg.BatchCapacity, cfg.Dedup, writer, m.logger)
	if err != nil {
		return nil, err
	}

	return app.NewLoop(app.LoopConfig{
		ChunkSize:    cfg.ChunkSize,
		PollInterval: cfg.PollInterval,
		Location:     domain.Zone(*cfg.UTCOffset),
		Parser:       cfg.parser(),
	}, device, buffer, display, monitor, m.logger, m.opts.now), nil
}

// Stop cancels the loop, waits for the current cycle to finish and
// closes the device. Readings still buffered are not written.
// Stop on a crashed Monitor only releases its resources.
func (m *Monitor) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lifecycle.State() == app.StateCrashed {
		m.release()
		return nil
	}
	if !m.lifecycle.CanStop() {
		return domain.ErrNotRunning
	}
	if err := m.lifecycle.TransitionTo(app.StateStopping, "Stop() called"); err != nil {
		// The loop crashed between the checks above.
		m.release()
		return nil
	}

	m.lifecycle.Cancel()
	err := m.lifecycle.WaitWithTimeout(app.ShutdownTimeout)
	m.release()

	if err != nil {
		_ = m.lifecycle.TransitionTo(app.StateCrashed, "shutdown timeout")
		return err
	}
	_ = m.lifecycle.TransitionTo(app.StateStopped, "graceful shutdown")
	return nil
}

// release closes what build opened. Callers hold m.mu.
func (m *Monitor) release() {
	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			m.logger.Warn("close storage watcher", ports.Err(err))
		}
		m.watcher = nil
	}
	if m.device != nil {
		if err := m.device.Close(); err != nil {
			m.logger.Warn("close device", ports.Err(err))
		}
		m.device = nil
	}
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (m *Monitor) Status() State {
	return m.lifecycle.State()
}

// Done returns a channel closed when the loop returns, either after Stop
// or because of a fatal error. It is nil before Start.
func (m *Monitor) Done() <-chan struct{} {
	return m.lifecycle.Done()
}

// Err returns the fatal error that stopped the loop, if any.
func (m *Monitor) Err() error {
	return m.lifecycle.Err()
}

// Run starts a Monitor and blocks until ctx is canceled or a fatal error
// stops the loop. The fatal error, if any, is returned.
func Run(ctx context.Context, cfg Config, opts ...Option) error {
	m, err := New(cfg, opts...)
	if err != nil {
		return err
	}
	if err := m.Start(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case <-m.Done():
	}

	stopErr := m.Stop()
	if err := m.Err(); err != nil {
		return err
	}
	if errors.Is(stopErr, domain.ErrNotRunning) {
		return nil
	}
	return stopErr
}
