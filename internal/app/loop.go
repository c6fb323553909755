package app

import (
	"context"
	"time"

	"github.com/bft-labs/climalog/internal/domain"
	"github.com/bft-labs/climalog/internal/frame"
	"github.com/bft-labs/climalog/internal/ports"
)

// Default loop timing.
const DefaultPollInterval = 900 * time.Millisecond

// LoopConfig contains configuration for the ingestion loop.
type LoopConfig struct {
	ChunkSize    int
	PollInterval time.Duration
	Location     *time.Location
	Parser       frame.Parser
}

// Loop polls the device and drives frames through parsing, batching
// and rendering. It is single-threaded; every step of a cycle completes
// before the next one starts.
type Loop struct {
	config  LoopConfig
	device  ports.Device
	buffer  *Buffer
	display ports.Display
	monitor ports.StorageMonitor
	logger  ports.Logger
	now     func() time.Time

	chunk   []byte
	current domain.Reading
}

// NewLoop creates a loop with the given dependencies.
// monitor may be nil.
func NewLoop(
	config LoopConfig,
	device ports.Device,
	buffer *Buffer,
	display ports.Display,
	monitor ports.StorageMonitor,
	logger ports.Logger,
	now func() time.Time,
) *Loop {
	if config.ChunkSize < 1 {
		config.ChunkSize = frame.DefaultChunkSize
	}
	if config.Location == nil {
		config.Location = domain.Zone(domain.DefaultUTCOffset)
	}
	if now == nil {
		now = time.Now
	}
	l := &Loop{
		config:  config,
		device:  device,
		buffer:  buffer,
		display: display,
		monitor: monitor,
		logger:  logger,
		now:     now,
		chunk:   make([]byte, config.ChunkSize),
	}
	l.touch()
	return l
}

// Run executes cycles until a fatal error occurs or ctx is canceled.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := l.Step(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.config.PollInterval):
		}
	}
}

// Step runs one cycle without the trailing sleep.
// Only fatal errors are returned; everything else is logged.
func (l *Loop) Step() error {
	l.touch()

	n, err := l.device.Read(l.chunk)
	if err != nil {
		l.logger.Warn("read error", ports.Err(err))
	} else if err := l.ingest(n); err != nil {
		return err
	}

	if l.monitor != nil {
		l.monitor.Poll()
	}

	l.display.Render(ports.Snapshot{
		Reading:  l.current,
		Buffered: l.buffer.Len(),
		Capacity: l.buffer.Cap(),
	})
	return nil
}

// ingest handles the n bytes just read.
func (l *Loop) ingest(n int) error {
	text, ok := frame.Extract(l.chunk, n, l.config.Parser.Delimiter)
	if !ok {
		l.touch()
		return nil
	}

	temp, hum, err := l.config.Parser.Parse(text)
	if err != nil {
		l.logger.Debug("frame rejected", ports.Err(err))
		l.touch()
		return nil
	}

	l.current.Update(temp, hum)
	l.touch()

	if _, err := l.buffer.Push(l.current); err != nil && domain.IsFatal(err) {
		return err
	}
	return nil
}

func (l *Loop) touch() {
	l.current.Touch(l.now(), l.config.Location)
}

// Current returns the reading the loop currently holds.
func (l *Loop) Current() domain.Reading {
	return l.current
}

// Buffered returns the number of readings waiting for the next flush.
func (l *Loop) Buffered() int {
	return l.buffer.Len()
}
