// Package serial opens the sensor's serial endpoint with go.bug.st/serial.
package serial

import (
	"errors"
	"fmt"
	"time"

	"go.bug.st/serial"

	"github.com/bft-labs/climalog/internal/domain"
)

// Defaults for the sensor link.
const (
	DefaultBaudRate    = 57600
	DefaultReadTimeout = 2000 * time.Millisecond
)

// Options configures the serial link.
type Options struct {
	Path        string
	BaudRate    int
	ReadTimeout time.Duration
}

// openFunc is swapped in tests.
var openFunc = serial.Open

// Open opens the device at opts.Path with 8N1 framing and the configured
// read timeout. Every failure wraps domain.ErrDeviceOpen.
func Open(opts Options) (serial.Port, error) {
	port, err := openFunc(opts.Path, &serial.Mode{
		BaudRate: opts.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("%w %q: %s", domain.ErrDeviceOpen, opts.Path, describe(err))
	}

	if err := port.SetReadTimeout(opts.ReadTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("%w %q: set read timeout: %s", domain.ErrDeviceOpen, opts.Path, describe(err))
	}

	return port, nil
}

// ListPorts returns the names of the serial ports present on the system.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %s", describe(err))
	}
	return ports, nil
}

// describe turns library error codes into operator-facing text.
func describe(err error) string {
	var portErr *serial.PortError
	if !errors.As(err, &portErr) {
		var valueErr serial.PortError
		if !errors.As(err, &valueErr) {
			return err.Error()
		}
		portErr = &valueErr
	}
	switch portErr.Code() {
	case serial.PortNotFound:
		return "device not found"
	case serial.PermissionDenied:
		return "permission denied"
	case serial.PortBusy:
		return "device busy"
	case serial.InvalidSpeed:
		return "unsupported baud rate"
	case serial.InvalidTimeoutValue:
		return "invalid read timeout"
	default:
		return portErr.Error()
	}
}
