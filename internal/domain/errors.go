package domain

import "errors"

// Domain errors represent error conditions in the climalog domain.
// Fatal conditions are checked with errors.Is by the CLI.
var (
	// ErrDeviceOpen is returned when the serial device cannot be opened at startup.
	ErrDeviceOpen = errors.New("climalog: open device")

	// ErrStorageMissing is returned when the storage file does not exist at flush time.
	ErrStorageMissing = errors.New("climalog: storage file missing")

	// ErrStorageExists is returned by storage initialization when the file is already present.
	ErrStorageExists = errors.New("climalog: storage file already exists")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("climalog: invalid configuration")

	// ErrMalformedFrame is returned when no segment of a frame yields a reading.
	ErrMalformedFrame = errors.New("climalog: malformed frame")

	// ErrAlreadyRunning is returned when Start is called on a running monitor.
	ErrAlreadyRunning = errors.New("climalog: already running")

	// ErrNotRunning is returned when Stop is called on a monitor that is not running.
	ErrNotRunning = errors.New("climalog: not running")

	// ErrShutdownTimeout is returned when the loop does not stop in time.
	ErrShutdownTimeout = errors.New("climalog: shutdown timeout")
)

// IsFatal reports whether err must stop the process.
func IsFatal(err error) bool {
	return errors.Is(err, ErrDeviceOpen) || errors.Is(err, ErrStorageMissing)
}
