package ports

// Device is the sensor byte source.
// Implementations block for at most their configured read timeout.
type Device interface {
	// Read fills p with up to len(p) bytes from the device.
	// A timeout with no data may return (0, nil).
	// Errors are transport failures; the caller retries on the next cycle.
	Read(p []byte) (int, error)

	// Close releases the underlying port.
	Close() error
}
