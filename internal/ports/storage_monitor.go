package ports

// StorageMonitor watches the storage location between flushes.
type StorageMonitor interface {
	// Poll drains pending notifications without blocking.
	// It returns false when the storage file is known to be gone.
	Poll() bool
}
