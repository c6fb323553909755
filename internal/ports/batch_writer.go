package ports

import "github.com/bft-labs/climalog/internal/domain"

// BatchWriter persists a flushed batch.
// Implementations append one record per reading, in the given order.
type BatchWriter interface {
	// Write appends readings to storage.
	// Returns an error wrapping domain.ErrStorageMissing if the target does not exist.
	// Failures of individual records are reported by the implementation and do
	// not stop the remaining records.
	Write(readings []domain.Reading) error
}
