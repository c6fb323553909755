package ports

import "github.com/bft-labs/climalog/internal/domain"

// Snapshot is what the display receives once per cycle.
type Snapshot struct {
	// Reading is the current reading, including failed-parse cycles
	Reading domain.Reading

	// Buffered is the number of readings waiting for the next flush
	Buffered int

	// Capacity is the batch capacity
	Capacity int
}

// Display renders the loop state. Render failures never affect ingestion.
type Display interface {
	Render(s Snapshot)
}
