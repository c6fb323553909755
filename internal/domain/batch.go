package domain

import "slices"

// DefaultBatchCapacity is the number of readings collected per flush.
const DefaultBatchCapacity = 10

// Batch is a bounded, ordered sequence of readings.
// It never holds more than its capacity.
type Batch struct {
	readings []Reading
	capacity int
}

// NewBatch creates an empty batch holding at most capacity readings.
// Capacities below one are raised to one.
func NewBatch(capacity int) *Batch {
	if capacity < 1 {
		capacity = 1
	}
	return &Batch{
		readings: make([]Reading, 0, capacity),
		capacity: capacity,
	}
}

// Add appends a copy of r. It returns false, leaving the batch
// unchanged, when the batch is already full.
func (b *Batch) Add(r Reading) bool {
	if b.Full() {
		return false
	}
	b.readings = append(b.readings, r)
	return true
}

// Len returns the number of readings held.
func (b *Batch) Len() int {
	return len(b.readings)
}

// Cap returns the batch capacity.
func (b *Batch) Cap() int {
	return b.capacity
}

// Full returns true once the batch holds capacity readings.
func (b *Batch) Full() bool {
	return len(b.readings) >= b.capacity
}

// Empty returns true if the batch holds no readings.
func (b *Batch) Empty() bool {
	return len(b.readings) == 0
}

// Readings returns a copy of the held readings in insertion order.
func (b *Batch) Readings() []Reading {
	return slices.Clone(b.readings)
}

// Reset clears the batch for reuse.
func (b *Batch) Reset() {
	b.readings = b.readings[:0]
}

// Compact returns the held readings sorted with Compare and with adjacent
// duplicates removed. Each reading is tested against the last reading kept,
// so a run of matches collapses onto its first element. The batch itself is
// not modified.
func (b *Batch) Compact(same func(a, b Reading) bool) []Reading {
	out := slices.Clone(b.readings)
	slices.SortStableFunc(out, Compare)
	return dedupAdjacent(out, same)
}

func dedupAdjacent(sorted []Reading, same func(a, b Reading) bool) []Reading {
	if len(sorted) < 2 {
		return sorted
	}
	kept := sorted[:1]
	for _, r := range sorted[1:] {
		if same(r, kept[len(kept)-1]) {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}
