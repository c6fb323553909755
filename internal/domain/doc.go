// Package domain contains the core entities of climalog.
//
// It has no dependencies on infrastructure concerns (serial ports, files,
// logging) and holds only the data model and its rules.
//
// # Entities
//
//   - [Reading]: one validated temperature/humidity sample with its capture time
//   - [Batch]: a bounded sequence of readings waiting to be flushed
//
// Readings are ordered by [Compare]. Before a flush, a batch is sorted and
// adjacent readings are collapsed with a match predicate, by default
// [SharesField], which treats two readings as duplicates when either the
// temperature or the humidity ties.
package domain
