// Package ports defines the interfaces that connect the ingestion loop
// to infrastructure adapters.
//
// # Port Interfaces
//
//   - [Device]: reads raw byte chunks from the serial sensor
//   - [BatchWriter]: appends flushed batches to storage
//   - [StorageMonitor]: reports storage disappearance between flushes
//   - [Display]: renders the current reading and buffer occupancy
//   - [Logger]: structured logging abstraction
//
// The application layer (internal/app) depends only on these interfaces.
// Adapters in internal/adapters implement them with go.bug.st/serial,
// encoding/csv, fsnotify, lipgloss and zerolog.
package ports
