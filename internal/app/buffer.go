package app

import (
	"fmt"

	"github.com/bft-labs/climalog/internal/domain"
	"github.com/bft-labs/climalog/internal/ports"
)

// DedupPolicy selects the predicate that collapses adjacent sorted readings.
type DedupPolicy string

const (
	// DedupEither merges neighbors that tie on temperature or on humidity.
	DedupEither DedupPolicy = "either"

	// DedupExact merges only neighbors equal in all three fields.
	DedupExact DedupPolicy = "exact"
)

// Predicate returns the match function for the policy.
func (p DedupPolicy) Predicate() (func(a, b domain.Reading) bool, error) {
	switch p {
	case DedupEither, "":
		return domain.SharesField, nil
	case DedupExact:
		return domain.Identical, nil
	default:
		return nil, fmt.Errorf("%w: unknown dedup policy %q", domain.ErrInvalidConfig, string(p))
	}
}

// Buffer accumulates readings and writes them out once the batch fills.
type Buffer struct {
	batch  *domain.Batch
	writer ports.BatchWriter
	same   func(a, b domain.Reading) bool
	logger ports.Logger
}

// NewBuffer creates a buffer flushing to writer every capacity readings.
func NewBuffer(capacity int, policy DedupPolicy, writer ports.BatchWriter, logger ports.Logger) (*Buffer, error) {
	same, err := policy.Predicate()
	if err != nil {
		return nil, err
	}
	return &Buffer{
		batch:  domain.NewBatch(capacity),
		writer: writer,
		same:   same,
		logger: logger,
	}, nil
}

// Push stores a copy of r. If the batch is already full it is flushed
// and cleared first, so r starts the next batch. flushed reports whether a
// flush happened; r is stored even when that flush fails.
func (b *Buffer) Push(r domain.Reading) (flushed bool, err error) {
	if b.batch.Full() {
		flushed = true
		err = b.Flush()
	}
	b.batch.Add(r)
	return flushed, err
}

// Flush sorts and deduplicates the pending readings, hands them to the
// writer and clears the batch whether or not the write succeeded.
func (b *Buffer) Flush() error {
	if b.batch.Empty() {
		return nil
	}
	defer b.batch.Reset()

	rows := b.batch.Compact(b.same)
	if err := b.writer.Write(rows); err != nil {
		b.logger.Error("flush failed",
			ports.Int("pending", b.batch.Len()),
			ports.Err(err),
		)
		return err
	}

	b.logger.Info("batch flushed",
		ports.Int("rows", len(rows)),
		ports.Int("merged", b.batch.Len()-len(rows)),
	)
	return nil
}

// Len returns the number of readings waiting for the next flush.
func (b *Buffer) Len() int {
	return b.batch.Len()
}

// Cap returns the batch capacity.
func (b *Buffer) Cap() int {
	return b.batch.Cap()
}
