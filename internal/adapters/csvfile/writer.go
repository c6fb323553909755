// Package csvfile persists readings to an append-only CSV file.
package csvfile

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/bft-labs/climalog/internal/domain"
	"github.com/bft-labs/climalog/internal/ports"
)

// Header is the column row written by Init. Write never emits it.
var Header = []string{"Temperature (C)", "Humidity (%)", "Time"}

// openAppend opens the storage file for appending. Tests replace it.
var openAppend = func(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
}

// Writer implements ports.BatchWriter on a pre-existing CSV file.
// The file is opened and closed on every Write.
type Writer struct {
	path   string
	logger ports.Logger
}

// NewWriter creates a Writer for the file at path.
func NewWriter(path string, logger ports.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

// Write appends one record per reading, in order.
// The file must already exist; it is never created here. Each record is
// encoded and written on its own, so a record that fails is logged and
// the rest of the batch is still written.
func (w *Writer) Write(readings []domain.Reading) error {
	f, err := openAppend(w.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrStorageMissing, w.path)
		}
		return fmt.Errorf("open storage: %w", err)
	}

	var buf bytes.Buffer
	for i, r := range readings {
		buf.Reset()
		if err := writeRecord(f, &buf, r.Record()); err != nil {
			w.logger.Error("record not written",
				ports.Int("index", i),
				ports.Any("reading", r),
				ports.Err(err),
			)
		}
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close storage: %w", err)
	}
	return nil
}

// writeRecord encodes rec into buf and writes it to dst in one call.
func writeRecord(dst io.Writer, buf *bytes.Buffer, rec []string) error {
	cw := csv.NewWriter(buf)
	if err := cw.Write(rec); err != nil {
		return err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	_, err := dst.Write(buf.Bytes())
	return err
}

// Init creates the storage file with the header row.
// It fails with domain.ErrStorageExists rather than touch an existing file.
func Init(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", domain.ErrStorageExists, path)
		}
		return fmt.Errorf("create storage: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return f.Close()
}
