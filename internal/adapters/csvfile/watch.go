package csvfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/climalog/internal/ports"
)

// Watcher implements ports.StorageMonitor with fsnotify.
// It watches the parent directory so removal and re-creation of the file
// are both observed.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	logger  ports.Logger
	present bool
}

// NewWatcher starts watching the directory holding path.
func NewWatcher(path string, logger ports.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve storage path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	_, statErr := os.Stat(abs)
	return &Watcher{
		path:    abs,
		watcher: fw,
		logger:  logger,
		present: statErr == nil,
	}, nil
}

// Poll drains pending events without blocking and reports whether the
// storage file is believed to exist.
func (w *Watcher) Poll() bool {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return w.present
			}
			w.handle(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return w.present
			}
			w.logger.Warn("storage watcher error", ports.Err(err))
		default:
			return w.present
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != w.path {
		return
	}
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		if w.present {
			w.logger.Warn("storage file removed, next flush will fail",
				ports.String("path", w.path),
				ports.String("op", ev.Op.String()),
			)
		}
		w.present = false
	case ev.Has(fsnotify.Create):
		if !w.present {
			w.logger.Info("storage file restored", ports.String("path", w.path))
		}
		w.present = true
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
