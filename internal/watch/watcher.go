package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"dconn.dev/showcase/internal/services"
)

// Loader is the part of services.Loader the watcher needs
type Loader interface {
	Load(ctx context.Context) services.LoadResult
}

// Sink receives each reload result and reports whether it was kept
type Sink interface {
	Apply(result services.LoadResult) bool
}

// DataWatcher reloads the records file whenever it changes on disk.
// It watches the parent directory so editors that replace the file atomically
// are still picked up.
type DataWatcher struct {
	path     string
	loader   Loader
	sink     Sink
	debounce time.Duration
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
}

// New creates a DataWatcher for the file at path
func New(path string, loader Loader, sink Sink, debounce time.Duration, logger *zap.Logger) (*DataWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &DataWatcher{
		path:     abs,
		loader:   loader,
		sink:     sink,
		debounce: debounce,
		logger:   logger,
		watcher:  w,
	}, nil
}

// Run blocks until ctx is cancelled, reloading after each burst of writes.
// The underlying fsnotify watcher is closed on return.
func (dw *DataWatcher) Run(ctx context.Context) error {
	defer dw.watcher.Close()

	dw.logger.Info("watching data file", zap.String("path", dw.path))

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-dw.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != dw.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			dw.logger.Debug("data file changed", zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(dw.debounce)
			} else {
				timer.Reset(dw.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			result := dw.loader.Load(ctx)
			if !dw.sink.Apply(result) {
				dw.logger.Warn("reload failed, keeping previous records", zap.Error(result.Err))
				continue
			}
			dw.logger.Info("data reloaded",
				zap.String("state", string(result.State)),
				zap.Int("records", len(result.Records)),
			)

		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return nil
			}
			dw.logger.Warn("watcher error", zap.Error(err))
		}
	}
}
