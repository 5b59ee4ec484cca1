// Package watch re-runs an export whenever its input file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/depthmesh/internal/logger"
)

// Func handles one change of the watched file.
type Func func(path string) error

// Run watches path and calls fn after each burst of writes settles for
// debounce. fn errors are logged and watching continues. Run returns when
// ctx is cancelled.
//
// The parent directory is watched rather than the file itself so that
// tools which replace the file via rename are still picked up.
func Run(ctx context.Context, path string, debounce time.Duration, fn Func) error {
	log := logger.Named("watch")

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	log.Info("watching input", zap.String("path", abs), zap.Duration("debounce", debounce))

	// Armed only by matching events.
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case e, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(e.Name) != abs || e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			log.Debug("input changed", zap.String("op", e.Op.String()))
			timer.Reset(debounce)

		case <-timer.C:
			if err := fn(abs); err != nil {
				log.Error("export failed", zap.String("path", abs), zap.Error(err))
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))
		}
	}
}
