package scrub

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch masks files into outDir as they are created or written under inDir,
// until the context is cancelled. Per-file failures are logged and the loop
// continues.
func (s *Scrubber) Watch(ctx context.Context, inDir, outDir string) error {
	if filepath.Clean(inDir) == filepath.Clean(outDir) {
		return fmt.Errorf("watch input and output directories must differ")
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return &WriteError{Path: outDir, Err: err}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(inDir); err != nil {
		return &ReadError{Path: inDir, Err: err}
	}

	s.log.Info("Watching directory",
		zap.String("input_dir", inDir),
		zap.String("output_dir", outDir),
	)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}

			info, err := os.Stat(event.Name)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}

			out := filepath.Join(outDir, filepath.Base(event.Name))
			if _, err := s.ProcessFile(event.Name, out); err != nil {
				s.log.Error("Failed to process file", zap.String("file", event.Name), zap.Error(err))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Error("Watcher error", zap.Error(err))
		}
	}
}
