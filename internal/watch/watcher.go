// Package watch keeps the findings index current while files change on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/IvanShishkin/mojibake-inspector/internal/detectors"
	"github.com/IvanShishkin/mojibake-inspector/internal/filesystem"
	"github.com/IvanShishkin/mojibake-inspector/internal/index"
	"github.com/IvanShishkin/mojibake-inspector/pkg/models"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Watcher rescans single files on change events and updates the index
type Watcher struct {
	fsw      *fsnotify.Watcher
	fs       afero.Fs
	root     string
	matcher  *filesystem.Matcher
	reader   *filesystem.Reader
	detector detectors.Detector
	index    *index.Index
	logger   *zap.Logger
}

// New creates a watcher over root. Every non-excluded directory below root is
// watched before New returns.
func New(fsys afero.Fs, idx *index.Index, root string, exclude []string, logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		fs:       fsys,
		root:     root,
		matcher:  filesystem.NewMatcher(exclude),
		reader:   filesystem.NewReader(fsys),
		detector: detectors.NewSentinelDetector(),
		index:    idx,
		logger:   logger,
	}

	if err := w.addRecursive(context.Background(), root, false); err != nil {
		fsw.Close()
		return nil, err
	}

	return w, nil
}

// Run processes change events until ctx is done or the watcher is closed
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("Watching for changes", zap.String("root", w.root))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", zap.Error(err))
		}
	}
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	relPath := filesystem.RelativePath(w.root, event.Name)
	if relPath == "." || w.matcher.Excluded(relPath) {
		return
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.forget(event.Name)

	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		info, err := w.fs.Stat(event.Name)
		if err != nil {
			// Gone again before we got to it
			w.forget(event.Name)
			return
		}
		if info.IsDir() {
			// A directory moved or unpacked into the tree brings files that
			// will never get events of their own
			if event.Has(fsnotify.Create) {
				if err := w.addRecursive(ctx, event.Name, true); err != nil {
					w.logger.Warn("Failed to watch new directory",
						zap.String("path", event.Name), zap.Error(err))
				}
			}
			return
		}
		if info.Mode().IsRegular() {
			w.rescan(ctx, &models.FileInfo{
				Path:         event.Name,
				RelativePath: relPath,
				Size:         info.Size(),
				ModTime:      info.ModTime(),
			})
		}
	}
}

// rescan replaces the findings of one file. A clean file drops its entry.
func (w *Watcher) rescan(ctx context.Context, fileInfo *models.FileInfo) {
	file, err := w.reader.ReadFile(fileInfo)
	if err != nil {
		w.logger.Warn("Skipping unreadable file", zap.String("path", fileInfo.Path), zap.Error(err))
		return
	}

	findings, err := w.detector.Detect(context.WithoutCancel(ctx), file)
	if err != nil {
		w.logger.Warn("Detector failed", zap.String("path", file.Path), zap.Error(err))
		return
	}

	w.logger.Debug("Rescanned file",
		zap.String("path", file.Path),
		zap.Int("count", len(findings)))
	w.index.SetFindings(file.Path, findings)
}

// forget drops a removed file, or every file below a removed directory
func (w *Watcher) forget(path string) {
	if _, ok := w.index.Get(path); ok {
		w.index.SetFindings(path, nil)
		return
	}

	prefix := strings.TrimSuffix(path, string(filepath.Separator)) + string(filepath.Separator)
	for _, ff := range w.index.Under(prefix) {
		w.index.SetFindings(ff.FileID, nil)
	}
}

// addRecursive watches dir and its non-excluded subdirectories. With rescan
// set, every regular file found on the way is scanned as well.
func (w *Watcher) addRecursive(ctx context.Context, dir string, rescan bool) error {
	return afero.Walk(w.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			w.logger.Warn("Error accessing path", zap.String("path", path), zap.Error(err))
			return nil
		}

		relPath := filesystem.RelativePath(w.root, path)
		excluded := relPath != "." && w.matcher.Excluded(relPath)

		if !info.IsDir() {
			if rescan && !excluded && info.Mode().IsRegular() {
				w.rescan(ctx, &models.FileInfo{
					Path:         path,
					RelativePath: relPath,
					Size:         info.Size(),
					ModTime:      info.ModTime(),
				})
			}
			return nil
		}

		if excluded {
			return filepath.SkipDir
		}

		if err := w.fsw.Add(path); err != nil {
			if path == dir {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			if errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			w.logger.Warn("Failed to add subdirectory to watcher", zap.String("path", path), zap.Error(err))
		}
		return nil
	})
}
