package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/IvanShishkin/mojibake-inspector/pkg/models"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Walker walks the filesystem and finds candidate files in lexical order
type Walker struct {
	fs     afero.Fs
	logger *zap.Logger
}

// NewWalker creates a new filesystem walker
func NewWalker(fs afero.Fs, logger *zap.Logger) *Walker {
	return &Walker{
		fs:     fs,
		logger: logger,
	}
}

// Enumerate returns every regular file under root whose path is not excluded.
// Excluded directories are not descended into.
func (w *Walker) Enumerate(ctx context.Context, root string, matcher *Matcher) ([]models.FileInfo, error) {
	var files []models.FileInfo

	err := afero.Walk(w.fs, root, func(path string, info os.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			w.logger.Warn("Error accessing path", zap.String("path", path), zap.Error(err))
			return nil // Continue walking
		}

		relPath := RelativePath(root, path)
		if relPath == "." {
			return nil
		}

		if info.IsDir() {
			if matcher.Excluded(relPath) {
				w.logger.Debug("Skipping excluded directory", zap.String("path", relPath))
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		if matcher.Excluded(relPath) {
			w.logger.Debug("Skipping excluded file", zap.String("path", relPath))
			return nil
		}

		files = append(files, models.FileInfo{
			Path:         path,
			RelativePath: relPath,
			Size:         info.Size(),
			ModTime:      info.ModTime(),
		})
		return nil
	})

	return files, err
}

// FileList enumerates a fixed list of paths, such as files named on the
// command line
type FileList struct {
	fs     afero.Fs
	paths  []string
	logger *zap.Logger
}

// NewFileList creates an enumerator over paths
func NewFileList(fs afero.Fs, paths []string, logger *zap.Logger) *FileList {
	return &FileList{fs: fs, paths: paths, logger: logger}
}

// Enumerate returns the listed paths in the given order, minus excluded ones.
// Paths that cannot be stat'ed are still returned so the read failure is
// reported for them. A directory in the list is an error.
func (l *FileList) Enumerate(ctx context.Context, root string, matcher *Matcher) ([]models.FileInfo, error) {
	files := make([]models.FileInfo, 0, len(l.paths))

	for _, path := range l.paths {
		if err := ctx.Err(); err != nil {
			return files, err
		}

		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		relPath := RelativePath(root, path)

		if matcher.Excluded(relPath) {
			l.logger.Debug("Skipping excluded file", zap.String("path", relPath))
			continue
		}

		fileInfo := models.FileInfo{Path: path, RelativePath: relPath}
		if info, err := l.fs.Stat(path); err == nil {
			if info.IsDir() {
				l.logger.Warn("Directory given as a file", zap.String("path", path))
				return files, fmt.Errorf("%s is a directory, scan it instead", relPath)
			}
			fileInfo.Size = info.Size()
			fileInfo.ModTime = info.ModTime()
		}
		files = append(files, fileInfo)
	}

	return files, nil
}

// RelativePath returns path relative to root with forward slashes, or path
// itself when it is outside root
func RelativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
