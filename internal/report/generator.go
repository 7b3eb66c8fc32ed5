package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/IvanShishkin/mojibake-inspector/internal/config"
	"github.com/IvanShishkin/mojibake-inspector/internal/messages"
	"github.com/IvanShishkin/mojibake-inspector/pkg/models"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ReportWriteError is returned when a report cannot be written. The scan
// result it was built from stays valid.
type ReportWriteError struct {
	Path string
	Err  error
}

func (e *ReportWriteError) Error() string {
	return fmt.Sprintf("failed to write report %s: %v", e.Path, e.Err)
}

func (e *ReportWriteError) Unwrap() error {
	return e.Err
}

// FormatDuration formats duration to a human-readable string with max 2 decimal places
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	} else if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := d.Seconds() - float64(mins*60)
	return fmt.Sprintf("%dm%.2fs", mins, secs)
}

// Writer serializes scan results into report files
type Writer struct {
	fs      afero.Fs
	printer *messages.Printer
	logger  *zap.Logger
	now     func() time.Time
}

// NewWriter creates a report writer. locale selects the timestamp format.
func NewWriter(fs afero.Fs, locale string, logger *zap.Logger) *Writer {
	return &Writer{
		fs:      fs,
		printer: messages.NewPrinter(locale),
		logger:  logger,
		now:     time.Now,
	}
}

// Write renders result in format and atomically replaces path with it
func (w *Writer) Write(result *models.ScanResult, path, format string) error {
	if format == "" {
		format = config.FormatText
	}

	generated := w.now()

	var (
		data []byte
		err  error
	)
	switch format {
	case config.FormatText:
		data = RenderText(result.Records, w.printer.Timestamp(generated))
	case config.FormatJSON:
		data, err = renderJSON(result, generated)
	case config.FormatYAML:
		data, err = renderYAML(result, generated)
	default:
		err = fmt.Errorf("unknown report format: %s", format)
	}
	if err != nil {
		return &ReportWriteError{Path: path, Err: err}
	}

	w.logger.Info("Writing report",
		zap.String("format", format),
		zap.String("output", path),
		zap.Int("records", len(result.Records)))

	if err := w.writeAtomic(path, data); err != nil {
		return &ReportWriteError{Path: path, Err: err}
	}
	return nil
}

// writeAtomic writes data to a temporary file next to path and renames it
// into place, so path is either the old content or the complete new one
func (w *Writer) writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := afero.TempFile(w.fs, dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	cleanup := func(cause error) error {
		tmp.Close()
		if rmErr := w.fs.Remove(tmpName); rmErr != nil && !os.IsNotExist(rmErr) {
			w.logger.Warn("Failed to remove temporary report", zap.String("path", tmpName), zap.Error(rmErr))
		}
		return cause
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		return cleanup(err)
	}
	if err := w.fs.Chmod(tmpName, 0644); err != nil {
		return cleanup(err)
	}
	if err := w.fs.Rename(tmpName, path); err != nil {
		return cleanup(err)
	}
	return nil
}
