package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/IvanShishkin/mojibake-inspector/internal/config"
	"github.com/IvanShishkin/mojibake-inspector/internal/detectors"
	"github.com/IvanShishkin/mojibake-inspector/internal/filesystem"
	"github.com/IvanShishkin/mojibake-inspector/internal/index"
	"github.com/IvanShishkin/mojibake-inspector/pkg/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// ErrScanInProgress is returned when a workspace scan is requested while
// another one is running
var ErrScanInProgress = errors.New("a workspace scan is already in progress")

// Progress phases
const (
	PhaseCounting  = "counting"
	PhaseScanning  = "scanning"
	PhaseCancelled = "cancelled"
	PhaseComplete  = "complete"
)

// ProgressCallback is called to report scan progress
type ProgressCallback func(phase string, current, total int, message string)

// Enumerator yields candidate files under a root, in a stable order
type Enumerator interface {
	Enumerate(ctx context.Context, root string, matcher *filesystem.Matcher) ([]models.FileInfo, error)
}

// FileReader opens and decodes one candidate file
type FileReader interface {
	ReadFile(fileInfo *models.FileInfo) (*models.File, error)
}

// Job scans a set of files sequentially and rebuilds the findings index
type Job struct {
	index            *index.Index
	enumerator       Enumerator
	reader           FileReader
	detector         detectors.Detector
	logger           *zap.Logger
	progressCallback ProgressCallback
	running          *semaphore.Weighted
}

// NewJob creates a workspace scan job
func NewJob(idx *index.Index, enumerator Enumerator, reader FileReader, logger *zap.Logger) *Job {
	return &Job{
		index:      idx,
		enumerator: enumerator,
		reader:     reader,
		detector:   detectors.NewSentinelDetector(),
		logger:     logger,
		running:    semaphore.NewWeighted(1),
	}
}

// SetProgressCallback sets the progress callback function
func (j *Job) SetProgressCallback(cb ProgressCallback) {
	j.progressCallback = cb
}

// reportProgress calls the progress callback if set
func (j *Job) reportProgress(phase string, current, total int, message string) {
	if j.progressCallback != nil {
		j.progressCallback(phase, current, total, message)
	}
}

// Run clears the index, then scans every non-excluded file under root in
// enumeration order, skipping the configured report file. Cancelling ctx stops
// the scan at the next file boundary; the result then has Cancelled set and
// covers only the processed files. A cancel that arrives after the last file
// leaves the scan complete.
func (j *Job) Run(ctx context.Context, root string, cfg config.Config) (*models.ScanResult, error) {
	if !j.running.TryAcquire(1) {
		return nil, ErrScanInProgress
	}
	defer j.running.Release(1)

	result := &models.ScanResult{
		ID:        uuid.NewString(),
		Root:      root,
		StartTime: time.Now(),
	}

	j.logger.Info("Starting scan",
		zap.String("scan_id", result.ID),
		zap.String("root", root),
		zap.Strings("exclude", cfg.Exclude))

	// Full rebuild: nothing from an earlier scan survives
	j.index.Clear()

	matcher := filesystem.NewMatcher(cfg.Exclude)
	// The report lives in the tree it describes and is never a candidate
	reportPath := filepath.Clean(cfg.ReportPath(root))

	j.reportProgress(PhaseCounting, 0, 0, "Enumerating files...")
	files, err := j.enumerator.Enumerate(ctx, root, matcher)
	if err != nil {
		if ctx.Err() == nil {
			return nil, fmt.Errorf("failed to enumerate files: %w", err)
		}
		files = nil
		result.Cancelled = true
	}
	total := len(files)
	j.reportProgress(PhaseCounting, total, total, fmt.Sprintf("Found %d files to scan", total))

	processed := 0
	for i := range files {
		if ctx.Err() != nil {
			result.Cancelled = true
			break
		}

		fileInfo := &files[i]
		if matcher.Excluded(fileInfo.RelativePath) {
			continue
		}
		if filepath.Clean(fileInfo.Path) == reportPath {
			j.logger.Debug("Skipping report file", zap.String("path", fileInfo.Path))
			continue
		}

		j.scanFile(ctx, fileInfo, cfg.Report.Enabled, result)
		processed++
		j.reportProgress(PhaseScanning, processed, total, fileInfo.RelativePath)
	}

	result.Duration = time.Since(result.StartTime)

	if result.Cancelled {
		j.reportProgress(PhaseCancelled, processed, total, "Scan cancelled")
		j.logger.Info("Scan cancelled",
			zap.String("scan_id", result.ID),
			zap.Int("files_processed", processed),
			zap.Int("findings", result.TotalCount))
	} else {
		j.reportProgress(PhaseComplete, processed, total, "Scan complete")
		j.logger.Info("Scan completed",
			zap.String("scan_id", result.ID),
			zap.Duration("duration", result.Duration),
			zap.Int("findings", result.TotalCount),
			zap.Int("files_scanned", result.FilesScanned),
			zap.Int("files_skipped", result.FilesSkipped))
	}

	return result, nil
}

// scanFile reads and scans a single file. A file that cannot be read is
// logged and counted, never fatal.
func (j *Job) scanFile(ctx context.Context, fileInfo *models.FileInfo, withRecords bool, result *models.ScanResult) {
	file, err := j.reader.ReadFile(fileInfo)
	if err != nil {
		j.logger.Warn("Skipping unreadable file",
			zap.String("path", fileInfo.Path),
			zap.Error(err))
		result.AddError(fileInfo.RelativePath)
		return
	}

	// A started file always completes
	findings, err := j.detector.Detect(context.WithoutCancel(ctx), file)
	if err != nil {
		j.logger.Warn("Detector failed",
			zap.String("detector", j.detector.Name()),
			zap.String("path", file.Path),
			zap.Error(err))
		result.AddError(fileInfo.RelativePath)
		return
	}

	if len(findings) > 0 {
		j.index.SetFindings(file.Path, findings)
		j.logger.Debug("Found mojibake",
			zap.String("path", file.Path),
			zap.Int("count", len(findings)))
	}

	result.AddFile(file.RelativePath, findings, withRecords)
}
