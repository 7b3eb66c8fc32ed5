package core

import (
	"context"
	"errors"

	"github.com/IvanShishkin/mojibake-inspector/internal/config"
	"github.com/IvanShishkin/mojibake-inspector/internal/detectors"
	"github.com/IvanShishkin/mojibake-inspector/internal/index"
	"github.com/IvanShishkin/mojibake-inspector/internal/report"
	"github.com/IvanShishkin/mojibake-inspector/pkg/models"
	"go.uber.org/zap"
)

// ErrNoActiveBuffer is returned when an operation needs a buffer and none is
// available
var ErrNoActiveBuffer = errors.New("no active buffer")

// Buffer is an in-memory text snapshot and the file it belongs to
type Buffer struct {
	FileID string
	Text   string
}

// BufferSource supplies the buffer currently being edited, if any
type BufferSource interface {
	ActiveBuffer() (Buffer, bool)
}

// Inspector is the entry point for buffer and workspace scans
type Inspector struct {
	index  *index.Index
	job    *Job
	writer *report.Writer
	logger *zap.Logger
}

// NewInspector wires the index, the workspace job and the report writer
func NewInspector(idx *index.Index, job *Job, writer *report.Writer, logger *zap.Logger) *Inspector {
	return &Inspector{
		index:  idx,
		job:    job,
		writer: writer,
		logger: logger,
	}
}

// Index returns the findings index
func (in *Inspector) Index() *index.Index {
	return in.index
}

// ScanBuffer scans text synchronously, stores the findings for fileID and
// returns them. It does no I/O.
func (in *Inspector) ScanBuffer(text, fileID string) []models.Finding {
	findings := detectors.ScanText(text)
	in.index.SetFindings(fileID, findings)
	return findings
}

// InspectActive scans the buffer supplied by src
func (in *Inspector) InspectActive(src BufferSource) ([]models.Finding, error) {
	buf, ok := src.ActiveBuffer()
	if !ok {
		return nil, ErrNoActiveBuffer
	}
	return in.ScanBuffer(buf.Text, buf.FileID), nil
}

// ScanWorkspace runs a workspace scan with the resolved configuration and
// writes the report when enabled. A report failure is returned together with
// the still valid result.
func (in *Inspector) ScanWorkspace(ctx context.Context, root string, cfg config.Config) (*models.ScanResult, error) {
	result, err := in.job.Run(ctx, root, cfg)
	if err != nil {
		return nil, err
	}

	if !cfg.Report.Enabled {
		return result, nil
	}

	if result.Cancelled {
		in.logger.Info("Skipping report for cancelled scan", zap.String("scan_id", result.ID))
		return result, nil
	}

	reportPath := cfg.ReportPath(root)
	if err := in.writer.Write(result, reportPath, cfg.Report.Format); err != nil {
		in.logger.Error("Failed to generate report", zap.Error(err))
		return result, err
	}
	result.ReportPath = reportPath

	return result, nil
}
