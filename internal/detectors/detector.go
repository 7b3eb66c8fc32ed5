package detectors

import (
	"context"

	"github.com/IvanShishkin/mojibake-inspector/pkg/models"
)

// Detector is the interface for anything that turns a decoded file into findings
type Detector interface {
	// Name returns the detector name
	Name() string

	// Detect scans a file and returns its findings in ascending offset order
	Detect(ctx context.Context, file *models.File) ([]models.Finding, error)
}

// SentinelDetector reports every replacement character in a file
type SentinelDetector struct {
	name string
}

// NewSentinelDetector creates the replacement character detector
func NewSentinelDetector() *SentinelDetector {
	return &SentinelDetector{name: "replacement_character"}
}

// Name returns the detector name
func (d *SentinelDetector) Name() string {
	return d.name
}

// Detect scans the decoded file text
func (d *SentinelDetector) Detect(ctx context.Context, file *models.File) ([]models.Finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ScanText(file.Text), nil
}

// ScanText finds and positions every sentinel in text
func ScanText(text string) []models.Finding {
	return Locate(text, FindOffsets(text))
}
