package report

import (
	"encoding/json"
	"time"

	"github.com/IvanShishkin/mojibake-inspector/pkg/models"
)

// Document is the structured report written by the json and yaml formats
type Document struct {
	Title      string                `json:"title" yaml:"title"`
	Generated  time.Time             `json:"generated" yaml:"generated"`
	ErrorCodes map[string]string     `json:"error_codes" yaml:"error_codes"`
	ScanID     string                `json:"scan_id" yaml:"scan_id"`
	Root       string                `json:"root" yaml:"root"`
	TotalCount int                   `json:"total_count" yaml:"total_count"`
	Cancelled  bool                  `json:"cancelled" yaml:"cancelled"`
	Records    []models.ReportRecord `json:"records" yaml:"records"`
}

func newDocument(result *models.ScanResult, generated time.Time) *Document {
	records := result.Records
	if records == nil {
		records = []models.ReportRecord{}
	}
	return &Document{
		Title:      "Mojibake Inspector Report",
		Generated:  generated,
		ErrorCodes: map[string]string{models.ErrorCodeMojibake: models.ErrorDescription},
		ScanID:     result.ID,
		Root:       result.Root,
		TotalCount: result.TotalCount,
		Cancelled:  result.Cancelled,
		Records:    records,
	}
}

// renderJSON generates a JSON report
func renderJSON(result *models.ScanResult, generated time.Time) ([]byte, error) {
	data, err := json.MarshalIndent(newDocument(result, generated), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
