package models

import "time"

// ReportRecord is one row of the findings report
type ReportRecord struct {
	ErrorCode string `json:"error_code" yaml:"error_code"`
	FilePath  string `json:"file_path" yaml:"file_path"`
	Line      int    `json:"line" yaml:"line"`
	Column    int    `json:"column" yaml:"column"`
}

// NewReportRecord creates a record for a finding in the given file
func NewReportRecord(filePath string, f Finding) ReportRecord {
	return ReportRecord{
		ErrorCode: ErrorCodeMojibake,
		FilePath:  filePath,
		Line:      f.Line,
		Column:    f.Column,
	}
}

// ScanResult contains the outcome of a workspace scan
type ScanResult struct {
	// Summary
	ID         string        `json:"id" yaml:"id"`
	Root       string        `json:"root" yaml:"root"`
	StartTime  time.Time     `json:"start_time" yaml:"start_time"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
	TotalCount int           `json:"total_count" yaml:"total_count"`
	Cancelled  bool          `json:"cancelled" yaml:"cancelled"`

	// Records in enumeration order, then ascending offset within a file
	Records []ReportRecord `json:"records" yaml:"records"`

	// File statistics
	FilesScanned int      `json:"files_scanned" yaml:"files_scanned"`
	FilesSkipped int      `json:"files_skipped" yaml:"files_skipped"`
	ErrorFiles   []string `json:"error_files,omitempty" yaml:"error_files,omitempty"`

	// Report path, empty unless a report was written
	ReportPath string `json:"report_path,omitempty" yaml:"report_path,omitempty"`
}

// AddFile accounts for a scanned file and its findings
func (r *ScanResult) AddFile(filePath string, findings []Finding, withRecords bool) {
	r.FilesScanned++
	r.TotalCount += len(findings)
	if !withRecords {
		return
	}
	for _, f := range findings {
		r.Records = append(r.Records, NewReportRecord(filePath, f))
	}
}

// AddError accounts for a file that could not be read
func (r *ScanResult) AddError(filePath string) {
	r.FilesSkipped++
	r.ErrorFiles = append(r.ErrorFiles, filePath)
}
