package models

// Sentinel is the code point a decoder substitutes for bytes it cannot interpret
const Sentinel = '\uFFFD'

// ErrorCode constants used in reports and diagnostics
const (
	ErrorCodeMojibake = "E001"
	DiagnosticCode    = "MOJIBAKE_FFFD"
	DiagnosticSource  = "Mojibake Inspector"
	ErrorDescription  = "Mojibake detected (U+FFFD REPLACEMENT CHARACTER)"
	DiagnosticMessage = ErrorDescription + "\nPlease check the file encoding."
	SeverityWarning   = "warning"
)

// Finding represents a single sentinel occurrence in a text snapshot
type Finding struct {
	Offset int `json:"offset" yaml:"offset"` // Code point offset from the start of the text
	Line   int `json:"line" yaml:"line"`     // 1-based line
	Column int `json:"column" yaml:"column"` // 1-based column, in code points
}

// FileFindings groups the findings of one file in ascending offset order
type FileFindings struct {
	FileID   string    `json:"file" yaml:"file"`
	Findings []Finding `json:"findings" yaml:"findings"`
}

// Count returns the number of findings for the file
func (f FileFindings) Count() int {
	return len(f.Findings)
}

// CloneFindings returns a copy that callers may keep without aliasing
func CloneFindings(findings []Finding) []Finding {
	if len(findings) == 0 {
		return nil
	}
	out := make([]Finding, len(findings))
	copy(out, findings)
	return out
}
