package models

// Position is a 1-based line/column pair
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range spans one or more characters on a line
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Diagnostic is a positioned annotation derived from a Finding, meant for
// editors and other UI collaborators
type Diagnostic struct {
	FileID   string `json:"file"`
	Range    Range  `json:"range"`
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Source   string `json:"source"`
	Message  string `json:"message"`
}

// NewDiagnostic builds the diagnostic covering the single sentinel character
func NewDiagnostic(fileID string, f Finding) Diagnostic {
	start := Position{Line: f.Line, Column: f.Column}
	return Diagnostic{
		FileID:   fileID,
		Range:    Range{Start: start, End: Position{Line: f.Line, Column: f.Column + 1}},
		Severity: SeverityWarning,
		Code:     DiagnosticCode,
		Source:   DiagnosticSource,
		Message:  DiagnosticMessage,
	}
}

// Diagnostics converts every finding of a file
func (f FileFindings) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, 0, len(f.Findings))
	for _, finding := range f.Findings {
		out = append(out, NewDiagnostic(f.FileID, finding))
	}
	return out
}
