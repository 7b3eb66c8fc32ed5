package report

import (
	"strconv"
	"strings"

	"github.com/IvanShishkin/mojibake-inspector/pkg/models"
)

const (
	reportTitle   = "# Mojibake Inspector Report"
	noResultsLine = "No mojibake characters were found."
	headerRow     = "ErrorCode\tFilePath\tLine\tColumn"
)

// RenderText renders the tab-separated text report
func RenderText(records []models.ReportRecord, generated string) []byte {
	var sb strings.Builder

	// Header
	sb.WriteString(reportTitle + "\n")
	sb.WriteString("# Generated: " + generated + "\n")
	sb.WriteString("# Error Codes:\n")
	sb.WriteString("# " + models.ErrorCodeMojibake + "\t" + models.ErrorDescription + "\n")
	sb.WriteString("\n")

	// Body
	if len(records) == 0 {
		sb.WriteString(noResultsLine + "\n")
		return []byte(sb.String())
	}

	sb.WriteString(headerRow + "\n")
	for _, r := range records {
		sb.WriteString(r.ErrorCode)
		sb.WriteByte('\t')
		sb.WriteString(r.FilePath)
		sb.WriteByte('\t')
		sb.WriteString(strconv.Itoa(r.Line))
		sb.WriteByte('\t')
		sb.WriteString(strconv.Itoa(r.Column))
		sb.WriteByte('\n')
	}

	return []byte(sb.String())
}
