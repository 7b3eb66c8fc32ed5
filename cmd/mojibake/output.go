package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/IvanShishkin/mojibake-inspector/internal/core"
	"github.com/IvanShishkin/mojibake-inspector/internal/filesystem"
	"github.com/IvanShishkin/mojibake-inspector/internal/index"
	"github.com/IvanShishkin/mojibake-inspector/internal/messages"
	"github.com/IvanShishkin/mojibake-inspector/internal/report"
	"github.com/IvanShishkin/mojibake-inspector/pkg/models"
	"github.com/fatih/color"
)

var (
	bold   = color.New(color.Bold)
	gray   = color.New(color.FgHiBlack)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
)

const barWidth = 30

// console renders scan output for a terminal
type console struct {
	w         io.Writer
	printer   *messages.Printer
	lastPhase string
	redraw    bool
}

func newConsole(w io.Writer, locale string) *console {
	return &console{w: w, printer: messages.NewPrinter(locale), redraw: !color.NoColor}
}

// banner prints the startup banner
func (c *console) banner(root string) {
	fmt.Fprintln(c.w)
	bold.Fprintf(c.w, "Mojibake Inspector")
	gray.Fprintf(c.w, " v%s\n", version)
	fmt.Fprintln(c.w)
	gray.Fprint(c.w, "  Scanning:  ")
	fmt.Fprintln(c.w, root)
	fmt.Fprintln(c.w)
}

// progress is the core.ProgressCallback for the terminal
func (c *console) progress(phase string, current, total int, message string) {
	// Clear previous line if same phase
	if c.redraw && c.lastPhase == phase && phase == core.PhaseScanning {
		fmt.Fprint(c.w, "\033[1A\033[K")
	}
	c.lastPhase = phase

	switch phase {
	case core.PhaseCounting:
		if total > 0 {
			gray.Fprint(c.w, "  Files:     ")
			fmt.Fprintln(c.w, message)
		}
	case core.PhaseScanning:
		if total > 0 {
			pct := float64(current) / float64(total) * 100
			filled := barWidth * current / total
			bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
			gray.Fprint(c.w, "  Scanning:  ")
			fmt.Fprintf(c.w, "[%s] %.1f%% (%d/%d)\n", cyan.Sprint(bar), pct, current, total)
		}
	case core.PhaseCancelled:
		yellow.Fprintf(c.w, "\n  ⚠ %s\n", c.printer.Cancelled(current))
	}
}

// findings prints the index grouped by file with per-file counts
func (c *console) findings(entries []models.FileFindings, root string) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintln(c.w)
	for _, ff := range entries {
		bold.Fprintf(c.w, "  %s", filesystem.RelativePath(root, ff.FileID))
		gray.Fprintf(c.w, " (%d)\n", ff.Count())
		for _, f := range ff.Findings {
			gray.Fprint(c.w, "    ")
			fmt.Fprintf(c.w, "%s %d:%d\n", red.Sprint(models.ErrorCodeMojibake), f.Line, f.Column)
		}
	}
}

// diagnostics prints one compiler-style line per finding
func (c *console) diagnostics(entries []models.FileFindings, root string) {
	for _, ff := range entries {
		path := filesystem.RelativePath(root, ff.FileID)
		for _, d := range ff.Diagnostics() {
			fmt.Fprintf(c.w, "%s:%d:%d: %s %s %s\n",
				bold.Sprint(path),
				d.Range.Start.Line, d.Range.Start.Column,
				yellow.Sprint(d.Severity),
				gray.Sprintf("[%s]", d.Code),
				models.ErrorDescription)
		}
	}
}

// skipped lists files that could not be read
func (c *console) skipped(result *models.ScanResult) {
	for _, path := range result.ErrorFiles {
		yellow.Fprintf(c.w, "  ⚠ skipped unreadable file %s\n", path)
	}
}

// result prints the localized outcome line
func (c *console) result(count int, showEmpty bool) {
	msg, show := c.printer.Result(count, showEmpty)
	if !show {
		return
	}
	if count == 0 {
		green.Fprintf(c.w, "  ✓ %s\n", msg)
		return
	}
	red.Fprintf(c.w, "  ✗ %s\n", msg)
}

// summary prints statistics for a finished workspace scan
func (c *console) summary(result *models.ScanResult, showEmpty bool) {
	fmt.Fprintln(c.w)
	gray.Fprint(c.w, "  Files:     ")
	fmt.Fprintf(c.w, "%d scanned", result.FilesScanned)
	if result.FilesSkipped > 0 {
		yellow.Fprintf(c.w, ", %d skipped", result.FilesSkipped)
	}
	fmt.Fprintln(c.w)
	gray.Fprint(c.w, "  Duration:  ")
	fmt.Fprintln(c.w, report.FormatDuration(result.Duration))
	c.skipped(result)
	c.result(result.TotalCount, showEmpty)

	if result.ReportPath != "" {
		gray.Fprint(c.w, "  Report:    ")
		cyan.Fprintln(c.w, result.ReportPath)
	}
	fmt.Fprintln(c.w)
}

// change prints an index update while watching
func (c *console) change(e index.Event, root string) {
	if e.Kind != index.EventUpdated {
		return
	}
	path := filesystem.RelativePath(root, e.FileID)
	if len(e.Findings) == 0 {
		green.Fprint(c.w, "  ✓ ")
		fmt.Fprintln(c.w, path)
		return
	}
	red.Fprint(c.w, "  ✗ ")
	fmt.Fprintf(c.w, "%s ", path)
	msg, _ := c.printer.Result(len(e.Findings), true)
	gray.Fprintln(c.w, msg)
}

// watching announces the watch loop
func (c *console) watching(root string) {
	gray.Fprintf(c.w, "  Watching %s for changes (Ctrl-C to stop)\n\n", root)
}

// noBuffer prints the localized message for missing input
func (c *console) noBuffer() {
	yellow.Fprintf(c.w, "  ⚠ %s\n", c.printer.NoActiveBuffer())
}
