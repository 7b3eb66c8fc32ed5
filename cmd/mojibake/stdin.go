package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/IvanShishkin/mojibake-inspector/internal/core"
	"github.com/IvanShishkin/mojibake-inspector/internal/filesystem"
	"github.com/IvanShishkin/mojibake-inspector/pkg/models"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// stdinSource serves piped standard input as the active buffer
type stdinSource struct {
	in     io.Reader
	fd     uintptr
	fileID string
	err    error
}

func (s *stdinSource) ActiveBuffer() (core.Buffer, bool) {
	if isatty.IsTerminal(s.fd) || isatty.IsCygwinTerminal(s.fd) {
		return core.Buffer{}, false
	}
	raw, err := io.ReadAll(s.in)
	if err != nil {
		s.err = err
		return core.Buffer{}, false
	}
	text, err := filesystem.Decode(raw)
	if err != nil {
		s.err = err
		return core.Buffer{}, false
	}
	return core.Buffer{FileID: s.fileID, Text: text}, true
}

// stdinCmd creates the stdin command
func stdinCmd() *cobra.Command {
	var (
		name   string
		locale string
	)

	cmd := &cobra.Command{
		Use:   "stdin",
		Short: "Check text piped on standard input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newConsole(os.Stdout, locale)
			inspector, _ := newInspector(nil, locale)

			src := &stdinSource{in: os.Stdin, fd: os.Stdin.Fd(), fileID: name}
			findings, err := inspector.InspectActive(src)
			if src.err != nil {
				return fmt.Errorf("failed to read standard input: %w", src.err)
			}
			if errors.Is(err, core.ErrNoActiveBuffer) {
				out.noBuffer()
				return err
			}

			out.diagnostics([]models.FileFindings{{FileID: name, Findings: findings}}, "")
			out.result(len(findings), true)
			if len(findings) > 0 {
				return errFound
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "<stdin>", "File name used in diagnostics")
	cmd.Flags().StringVar(&locale, "locale", "en", "Message locale: en, ja")
	return cmd
}
