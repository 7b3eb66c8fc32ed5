package integration

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliPath = "../../cmd/mojibake"

func runCLI(t *testing.T, stdin []byte, args ...string) (string, string, int) {
	t.Helper()

	cmd := exec.Command("go", append([]string{"run", cliPath}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	err := cmd.Run()
	code := 0
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	} else {
		require.NoError(t, err, "failed to run command")
	}
	return stdout.String(), stderr.String(), code
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestCheckCommand_FindsMojibake(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "bad.txt")
	writeFile(t, tmpFile, "ab\ncd�")

	stdout, stderr, code := runCLI(t, nil, "check", tmpFile)

	assert.Equal(t, 1, code, "stderr: %s", stderr)
	assert.Contains(t, stdout, "bad.txt:2:3: warning [MOJIBAKE_FFFD]")
	assert.Contains(t, stdout, "1 mojibake characters found.")
}

func TestCheckCommand_Clean(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "clean.txt")
	writeFile(t, tmpFile, "all good\n")

	stdout, stderr, code := runCLI(t, nil, "check", "--show-empty", tmpFile)

	require.Equal(t, 0, code, "stderr: %s", stderr)
	assert.Contains(t, stdout, "No mojibake characters found.")
}

func TestCheckCommand_CleanIsSilentByDefault(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "clean.txt")
	writeFile(t, tmpFile, "all good\n")

	stdout, _, code := runCLI(t, nil, "check", tmpFile)

	require.Equal(t, 0, code)
	assert.NotContains(t, stdout, "No mojibake")
}

func TestCheckCommand_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.txt"), "�")

	stdout, stderr, code := runCLI(t, nil, "check", "--show-empty", dir)

	assert.NotEqual(t, 0, code, "a directory must not pass as clean")
	assert.Contains(t, stderr, "is a directory")
	assert.NotContains(t, stdout, "No mojibake characters found.")
}

func TestCheckCommand_Japanese(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "bad.txt")
	writeFile(t, tmpFile, "��")

	stdout, _, _ := runCLI(t, nil, "check", "--locale", "ja", tmpFile)

	assert.Contains(t, stdout, "2個の文字化けが見つかりました")
}

func TestScanCommand_WritesReport(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "x�")
	writeFile(t, filepath.Join(root, "sub", "b.txt"), "ok")
	writeFile(t, filepath.Join(root, "node_modules", "dep", "c.txt"), "�")

	_, stderr, code := runCLI(t, nil, "scan", "--report", root)
	assert.Equal(t, 1, code, "stderr: %s", stderr)

	data, err := os.ReadFile(filepath.Join(root, "mojibake-report.txt"))
	require.NoError(t, err, "report not written")
	report := string(data)

	assert.True(t, strings.HasPrefix(report, "# Mojibake Inspector Report\n# Generated: "), "header: %q", report)
	assert.True(t, strings.HasSuffix(report, "ErrorCode\tFilePath\tLine\tColumn\nE001\ta.txt\t1\t2\n"), "body: %q", report)
}

func TestScanCommand_RepeatedScanIgnoresReport(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a�.txt"), "�")

	runCLI(t, nil, "scan", "--report", root)
	first, err := os.ReadFile(filepath.Join(root, "mojibake-report.txt"))
	require.NoError(t, err)

	runCLI(t, nil, "scan", "--report", root)
	second, err := os.ReadFile(filepath.Join(root, "mojibake-report.txt"))
	require.NoError(t, err)

	rows := func(report []byte) string {
		s := string(report)
		return s[strings.Index(s, "\n\n"):]
	}
	assert.Equal(t, rows(first), rows(second))
	assert.NotContains(t, string(second), "mojibake-report.txt")
}

func TestScanCommand_JSONReport(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "�")
	out := filepath.Join(root, "out.json")

	runCLI(t, nil, "scan", "--report", "--format", "json", "--output", out, root)

	data, err := os.ReadFile(out)
	require.NoError(t, err, "report not written")
	assert.Contains(t, string(data), `"error_code": "E001"`)
}

func TestScanCommand_InvalidFormat(t *testing.T) {
	_, stderr, code := runCLI(t, nil, "scan", "--report", "--format", "xml", t.TempDir())

	assert.NotEqual(t, 0, code, "unknown report format must fail")
	assert.Contains(t, stderr, "xml")
}

func TestScanCommand_NotADirectory(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "file.txt")
	writeFile(t, tmpFile, "x")

	_, stderr, code := runCLI(t, nil, "scan", tmpFile)

	assert.NotEqual(t, 0, code, "scanning a file must fail")
	assert.Contains(t, stderr, "is not a directory")
}

func TestStdinCommand(t *testing.T) {
	stdout, _, code := runCLI(t, []byte("caf\xe9\n"), "stdin", "--name", "piped.txt")

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "piped.txt:1:4:")
}
