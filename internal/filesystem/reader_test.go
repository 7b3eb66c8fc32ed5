package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/IvanShishkin/mojibake-inspector/pkg/models"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	testContent := "hello\nw�rld"

	require.NoError(t, os.WriteFile(testFile, []byte(testContent), 0644))

	fileInfo := &models.FileInfo{
		Path:         testFile,
		RelativePath: "test.txt",
	}

	file, err := NewReader(afero.NewOsFs()).ReadFile(fileInfo)
	require.NoError(t, err)
	require.NotNil(t, file)

	assert.Equal(t, testContent, file.Text)
	assert.Equal(t, testFile, file.Path)
	assert.Equal(t, "test.txt", file.RelativePath)
}

func TestReadFile_NonExistent(t *testing.T) {
	fileInfo := &models.FileInfo{
		Path: "/nonexistent/file.txt",
	}

	_, err := NewReader(afero.NewMemMapFs()).ReadFile(fileInfo)
	require.Error(t, err)

	var accessErr *FileAccessError
	require.True(t, errors.As(err, &accessErr), "error type = %T, want *FileAccessError", err)
	assert.Equal(t, fileInfo.Path, accessErr.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadFile_EmptyFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/work/empty.txt", []byte(""), 0644))

	file, err := NewReader(fs).ReadFile(&models.FileInfo{Path: "/work/empty.txt"})
	require.NoError(t, err)
	assert.Empty(t, file.Text)
}

func TestReadFile_BOM(t *testing.T) {
	fs := afero.NewMemMapFs()
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("abc")...)
	require.NoError(t, afero.WriteFile(fs, "/work/bom.txt", raw, 0644))

	file, err := NewReader(fs).ReadFile(&models.FileInfo{Path: "/work/bom.txt"})
	require.NoError(t, err)
	assert.Equal(t, "abc", file.Text)
	assert.True(t, file.HadBOM)
}

func TestDecode_InvalidBytes(t *testing.T) {
	text, err := Decode([]byte("a\xffb"))
	require.NoError(t, err)
	assert.Equal(t, "a�b", text)
}
