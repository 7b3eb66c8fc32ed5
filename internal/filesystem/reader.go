package filesystem

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/IvanShishkin/mojibake-inspector/pkg/models"
	"github.com/spf13/afero"
	"golang.org/x/text/encoding/unicode"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FileAccessError is returned when a candidate file cannot be opened or read
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("failed to read file %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}

// Reader opens candidate files and decodes them as UTF-8
type Reader struct {
	fs afero.Fs
}

// NewReader creates a reader over fs
func NewReader(fs afero.Fs) *Reader {
	return &Reader{fs: fs}
}

// ReadFile reads and decodes a file. A leading BOM is stripped and every
// ill-formed byte sequence becomes U+FFFD, the way an editor decodes it.
func (r *Reader) ReadFile(fileInfo *models.FileInfo) (*models.File, error) {
	raw, err := afero.ReadFile(r.fs, fileInfo.Path)
	if err != nil {
		return nil, &FileAccessError{Path: fileInfo.Path, Err: err}
	}

	text, err := Decode(raw)
	if err != nil {
		return nil, &FileAccessError{Path: fileInfo.Path, Err: err}
	}

	relPath := fileInfo.RelativePath
	if relPath == "" {
		relPath = filepath.ToSlash(fileInfo.Path)
	}

	return &models.File{
		Path:         fileInfo.Path,
		RelativePath: relPath,
		Size:         int64(len(raw)),
		ModTime:      fileInfo.ModTime,
		Text:         text,
		HadBOM:       bytes.HasPrefix(raw, utf8BOM),
	}, nil
}

// Decode converts raw bytes to text using the UTF-8 decoder
func Decode(raw []byte) (string, error) {
	decoded, err := unicode.UTF8BOM.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode: %w", err)
	}
	return string(decoded), nil
}
