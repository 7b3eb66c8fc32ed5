package models

import (
	"time"
)

// File represents a decoded candidate file
type File struct {
	Path         string    // Full file path, used as the index file identifier
	RelativePath string    // Slash-separated path relative to the scan root
	Size         int64     // Size on disk in bytes
	ModTime      time.Time // Modification time
	Text         string    // Decoded content
	HadBOM       bool      // A UTF-8 byte order mark was stripped
}

// FileInfo contains basic file information without content
type FileInfo struct {
	Path         string
	RelativePath string
	Size         int64
	ModTime      time.Time
	IsDir        bool
}
