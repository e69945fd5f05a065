package uploader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxFileSize is the largest accepted upload, 100 MiB inclusive.
const MaxFileSize int64 = 100 * 1024 * 1024

type Purpose string

const (
	PurposeVideo Purpose = "video"
	PurposeImage Purpose = "image"
)

type File struct {
	Name      string
	MediaType string
	Size      int64
	Content   io.Reader
}

// ValidateFile runs the local checks that gate any network call.
func ValidateFile(f File, purpose Purpose) error {
	if purpose == PurposeVideo && !strings.HasPrefix(strings.ToLower(f.MediaType), "video/") {
		return ErrInvalidFileType
	}
	if f.Size > MaxFileSize {
		return ErrFileTooLarge
	}
	return nil
}

// OpenFile opens path and sniffs its media type from content.
// The caller closes the returned file.
func OpenFile(path string) (File, *os.File, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return File{}, nil, fmt.Errorf("detect media type: %w", err)
	}

	fh, err := os.Open(path)
	if err != nil {
		return File{}, nil, err
	}

	info, err := fh.Stat()
	if err != nil {
		fh.Close()
		return File{}, nil, err
	}

	return File{
		Name:      filepath.Base(path),
		MediaType: mtype.String(),
		Size:      info.Size(),
		Content:   fh,
	}, fh, nil
}
